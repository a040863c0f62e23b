package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/storeflow/storeflow/internal/authz"
	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type tenantServiceFixture struct {
	svc       *TenantService
	db        *gorm.DB
	staffRepo repository.StaffRepository
	authzSvc  *authz.Service
}

func setupTenantServiceTest(t *testing.T) *tenantServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PricePlan{}, &models.Tenant{}, &models.Staff{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	authzSvc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzSvc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	staffRepo := repository.NewStaffRepository(db)
	svc := NewTenantService(
		repository.NewTenantRepository(db),
		repository.NewPlanRepository(db),
		staffRepo,
		NewStaffAuthService(&config.Config{}, staffRepo),
		authzSvc,
	)
	return &tenantServiceFixture{svc: svc, db: db, staffRepo: staffRepo, authzSvc: authzSvc}
}

func (f *tenantServiceFixture) createPlan(t *testing.T) *models.PricePlan {
	t.Helper()
	plan := &models.PricePlan{Code: "starter", Name: "Starter", IsActive: true}
	if err := f.db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	return plan
}

func TestTenantCreateBootstrapsOwner(t *testing.T) {
	f := setupTenantServiceTest(t)
	plan := f.createPlan(t)

	tenant, err := f.svc.Create(CreateTenantInput{
		Subdomain:     "Acme-Gifts",
		Name:          "  Acme Gifts  ",
		PlanID:        plan.ID,
		ContactEmail:  "Hello@Acme.Test",
		OwnerEmail:    "Owner@Acme.Test",
		OwnerPassword: "owner-secret",
		OwnerName:     "Pat Owner",
	})
	if err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	if tenant.Subdomain != "acme-gifts" {
		t.Fatalf("subdomain should be normalized, got %q", tenant.Subdomain)
	}
	if tenant.Status != constants.TenantStatusPending {
		t.Fatalf("new tenant should be pending, got %q", tenant.Status)
	}

	owner, err := f.staffRepo.GetByEmail(tenant.ID, "owner@acme.test")
	if err != nil {
		t.Fatalf("fetch owner failed: %v", err)
	}
	if owner == nil {
		t.Fatalf("owner staff account should exist after provisioning")
	}
	if owner.Role != constants.StaffRoleOwner {
		t.Fatalf("owner role want %q got %q", constants.StaffRoleOwner, owner.Role)
	}

	// The owner must be able to reach the tenant admin API right away.
	roles, err := f.authzSvc.GetStaffRoles(owner.ID)
	if err != nil {
		t.Fatalf("get owner roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:owner" {
		t.Fatalf("owner roles want [role:owner], got %v", roles)
	}
	allow, err := f.authzSvc.EnforceStaff(owner.ID, "/api/v1/admin/products", "GET")
	if err != nil {
		t.Fatalf("enforce owner failed: %v", err)
	}
	if !allow {
		t.Fatalf("freshly provisioned owner must pass the admin RBAC check")
	}
}

func TestTenantCreateRejectsDuplicateSubdomain(t *testing.T) {
	f := setupTenantServiceTest(t)
	plan := f.createPlan(t)

	input := CreateTenantInput{
		Subdomain:     "acme",
		Name:          "Acme",
		PlanID:        plan.ID,
		OwnerEmail:    "owner@acme.test",
		OwnerPassword: "owner-secret",
	}
	if _, err := f.svc.Create(input); err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	if _, err := f.svc.Create(input); !errors.Is(err, ErrSubdomainTaken) {
		t.Fatalf("duplicate subdomain want ErrSubdomainTaken got %v", err)
	}

	input.Subdomain = "fresh"
	input.PlanID = plan.ID + 100
	if _, err := f.svc.Create(input); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("missing plan want ErrPlanNotFound got %v", err)
	}
}
