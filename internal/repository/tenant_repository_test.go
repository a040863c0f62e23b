package repository

import (
	"testing"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTenantRepositoryTest(t *testing.T) *GormTenantRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Tenant{}, &models.PricePlan{}); err != nil {
		t.Fatalf("migrate tenant tables failed: %v", err)
	}
	return NewTenantRepository(db)
}

func createTestTenant(t *testing.T, repo *GormTenantRepository, subdomain, status string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Subdomain:    subdomain,
		Name:         "Store " + subdomain,
		Status:       status,
		PlanID:       1,
		ContactEmail: subdomain + "@example.com",
	}
	if err := repo.Create(tenant); err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	return tenant
}

func TestTenantGetBySubdomain(t *testing.T) {
	repo := setupTenantRepositoryTest(t)
	created := createTestTenant(t, repo, "acme-lookup", constants.TenantStatusActive)

	got, err := repo.GetBySubdomain("acme-lookup")
	if err != nil {
		t.Fatalf("get by subdomain failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected tenant %d, got %+v", created.ID, got)
	}

	missing, err := repo.GetBySubdomain("nobody-home")
	if err != nil {
		t.Fatalf("get missing subdomain failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown subdomain, got %+v", missing)
	}
}

func TestTenantCountBySubdomainExcludesSelf(t *testing.T) {
	repo := setupTenantRepositoryTest(t)
	tenant := createTestTenant(t, repo, "acme-count", constants.TenantStatusPending)

	count, err := repo.CountBySubdomain("acme-count", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	count, err = repo.CountBySubdomain("acme-count", &tenant.ID)
	if err != nil {
		t.Fatalf("count with exclusion failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count with exclusion want 0 got %d", count)
	}
}

func TestTenantListFiltersByStatus(t *testing.T) {
	repo := setupTenantRepositoryTest(t)
	active := createTestTenant(t, repo, "list-active-store", constants.TenantStatusActive)
	createTestTenant(t, repo, "list-suspended-store", constants.TenantStatusSuspended)

	tenants, _, err := repo.List(TenantListFilter{
		Page:     1,
		PageSize: 50,
		Status:   constants.TenantStatusActive,
		Search:   "list-",
	})
	if err != nil {
		t.Fatalf("list tenants failed: %v", err)
	}
	if len(tenants) != 1 || tenants[0].ID != active.ID {
		t.Fatalf("expected only active tenant, got %d rows", len(tenants))
	}
}
