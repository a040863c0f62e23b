package service

import (
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/authz"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"gorm.io/gorm"
)

// TenantService manages tenant stores on behalf of the landlord.
type TenantService struct {
	tenantRepo   repository.TenantRepository
	planRepo     repository.PlanRepository
	staffRepo    repository.StaffRepository
	authSvc      *StaffAuthService
	authzService *authz.Service
}

// NewTenantService creates the tenant service.
func NewTenantService(
	tenantRepo repository.TenantRepository,
	planRepo repository.PlanRepository,
	staffRepo repository.StaffRepository,
	authSvc *StaffAuthService,
	authzService *authz.Service,
) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		planRepo:     planRepo,
		staffRepo:    staffRepo,
		authSvc:      authSvc,
		authzService: authzService,
	}
}

// List lists tenants.
func (s *TenantService) List(filter repository.TenantListFilter) ([]models.Tenant, int64, error) {
	return s.tenantRepo.List(filter)
}

// Get fetches one tenant.
func (s *TenantService) Get(id uint) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

// ResolveActiveBySubdomain resolves a storefront host to its tenant.
// Suspended and pending tenants are not served.
func (s *TenantService) ResolveActiveBySubdomain(subdomain string) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetBySubdomain(NormalizeSubdomain(subdomain))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	if tenant.Status == constants.TenantStatusSuspended {
		return nil, ErrTenantSuspended
	}
	if tenant.Status != constants.TenantStatusActive {
		return nil, ErrTenantNotActive
	}
	return tenant, nil
}

// CreateTenantInput is the landlord tenant provisioning payload.
type CreateTenantInput struct {
	Subdomain     string
	Name          string
	PlanID        uint
	ContactEmail  string
	OwnerEmail    string
	OwnerPassword string
	OwnerName     string
}

// Create provisions a tenant with its owner staff account in one
// transaction. New tenants start in pending status.
func (s *TenantService) Create(input CreateTenantInput) (*models.Tenant, error) {
	subdomain := NormalizeSubdomain(input.Subdomain)
	if err := ValidateSubdomain(subdomain); err != nil {
		return nil, err
	}

	count, err := s.tenantRepo.CountBySubdomain(subdomain, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSubdomainTaken
	}

	plan, err := s.planRepo.GetByID(input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if err := s.authSvc.ValidatePassword(input.OwnerPassword); err != nil {
		return nil, err
	}
	passwordHash, err := s.authSvc.HashPassword(input.OwnerPassword)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		Subdomain:    subdomain,
		Name:         strings.TrimSpace(input.Name),
		Status:       constants.TenantStatusPending,
		PlanID:       plan.ID,
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
	}

	owner := &models.Staff{
		Email:        strings.ToLower(strings.TrimSpace(input.OwnerEmail)),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(input.OwnerName),
		Role:         constants.StaffRoleOwner,
		Status:       constants.AccountStatusActive,
	}
	err = s.tenantRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.tenantRepo.WithTx(tx).Create(tenant); err != nil {
			return err
		}
		owner.TenantID = tenant.ID
		return s.staffRepo.WithTx(tx).Create(owner)
	})
	if err != nil {
		return nil, err
	}

	// The grouping lives outside the transaction; the boot-time role sync
	// repairs a miss here.
	if err := s.authzService.AssignStaffRole(owner.ID, constants.StaffRoleOwner); err != nil {
		logger.Errorw("tenant_owner_role_assign_failed",
			"tenant_id", tenant.ID,
			"staff_id", owner.ID,
			"error", err,
		)
	}

	logger.Infow("tenant_created",
		"tenant_id", tenant.ID,
		"subdomain", tenant.Subdomain,
		"plan_id", tenant.PlanID,
	)
	return tenant, nil
}

// UpdateTenantInput is the landlord tenant update payload.
type UpdateTenantInput struct {
	Name         *string
	ContactEmail *string
	PlanID       *uint
	SettingsJSON models.JSON
}

// Update edits tenant fields. Subdomains are immutable after creation.
func (s *TenantService) Update(id uint, input UpdateTenantInput) (*models.Tenant, error) {
	tenant, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tenant.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactEmail != nil {
		tenant.ContactEmail = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
	}
	if input.PlanID != nil && *input.PlanID != tenant.PlanID {
		plan, err := s.planRepo.GetByID(*input.PlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, ErrPlanNotFound
		}
		tenant.PlanID = plan.ID
	}
	if input.SettingsJSON != nil {
		tenant.SettingsJSON = input.SettingsJSON
	}

	if err := s.tenantRepo.Update(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Activate moves a tenant into active status.
func (s *TenantService) Activate(id uint) (*models.Tenant, error) {
	tenant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	tenant.Status = constants.TenantStatusActive
	tenant.SuspendedAt = nil
	if err := s.tenantRepo.Update(tenant); err != nil {
		return nil, err
	}
	logger.Infow("tenant_activated", "tenant_id", tenant.ID, "subdomain", tenant.Subdomain)
	return tenant, nil
}

// Suspend blocks a tenant's storefront and staff access.
func (s *TenantService) Suspend(id uint) (*models.Tenant, error) {
	tenant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tenant.Status = constants.TenantStatusSuspended
	tenant.SuspendedAt = &now
	if err := s.tenantRepo.Update(tenant); err != nil {
		return nil, err
	}
	logger.Warnw("tenant_suspended", "tenant_id", tenant.ID, "subdomain", tenant.Subdomain)
	return tenant, nil
}
