package service

import (
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

var tenantStaffRoles = map[string]struct{}{
	constants.StaffRoleOwner:   {},
	constants.StaffRoleManager: {},
	constants.StaffRoleSupport: {},
}

// StaffService manages a tenant's staff accounts. The plan's staff limit
// is enforced on creation.
type StaffService struct {
	staffRepo  repository.StaffRepository
	tenantRepo repository.TenantRepository
	authSvc    *StaffAuthService
}

// NewStaffService creates the staff service.
func NewStaffService(
	staffRepo repository.StaffRepository,
	tenantRepo repository.TenantRepository,
	authSvc *StaffAuthService,
) *StaffService {
	return &StaffService{
		staffRepo:  staffRepo,
		tenantRepo: tenantRepo,
		authSvc:    authSvc,
	}
}

// List lists a tenant's staff.
func (s *StaffService) List(filter repository.StaffListFilter) ([]models.Staff, int64, error) {
	return s.staffRepo.List(filter)
}

// Get fetches one staff member within a tenant.
func (s *StaffService) Get(tenantID, id uint) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// CreateStaffInput is the staff creation payload.
type CreateStaffInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// Create adds a staff account to a tenant.
func (s *StaffService) Create(tenantID uint, input CreateStaffInput) (*models.Staff, error) {
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if _, ok := tenantStaffRoles[role]; !ok {
		role = constants.StaffRoleSupport
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.staffRepo.GetByEmail(tenantID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStaffExists
	}

	if err := s.checkStaffLimit(tenantID); err != nil {
		return nil, err
	}

	if err := s.authSvc.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	passwordHash, err := s.authSvc.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		Status:       constants.AccountStatusActive,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// UpdateStaffInput is the staff update payload.
type UpdateStaffInput struct {
	DisplayName *string
	Role        *string
	Status      *string
}

// Update edits a staff account. Role or status changes revoke the
// member's outstanding tokens.
func (s *StaffService) Update(tenantID, id uint, input UpdateStaffInput) (*models.Staff, error) {
	staff, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	if input.DisplayName != nil {
		staff.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		if _, ok := tenantStaffRoles[role]; !ok {
			return nil, ErrPermissionDenied
		}
		if role != staff.Role {
			staff.Role = role
			revoke = true
		}
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if status != constants.AccountStatusActive && status != constants.AccountStatusDisabled {
			status = staff.Status
		}
		if status != staff.Status {
			staff.Status = status
			revoke = true
		}
	}

	if revoke {
		now := time.Now()
		staff.TokenVersion++
		staff.TokenInvalidBefore = &now
	}

	if err := s.staffRepo.Update(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Delete removes a staff account.
func (s *StaffService) Delete(tenantID, id uint) error {
	staff, err := s.Get(tenantID, id)
	if err != nil {
		return err
	}
	return s.staffRepo.Delete(tenantID, staff.ID)
}

func (s *StaffService) checkStaffLimit(tenantID uint) error {
	if tenantID == constants.LandlordTenantID {
		return nil
	}
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return ErrTenantNotFound
	}
	if tenant.Plan == nil || tenant.Plan.MaxStaff <= 0 {
		return nil
	}
	count, err := s.staffRepo.CountByTenant(tenantID)
	if err != nil {
		return err
	}
	if count >= int64(tenant.Plan.MaxStaff) {
		return ErrPlanLimitReached
	}
	return nil
}
