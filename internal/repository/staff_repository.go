package repository

import (
	"errors"
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// StaffRepository is the staff account data access interface.
type StaffRepository interface {
	WithTx(tx *gorm.DB) StaffRepository
	List(filter StaffListFilter) ([]models.Staff, int64, error)
	ListRoleBindings() ([]models.Staff, error)
	GetByID(tenantID, id uint) (*models.Staff, error)
	GetByEmail(tenantID uint, email string) (*models.Staff, error)
	Create(staff *models.Staff) error
	Update(staff *models.Staff) error
	Delete(tenantID, id uint) error
	CountByTenant(tenantID uint) (int64, error)
	BumpTokenVersion(id uint) error
}

// GormStaffRepository is the GORM implementation.
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates the staff repository.
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *GormStaffRepository) WithTx(tx *gorm.DB) StaffRepository {
	if tx == nil {
		return r
	}
	return &GormStaffRepository{db: tx}
}

// List lists staff accounts within a tenant scope.
func (r *GormStaffRepository) List(filter StaffListFilter) ([]models.Staff, int64, error) {
	var staff []models.Staff

	query := r.db.Model(&models.Staff{}).Where("tenant_id = ?", filter.TenantID)
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR display_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC").Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// ListRoleBindings lists the id and stored role of every active staff
// account across all tenants. Used to sync authorization groupings at boot.
func (r *GormStaffRepository) ListRoleBindings() ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.Model(&models.Staff{}).
		Select("id", "tenant_id", "role").
		Where("status = ?", constants.AccountStatusActive).
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// GetByID fetches a staff account by ID within a tenant scope. Landlord
// accounts live in the zero scope.
func (r *GormStaffRepository) GetByID(tenantID, id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// GetByEmail fetches a staff account by email within a tenant scope.
func (r *GormStaffRepository) GetByEmail(tenantID uint, email string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.Where("tenant_id = ? AND email = ?", tenantID, email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// Create inserts a staff account.
func (r *GormStaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// Update saves a staff account.
func (r *GormStaffRepository) Update(staff *models.Staff) error {
	return r.db.Save(staff).Error
}

// Delete soft-deletes a staff account within a tenant scope.
func (r *GormStaffRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.Staff{}, id).Error
}

// CountByTenant counts staff accounts of a tenant.
func (r *GormStaffRepository) CountByTenant(tenantID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Staff{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// BumpTokenVersion invalidates all previously issued tokens of an account.
func (r *GormStaffRepository) BumpTokenVersion(id uint) error {
	return r.db.Model(&models.Staff{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}
