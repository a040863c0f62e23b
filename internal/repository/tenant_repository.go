package repository

import (
	"errors"
	"strings"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// TenantRepository is the tenant data access interface.
type TenantRepository interface {
	List(filter TenantListFilter) ([]models.Tenant, int64, error)
	GetByID(id uint) (*models.Tenant, error)
	GetBySubdomain(subdomain string) (*models.Tenant, error)
	Create(tenant *models.Tenant) error
	Update(tenant *models.Tenant) error
	CountBySubdomain(subdomain string, excludeID *uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) TenantRepository
}

// GormTenantRepository is the GORM implementation.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates the tenant repository.
func NewTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormTenantRepository) WithTx(tx *gorm.DB) TenantRepository {
	if tx == nil {
		return r
	}
	return &GormTenantRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormTenantRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List lists tenants.
func (r *GormTenantRepository) List(filter TenantListFilter) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant

	query := r.db.Model(&models.Tenant{})
	if filter.WithPlan {
		query = query.Preload("Plan")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PlanID != 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("subdomain LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// GetByID fetches a tenant by ID.
func (r *GormTenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Preload("Plan").First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// GetBySubdomain fetches a tenant by its subdomain.
func (r *GormTenantRepository) GetBySubdomain(subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Preload("Plan").Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// Create inserts a tenant.
func (r *GormTenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// Update saves a tenant.
func (r *GormTenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// CountBySubdomain counts tenants holding a subdomain.
func (r *GormTenantRepository) CountBySubdomain(subdomain string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Tenant{}).Where("subdomain = ?", subdomain)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
