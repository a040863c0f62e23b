package repository

import (
	"errors"
	"strings"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository is the customer data access interface.
type CustomerRepository interface {
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	GetByID(tenantID, id uint) (*models.Customer, error)
	GetByEmail(tenantID uint, email string) (*models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	CountByEmail(tenantID uint, email string) (int64, error)
}

// GormCustomerRepository is the GORM implementation.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates the customer repository.
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// List lists a tenant's customers.
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer

	query := r.db.Model(&models.Customer{}).Where("tenant_id = ?", filter.TenantID)
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

	if err := query.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// GetByID fetches a customer by ID within a tenant.
func (r *GormCustomerRepository) GetByID(tenantID, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("tenant_id = ?", tenantID).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByEmail fetches a customer by email within a tenant.
func (r *GormCustomerRepository) GetByEmail(tenantID uint, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("tenant_id = ? AND email = ?", tenantID, email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create inserts a customer.
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update saves a customer.
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// CountByEmail counts customers holding an email within a tenant.
func (r *GormCustomerRepository) CountByEmail(tenantID uint, email string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Customer{}).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
