package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface. Tenant-owned lookups
// take the tenant ID explicitly.
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(tenantID, id uint) (*models.Order, error)
	GetByOrderNo(tenantID uint, orderNo string) (*models.Order, error)
	GetByIDAndCustomer(tenantID, id, customerID uint) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(tenantID, id uint, status string, updates map[string]interface{}) error
	ListExpiredPending(now time.Time, limit int) ([]models.Order, error)
	ResolveCustomerEmail(tenantID, orderID uint) (string, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts an order with its items.
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		items[i].TenantID = order.TenantID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches an order with items within a tenant.
func (r *GormOrderRepository) GetByID(tenantID, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("Customer").
		Where("tenant_id = ?", tenantID).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its number within a tenant.
func (r *GormOrderRepository) GetByOrderNo(tenantID uint, orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("Customer").
		Where("tenant_id = ? AND order_no = ?", tenantID, orderNo).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndCustomer fetches a customer's own order.
func (r *GormOrderRepository) GetByIDAndCustomer(tenantID, id, customerID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").
		Where("tenant_id = ? AND id = ? AND customer_id = ?", tenantID, id, customerID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List lists orders of a tenant, optionally restricted to one customer.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{}).Where("tenant_id = ?", filter.TenantID)
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus updates an order's status plus extra columns in one write.
func (r *GormOrderRepository) UpdateStatus(tenantID, id uint, status string, updates map[string]interface{}) error {
	values := map[string]interface{}{"status": status}
	for key, value := range updates {
		values[key] = value
	}
	return r.db.Model(&models.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(values).Error
}

// ListExpiredPending returns pending orders past their confirm deadline,
// across all tenants, for the timeout-cancel worker.
func (r *GormOrderRepository) ListExpiredPending(now time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Preload("Items").
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", "pending", now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ResolveCustomerEmail resolves the notification address for an order.
func (r *GormOrderRepository) ResolveCustomerEmail(tenantID, orderID uint) (string, error) {
	if orderID == 0 {
		return "", nil
	}

	var orderRow struct {
		CustomerID uint
	}
	if err := r.db.Model(&models.Order{}).
		Select("customer_id").
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		Take(&orderRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if orderRow.CustomerID == 0 {
		return "", nil
	}

	var customerRow struct {
		Email string
	}
	if err := r.db.Model(&models.Customer{}).
		Select("email").
		Where("tenant_id = ? AND id = ?", tenantID, orderRow.CustomerID).
		Take(&customerRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(customerRow.Email), nil
}
