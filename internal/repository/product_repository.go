package repository

import (
	"errors"
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface. Every query is
// scoped by tenant ID.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Product, error)
	GetByID(tenantID, id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(tenantID, id uint) error
	CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error)
	CountByTenant(tenantID uint) (int64, error)
	ReserveStock(tenantID, productID uint, quantity int) (int64, error)
	ReleaseStock(tenantID, productID uint, quantity int) (int64, error)
	ConsumeStock(tenantID, productID uint, quantity int) (int64, error)
	ReconcileStockFromVariants(tenantID, productID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List lists products of a tenant.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", filter.TenantID)
	if filter.WithVariants {
		if filter.OnlyActive {
			query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
				return db.Where("is_active = ?", true).Order("sort_order DESC, id ASC")
			})
		} else {
			query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order DESC, id ASC")
			})
		}
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ProductStatusActive)
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("slug LIKE ? OR title LIKE ? OR description LIKE ?", like, like, like)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetBySlug fetches a product by slug within a tenant.
func (r *GormProductRepository) GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if onlyActive {
		query = query.Where("status = ?", constants.ProductStatusActive)
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order DESC, id ASC")
		})
	} else {
		query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		})
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID fetches a product by ID within a tenant.
func (r *GormProductRepository) GetByID(tenantID, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		}).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves a product.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete soft-deletes a product within a tenant.
func (r *GormProductRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.Product{}, id).Error
}

// CountBySlug counts products holding a slug within a tenant.
func (r *GormProductRepository) CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByTenant counts products of a tenant, used for plan limits.
func (r *GormProductRepository) CountByTenant(tenantID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReserveStock moves quantity into the reserved counter. Zero rows affected
// means insufficient available stock.
func (r *GormProductRepository) ReserveStock(tenantID, productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND tenant_id = ? AND stock_total - stock_reserved >= ?", productID, tenantID, quantity).
		Update("stock_reserved", gorm.Expr("stock_reserved + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock returns reserved quantity to the available pool.
func (r *GormProductRepository) ReleaseStock(tenantID, productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND tenant_id = ? AND stock_reserved >= ?", productID, tenantID, quantity).
		Update("stock_reserved", gorm.Expr("stock_reserved - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ConsumeStock converts reserved quantity into a permanent deduction.
func (r *GormProductRepository) ConsumeStock(tenantID, productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock consume params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND tenant_id = ? AND stock_reserved >= ? AND stock_total >= ?", productID, tenantID, quantity, quantity).
		Updates(map[string]interface{}{
			"stock_total":    gorm.Expr("stock_total - ?", quantity),
			"stock_reserved": gorm.Expr("stock_reserved - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReconcileStockFromVariants rewrites the product counters from the variant
// sums. No-op for products without variants.
func (r *GormProductRepository) ReconcileStockFromVariants(tenantID, productID uint) error {
	if productID == 0 {
		return errors.New("invalid product id")
	}
	var variantCount int64
	if err := r.db.Model(&models.ProductVariant{}).
		Where("product_id = ? AND tenant_id = ?", productID, tenantID).
		Count(&variantCount).Error; err != nil {
		return err
	}
	if variantCount == 0 {
		return nil
	}
	const sumTotalSQL = "COALESCE((SELECT SUM(v.stock_total) FROM product_variants v WHERE v.product_id = products.id AND v.deleted_at IS NULL), 0)"
	const sumReservedSQL = "COALESCE((SELECT SUM(v.stock_reserved) FROM product_variants v WHERE v.product_id = products.id AND v.deleted_at IS NULL), 0)"
	return r.db.Model(&models.Product{}).
		Where("id = ? AND tenant_id = ?", productID, tenantID).
		Updates(map[string]interface{}{
			"stock_total":    gorm.Expr(sumTotalSQL),
			"stock_reserved": gorm.Expr(sumReservedSQL),
		}).Error
}
