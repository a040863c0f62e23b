package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// VariantRepository is the product variant data access interface.
type VariantRepository interface {
	ListByProduct(tenantID, productID uint) ([]models.ProductVariant, error)
	GetByID(tenantID, id uint) (*models.ProductVariant, error)
	GetBySKU(tenantID uint, sku string) (*models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	Delete(tenantID, id uint) error
	CountBySKU(tenantID uint, sku string, excludeID *uint) (int64, error)
	ReserveStock(tenantID, variantID uint, quantity int) (int64, error)
	ReleaseStock(tenantID, variantID uint, quantity int) (int64, error)
	ConsumeStock(tenantID, variantID uint, quantity int) (int64, error)
	ReplaceAttributeValues(variant *models.ProductVariant, valueIDs []uint) error
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository is the GORM implementation.
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository creates the variant repository.
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// ListByProduct lists a product's variants.
func (r *GormVariantRepository) ListByProduct(tenantID, productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Preload("AttributeValues").
		Order("sort_order DESC, id ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// GetByID fetches a variant by ID within a tenant.
func (r *GormVariantRepository) GetByID(tenantID, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.Where("tenant_id = ?", tenantID).
		Preload("AttributeValues").
		First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// GetBySKU fetches a variant by SKU within a tenant.
func (r *GormVariantRepository) GetBySKU(tenantID uint, sku string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.Where("tenant_id = ? AND sku = ?", tenantID, sku).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// Create inserts a variant.
func (r *GormVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// Update saves a variant.
func (r *GormVariantRepository) Update(variant *models.ProductVariant) error {
	return r.db.Save(variant).Error
}

// Delete soft-deletes a variant within a tenant.
func (r *GormVariantRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.ProductVariant{}, id).Error
}

// CountBySKU counts variants holding a SKU within a tenant.
func (r *GormVariantRepository) CountBySKU(tenantID uint, sku string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.ProductVariant{}).Where("tenant_id = ? AND sku = ?", tenantID, sku)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReserveStock moves quantity into the reserved counter. Zero rows affected
// means insufficient available stock.
func (r *GormVariantRepository) ReserveStock(tenantID, variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND tenant_id = ? AND stock_total - stock_reserved >= ?", variantID, tenantID, quantity).
		Update("stock_reserved", gorm.Expr("stock_reserved + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock returns reserved quantity to the available pool.
func (r *GormVariantRepository) ReleaseStock(tenantID, variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND tenant_id = ? AND stock_reserved >= ?", variantID, tenantID, quantity).
		Update("stock_reserved", gorm.Expr("stock_reserved - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ConsumeStock converts reserved quantity into a permanent deduction.
func (r *GormVariantRepository) ConsumeStock(tenantID, variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock consume params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND tenant_id = ? AND stock_reserved >= ? AND stock_total >= ?", variantID, tenantID, quantity, quantity).
		Updates(map[string]interface{}{
			"stock_total":    gorm.Expr("stock_total - ?", quantity),
			"stock_reserved": gorm.Expr("stock_reserved - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReplaceAttributeValues rewrites the variant's attribute value links.
func (r *GormVariantRepository) ReplaceAttributeValues(variant *models.ProductVariant, valueIDs []uint) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	values := make([]models.AttributeValue, 0, len(valueIDs))
	if len(valueIDs) > 0 {
		if err := r.db.Where("tenant_id = ? AND id IN ?", variant.TenantID, valueIDs).Find(&values).Error; err != nil {
			return err
		}
		if len(values) != len(valueIDs) {
			return errors.New("attribute value not found")
		}
	}
	return r.db.Model(variant).Association("AttributeValues").Replace(values)
}
