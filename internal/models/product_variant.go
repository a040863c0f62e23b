package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant is a purchasable variation of a product. SKU is unique
// within the tenant. A nil PriceAmount override falls back to the product
// price at order time.
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TenantID      uint           `gorm:"index;not null;uniqueIndex:idx_variants_tenant_sku" json:"tenant_id"`
	ProductID     uint           `gorm:"index;not null" json:"product_id"`
	SKU           string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_variants_tenant_sku" json:"sku"`
	PriceAmount   *Money         `gorm:"type:decimal(20,2)" json:"price_amount,omitempty"`
	OptionsJSON   JSON           `gorm:"type:json" json:"options"` // e.g. {"size":"M","color":"red"}
	StockTotal    int            `gorm:"not null;default:0" json:"stock_total"`
	StockReserved int            `gorm:"not null;default:0" json:"stock_reserved"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product         *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	AttributeValues []AttributeValue `gorm:"many2many:variant_attribute_values" json:"attribute_values,omitempty"`
}

// TableName sets the table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}

// StockAvailable is the sellable quantity of the variant.
func (v *ProductVariant) StockAvailable() int {
	if v == nil {
		return 0
	}
	available := v.StockTotal - v.StockReserved
	if available < 0 {
		return 0
	}
	return available
}
