package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a tenant catalog item. Slug is unique within the tenant.
// When variants exist, StockTotal/StockReserved mirror the variant sums.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TenantID      uint           `gorm:"index;not null;uniqueIndex:idx_products_tenant_slug" json:"tenant_id"`
	Slug          string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_tenant_slug" json:"slug"`
	Title         string         `gorm:"type:varchar(300);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	PriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`
	Currency      string         `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	Images        StringArray    `gorm:"type:json" json:"images"`
	Tags          StringArray    `gorm:"type:json" json:"tags"`
	StockTotal    int            `gorm:"not null;default:0" json:"stock_total"`
	StockReserved int            `gorm:"not null;default:0" json:"stock_reserved"`
	Status        string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft/active/archived
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// StockAvailable is the sellable quantity.
func (p *Product) StockAvailable() int {
	if p == nil {
		return 0
	}
	available := p.StockTotal - p.StockReserved
	if available < 0 {
		return 0
	}
	return available
}
