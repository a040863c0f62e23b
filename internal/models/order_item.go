package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is an order line with a snapshot of the product and variant
// at purchase time.
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	TenantID        uint           `gorm:"index;not null" json:"tenant_id"`
	OrderID         uint           `gorm:"index;not null" json:"order_id"`
	ProductID       uint           `gorm:"index;not null" json:"product_id"`
	VariantID       *uint          `gorm:"index" json:"variant_id,omitempty"`
	TitleSnapshot   string         `gorm:"type:varchar(300);not null" json:"title"`
	SKUSnapshot     string         `gorm:"type:varchar(64)" json:"sku,omitempty"`
	OptionsSnapshot JSON           `gorm:"type:json" json:"options,omitempty"`
	UnitPrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	TotalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
