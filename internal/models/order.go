package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a tenant order placed by a storefront customer.
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TenantID       uint           `gorm:"index;not null" json:"tenant_id"`
	OrderNo        string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_no"`
	CustomerID     uint           `gorm:"index;not null" json:"customer_id"`
	Status         string         `gorm:"type:varchar(20);index;not null" json:"status"`
	Currency       string         `gorm:"type:varchar(10);not null" json:"currency"`
	SubtotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"`
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	CustomerNote   string         `gorm:"type:text" json:"customer_note,omitempty"`
	CancelReason   string         `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
	ClientIP       string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at,omitempty"` // timeout-cancel deadline while pending
	ConfirmedAt    *time.Time     `gorm:"index" json:"confirmed_at,omitempty"`
	CanceledAt     *time.Time     `gorm:"index" json:"canceled_at,omitempty"`
	CompletedAt    *time.Time     `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
