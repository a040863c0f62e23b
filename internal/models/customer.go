package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a storefront shopper. Email is unique within the tenant.
type Customer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	TenantID     uint           `gorm:"index;not null;uniqueIndex:idx_customers_tenant_email" json:"tenant_id"`
	Email        string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_tenant_email" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(200);default:''" json:"display_name"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Customer) TableName() string {
	return "customers"
}

// CustomerSession backs the sf_session cookie. The token is an opaque
// random value; rows are the source of truth, redis is a read-through cache.
type CustomerSession struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Token      string    `gorm:"uniqueIndex;type:varchar(128);not null" json:"-"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName sets the table name.
func (CustomerSession) TableName() string {
	return "customer_sessions"
}

// Expired reports whether the session is past its expiry.
func (s *CustomerSession) Expired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}
