package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant is a store operated by a tenant owner under the landlord.
type Tenant struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Subdomain    string         `gorm:"uniqueIndex;type:varchar(63);not null" json:"subdomain"` // resolved from X-Store / ?store=
	Name         string         `gorm:"type:varchar(200);not null" json:"name"`
	Status       string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending/active/suspended
	PlanID       uint           `gorm:"index;not null" json:"plan_id"`
	ContactEmail string         `gorm:"type:varchar(200)" json:"contact_email"`
	SettingsJSON JSON           `gorm:"type:json" json:"settings"`
	SuspendedAt  *time.Time     `json:"suspended_at,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Plan *PricePlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// TableName sets the table name.
func (Tenant) TableName() string {
	return "tenants"
}
