package models

import (
	"time"

	"gorm.io/gorm"
)

// PricePlan is a subscription tier with per-tenant resource limits.
type PricePlan struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Code         string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`
	Name         string         `gorm:"type:varchar(200);not null" json:"name"`
	MonthlyPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"monthly_price"`
	Currency     string         `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	MaxProducts  int            `gorm:"not null;default:0" json:"max_products"`   // 0 means unlimited
	MaxStaff     int            `gorm:"not null;default:0" json:"max_staff"`      // 0 means unlimited
	MaxStorageMB int            `gorm:"not null;default:0" json:"max_storage_mb"` // 0 means unlimited
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PricePlan) TableName() string {
	return "price_plans"
}
