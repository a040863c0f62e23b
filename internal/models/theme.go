package models

import (
	"time"

	"gorm.io/gorm"
)

// Theme is a builtin storefront theme with its default settings
// (colors, fonts, custom CSS/JS slots).
type Theme struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Code         string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"code"`
	Name         string         `gorm:"type:varchar(200);not null" json:"name"`
	Template     string         `gorm:"type:varchar(100);not null" json:"template"`
	DefaultsJSON JSON           `gorm:"type:json" json:"defaults"`
	PreviewImage string         `gorm:"type:varchar(500)" json:"preview_image"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Theme) TableName() string {
	return "themes"
}

// TenantTheme is the tenant's theme selection plus setting overrides.
// At most one active row per tenant.
type TenantTheme struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TenantID      uint           `gorm:"index;not null" json:"tenant_id"`
	ThemeID       uint           `gorm:"index;not null" json:"theme_id"`
	OverridesJSON JSON           `gorm:"type:json" json:"overrides"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Theme *Theme `gorm:"foreignKey:ThemeID" json:"theme,omitempty"`
}

// TableName sets the table name.
func (TenantTheme) TableName() string {
	return "tenant_themes"
}
