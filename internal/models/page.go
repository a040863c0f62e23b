package models

import (
	"time"

	"gorm.io/gorm"
)

// Page is a tenant CMS page. Slug is unique within the tenant.
type Page struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TenantID    uint           `gorm:"index;not null;uniqueIndex:idx_pages_tenant_slug" json:"tenant_id"`
	Slug        string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_pages_tenant_slug" json:"slug"`
	Title       string         `gorm:"type:varchar(300);not null" json:"title"`
	Body        string         `gorm:"type:text" json:"body"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // draft/published
	PublishedAt *time.Time     `gorm:"index" json:"published_at,omitempty"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Page) TableName() string {
	return "pages"
}
