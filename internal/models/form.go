package models

import (
	"time"

	"gorm.io/gorm"
)

// Form is a tenant-defined form. SchemaJSON holds a "fields" array of
// field definitions (name, type, label, required, options).
type Form struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TenantID   uint           `gorm:"index;not null;uniqueIndex:idx_forms_tenant_slug" json:"tenant_id"`
	Slug       string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_forms_tenant_slug" json:"slug"`
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`
	SchemaJSON JSON           `gorm:"type:json;not null" json:"schema"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Form) TableName() string {
	return "forms"
}

// FormSubmission is a visitor submission validated against the form schema.
type FormSubmission struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	FormID    uint      `gorm:"index;not null" json:"form_id"`
	DataJSON  JSON      `gorm:"type:json;not null" json:"data"`
	ClientIP  string    `gorm:"type:varchar(64)" json:"client_ip,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (FormSubmission) TableName() string {
	return "form_submissions"
}
