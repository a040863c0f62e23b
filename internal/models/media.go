package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaUpload is a tenant-uploaded file's metadata.
type MediaUpload struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TenantID   uint           `gorm:"index;not null" json:"tenant_id"`
	Path       string         `gorm:"type:varchar(500);not null" json:"path"`
	Filename   string         `gorm:"type:varchar(300);not null" json:"filename"`
	MimeType   string         `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes  int64          `gorm:"not null;default:0" json:"size_bytes"`
	UploadedBy uint           `gorm:"index" json:"uploaded_by"` // staff ID
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (MediaUpload) TableName() string {
	return "media_uploads"
}
