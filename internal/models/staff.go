package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is an admin account: landlord rows carry tenant_id 0, tenant staff
// carry their tenant's ID. Email is unique within a tenant scope.
type Staff struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	TenantID           uint           `gorm:"index;not null;default:0;uniqueIndex:idx_staff_tenant_email" json:"tenant_id"`
	Email              string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_staff_tenant_email" json:"email"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	DisplayName        string         `gorm:"type:varchar(200);default:''" json:"display_name"`
	Role               string         `gorm:"type:varchar(32);not null;index" json:"role"` // landlord/owner/manager/support
	Status             string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"` // bump to revoke all issued tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Staff) TableName() string {
	return "staff"
}

// IsLandlord reports whether the account operates at platform scope.
func (s *Staff) IsLandlord() bool {
	return s != nil && s.TenantID == 0
}
