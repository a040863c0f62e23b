package models

import (
	"time"

	"gorm.io/gorm"
)

// Attribute is a per-tenant option dimension (size, color, ...).
type Attribute struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"index;not null;uniqueIndex:idx_attributes_tenant_code" json:"tenant_id"`
	Code      string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_attributes_tenant_code" json:"code"`
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Values []AttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"`
}

// TableName sets the table name.
func (Attribute) TableName() string {
	return "attributes"
}

// AttributeValue is one selectable value of an attribute.
type AttributeValue struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TenantID    uint           `gorm:"index;not null" json:"tenant_id"`
	AttributeID uint           `gorm:"index;not null" json:"attribute_id"`
	Value       string         `gorm:"type:varchar(200);not null" json:"value"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (AttributeValue) TableName() string {
	return "attribute_values"
}
