package models

import (
	"time"

	"gorm.io/gorm"
)

// SupportTicket is a tenant-to-landlord support thread.
type SupportTicket struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	Subject   string         `gorm:"type:varchar(300);not null" json:"subject"`
	Status    string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"` // open/pending/closed
	OpenedBy  uint           `gorm:"index;not null" json:"opened_by"`                              // staff ID
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

// TableName sets the table name.
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// TicketMessage is one message on a ticket thread.
type TicketMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TicketID   uint      `gorm:"index;not null" json:"ticket_id"`
	AuthorType string    `gorm:"type:varchar(20);not null" json:"author_type"` // tenant/landlord
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (TicketMessage) TableName() string {
	return "ticket_messages"
}
