package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// TicketRepository covers support tickets and their messages.
type TicketRepository interface {
	List(filter TicketListFilter) ([]models.SupportTicket, int64, error)
	GetByID(id uint) (*models.SupportTicket, error)
	Create(ticket *models.SupportTicket, firstMessage *models.TicketMessage) error
	Update(ticket *models.SupportTicket) error
	AppendMessage(message *models.TicketMessage) error
}

// GormTicketRepository is the GORM implementation.
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates the ticket repository.
func NewTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// List lists tickets. A zero TenantID lists across all tenants.
func (r *GormTicketRepository) List(filter TicketListFilter) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket

	query := r.db.Model(&models.SupportTicket{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// GetByID fetches a ticket with its message thread.
func (r *GormTicketRepository) GetByID(id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// Create inserts a ticket with its opening message.
func (r *GormTicketRepository) Create(ticket *models.SupportTicket, firstMessage *models.TicketMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		if firstMessage != nil {
			firstMessage.TicketID = ticket.ID
			if err := tx.Create(firstMessage).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves a ticket.
func (r *GormTicketRepository) Update(ticket *models.SupportTicket) error {
	return r.db.Save(ticket).Error
}

// AppendMessage adds a message to a ticket thread.
func (r *GormTicketRepository) AppendMessage(message *models.TicketMessage) error {
	return r.db.Create(message).Error
}
