package service

import (
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// TicketService manages tenant-to-landlord support threads. Landlord
// callers pass the zero tenant scope and see every tenant's tickets.
type TicketService struct {
	ticketRepo repository.TicketRepository
}

// NewTicketService creates the ticket service.
func NewTicketService(ticketRepo repository.TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// List lists tickets within the caller's tenant scope.
func (s *TicketService) List(filter repository.TicketListFilter) ([]models.SupportTicket, int64, error) {
	return s.ticketRepo.List(filter)
}

// Get fetches a ticket with its thread. Tenant callers only see their
// own tickets; the landlord scope sees all.
func (s *TicketService) Get(scopeTenantID, id uint) (*models.SupportTicket, error) {
	ticket, err := s.ticketRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if scopeTenantID != constants.LandlordTenantID && ticket.TenantID != scopeTenantID {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// Open creates a ticket with its first message.
func (s *TicketService) Open(tenantID, staffID uint, subject, body string) (*models.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return nil, ErrFormValidation
	}

	ticket := &models.SupportTicket{
		TenantID: tenantID,
		Subject:  subject,
		Status:   constants.TicketStatusOpen,
		OpenedBy: staffID,
	}
	message := &models.TicketMessage{
		AuthorType: constants.TicketAuthorTenant,
		AuthorID:   staffID,
		Body:       body,
	}
	if err := s.ticketRepo.Create(ticket, message); err != nil {
		return nil, err
	}
	return s.Get(tenantID, ticket.ID)
}

// Reply appends a message. Tenant replies reopen the thread; landlord
// replies park it as pending. Closed tickets reject new messages.
func (s *TicketService) Reply(scopeTenantID, ticketID, authorID uint, asLandlord bool, body string) (*models.SupportTicket, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrFormValidation
	}

	ticket, err := s.Get(scopeTenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constants.TicketStatusClosed {
		return nil, ErrTicketClosed
	}

	authorType := constants.TicketAuthorTenant
	nextStatus := constants.TicketStatusOpen
	if asLandlord {
		authorType = constants.TicketAuthorLandlord
		nextStatus = constants.TicketStatusPending
	}

	message := &models.TicketMessage{
		TicketID:   ticket.ID,
		AuthorType: authorType,
		AuthorID:   authorID,
		Body:       body,
	}
	if err := s.ticketRepo.AppendMessage(message); err != nil {
		return nil, err
	}

	if ticket.Status != nextStatus {
		ticket.Status = nextStatus
		if err := s.ticketRepo.Update(ticket); err != nil {
			return nil, err
		}
	}
	return s.Get(scopeTenantID, ticket.ID)
}

// Close marks a ticket closed. Closing twice is a no-op.
func (s *TicketService) Close(scopeTenantID, ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.Get(scopeTenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == constants.TicketStatusClosed {
		return ticket, nil
	}
	now := time.Now()
	ticket.Status = constants.TicketStatusClosed
	ticket.ClosedAt = &now
	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Reopen moves a closed ticket back to open.
func (s *TicketService) Reopen(scopeTenantID, ticketID uint) (*models.SupportTicket, error) {
	ticket, err := s.Get(scopeTenantID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != constants.TicketStatusClosed {
		return ticket, nil
	}
	ticket.Status = constants.TicketStatusOpen
	ticket.ClosedAt = nil
	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
