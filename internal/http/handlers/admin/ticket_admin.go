package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var ticketErrorRules = []mappedHandlerError{
	{target: service.ErrTicketNotFound, code: response.CodeNotFound, msg: "ticket not found"},
	{target: service.ErrTicketClosed, code: response.CodeBadRequest, msg: "ticket is closed"},
	{target: service.ErrFormValidation, code: response.CodeBadRequest, msg: "subject and body are required"},
}

// ListTickets lists tickets. Landlord accounts see every tenant.
func (h *Handler) ListTickets(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.TicketListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if isLandlord(c) {
		if tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 64); err == nil {
			filter.TenantID = uint(tenantID)
		}
	}

	tickets, total, err := h.TicketService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "ticket list failed", err)
		return
	}
	response.SuccessWithPage(c, tickets, paginationMeta(page, pageSize, total))
}

// GetTicket fetches one ticket with its messages.
func (h *Handler) GetTicket(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.TicketService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, ticketErrorRules, response.CodeInternal, "ticket fetch failed")
		return
	}
	response.Success(c, ticket)
}

// OpenTicketRequest is the tenant ticket creation payload.
type OpenTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// OpenTicket opens a support ticket toward the landlord.
func (h *Handler) OpenTicket(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	ticket, err := h.TicketService.Open(scope, staffID, req.Subject, req.Body)
	if err != nil {
		respondWithMappedError(c, err, ticketErrorRules, response.CodeInternal, "ticket create failed")
		return
	}
	response.Success(c, ticket)
}

// ReplyTicketRequest is the ticket reply payload.
type ReplyTicketRequest struct {
	Body string `json:"body" binding:"required"`
}

// ReplyTicket appends a message. Landlord replies park the ticket as
// pending, tenant replies reopen it.
func (h *Handler) ReplyTicket(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReplyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	ticket, err := h.TicketService.Reply(scope, id, staffID, isLandlord(c), req.Body)
	if err != nil {
		respondWithMappedError(c, err, ticketErrorRules, response.CodeInternal, "ticket reply failed")
		return
	}
	response.Success(c, ticket)
}

// CloseTicket closes a ticket. Closing is idempotent.
func (h *Handler) CloseTicket(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.TicketService.Close(scope, id)
	if err != nil {
		respondWithMappedError(c, err, ticketErrorRules, response.CodeInternal, "ticket close failed")
		return
	}
	response.Success(c, ticket)
}

// ReopenTicket reopens a closed ticket.
func (h *Handler) ReopenTicket(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ticket, err := h.TicketService.Reopen(scope, id)
	if err != nil {
		respondWithMappedError(c, err, ticketErrorRules, response.CodeInternal, "ticket reopen failed")
		return
	}
	response.Success(c, ticket)
}
