package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCustomers lists the tenant's customers.
func (h *Handler) ListCustomers(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	customers, total, err := h.CustomerRepo.List(repository.CustomerListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "customer list failed", err)
		return
	}
	response.SuccessWithPage(c, customers, paginationMeta(page, pageSize, total))
}

// GetCustomer fetches one customer.
func (h *Handler) GetCustomer(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.CustomerRepo.GetByID(scope, id)
	if err != nil {
		respondError(c, response.CodeInternal, "customer fetch failed", err)
		return
	}
	if customer == nil {
		respondError(c, response.CodeNotFound, "customer not found", nil)
		return
	}
	response.Success(c, customer)
}

// CustomerStatusRequest toggles a customer account.
type CustomerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCustomerStatus enables or disables a customer account.
func (h *Handler) UpdateCustomerStatus(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CustomerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != constants.AccountStatusActive && status != constants.AccountStatusDisabled {
		respondError(c, response.CodeBadRequest, "invalid status", nil)
		return
	}

	customer, err := h.CustomerRepo.GetByID(scope, id)
	if err != nil {
		respondError(c, response.CodeInternal, "customer fetch failed", err)
		return
	}
	if customer == nil {
		respondError(c, response.CodeNotFound, "customer not found", nil)
		return
	}

	customer.Status = status
	if err := h.CustomerRepo.Update(customer); err != nil {
		respondError(c, response.CodeInternal, "customer update failed", err)
		return
	}
	requestLog(c).Infow("customer_status_changed",
		"customer_id", customer.ID,
		"tenant_id", customer.TenantID,
		"status", customer.Status,
	)
	response.Success(c, customer)
}
