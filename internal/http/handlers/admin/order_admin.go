package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, msg: "status transition not allowed"},
}

// ListOrders lists the tenant's orders.
func (h *Handler) ListOrders(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	if from := strings.TrimSpace(c.Query("created_from")); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if to := strings.TrimSpace(c.Query("created_to")); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = &t
		}
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, paginationMeta(page, pageSize, total))
}

// GetOrder fetches one order with its items.
func (h *Handler) GetOrder(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// OrderStatusRequest is the status transition payload.
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateOrderStatus applies one status transition.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.Transition(scope, id, req.Status, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order status update failed")
		return
	}
	requestLog(c).Infow("order_status_changed",
		"order_id", order.ID,
		"tenant_id", order.TenantID,
		"status", order.Status,
	)
	response.Success(c, order)
}
