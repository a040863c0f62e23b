package public

import (
	"strconv"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var customerOrderErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyOrder, code: response.CodeBadRequest, msg: "order has no items"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "variant not available"},
	{target: service.ErrVariantRequired, code: response.CodeBadRequest, msg: "variant selection required"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, msg: "order can no longer be canceled"},
}

// OrderItemRequest is one checkout line.
type OrderItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items        []OrderItemRequest `json:"items" binding:"required"`
	CustomerNote string             `json:"customer_note"`
}

// CreateOrder places an order for the authenticated customer.
func (h *Handler) CreateOrder(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.Create(tenantID, customerID, service.CreateOrderInput{
		Items:        items,
		CustomerNote: req.CustomerNote,
		ClientIP:     c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, customerOrderErrorRules, response.CodeInternal, "order create failed")
		return
	}
	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"tenant_id", tenantID,
		"customer_id", customerID,
	)
	response.Success(c, order)
}

// ListOrders lists the authenticated customer's orders.
func (h *Handler) ListOrders(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListForCustomer(tenantID, customerID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, paginationMeta(page, pageSize, total))
}

// GetOrder fetches one of the customer's orders.
func (h *Handler) GetOrder(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetForCustomer(tenantID, id, customerID)
	if err != nil {
		respondWithMappedError(c, err, customerOrderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// CancelOrderRequest is the customer cancellation payload.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels one of the customer's pending or confirmed
// orders and restores reserved stock.
func (h *Handler) CancelOrder(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderService.CancelByCustomer(tenantID, id, customerID, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, customerOrderErrorRules, response.CodeInternal, "order cancel failed")
		return
	}
	response.Success(c, order)
}
