package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrSlugTaken, code: response.CodeBadRequest, msg: "slug already taken"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, msg: "variant not found"},
	{target: service.ErrSKUTaken, code: response.CodeBadRequest, msg: "sku already taken"},
	{target: service.ErrAttributeNotFound, code: response.CodeBadRequest, msg: "attribute value not found"},
	{target: service.ErrPlanLimitReached, code: response.CodeBadRequest, msg: "plan product limit reached"},
}

// ListProducts lists the tenant's products.
func (h *Handler) ListProducts(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		TenantID:     scope,
		Status:       strings.TrimSpace(c.Query("status")),
		Search:       strings.TrimSpace(c.Query("search")),
		Tag:          strings.TrimSpace(c.Query("tag")),
		WithVariants: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.SuccessWithPage(c, products, paginationMeta(page, pageSize, total))
}

// GetProduct fetches one product with variants.
func (h *Handler) GetProduct(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// ProductRequest is the product create/update payload.
type ProductRequest struct {
	Slug        string             `json:"slug" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	PriceAmount models.Money       `json:"price_amount"`
	Currency    string             `json:"currency"`
	Images      models.StringArray `json:"images"`
	Tags        models.StringArray `json:"tags"`
	StockTotal  *int               `json:"stock_total"`
	Status      string             `json:"status"`
	SortOrder   int                `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		PriceAmount: r.PriceAmount,
		Currency:    r.Currency,
		Images:      r.Images,
		Tags:        r.Tags,
		StockTotal:  r.StockTotal,
		Status:      r.Status,
		SortOrder:   r.SortOrder,
	}
}

// CreateProduct inserts a product within the plan limit.
func (h *Handler) CreateProduct(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Create(scope, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product create failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct edits a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.Update(scope, id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product update failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product and its variants.
func (h *Handler) DeleteProduct(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "product delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// VariantRequest is the variant create/update payload.
type VariantRequest struct {
	SKU               string        `json:"sku" binding:"required"`
	PriceAmount       *models.Money `json:"price_amount"`
	Options           models.JSON   `json:"options"`
	StockTotal        int           `json:"stock_total"`
	IsActive          bool          `json:"is_active"`
	SortOrder         int           `json:"sort_order"`
	AttributeValueIDs []uint        `json:"attribute_value_ids"`
}

func (r VariantRequest) toInput() service.VariantInput {
	return service.VariantInput{
		SKU:               r.SKU,
		PriceAmount:       r.PriceAmount,
		OptionsJSON:       r.Options,
		StockTotal:        r.StockTotal,
		IsActive:          r.IsActive,
		SortOrder:         r.SortOrder,
		AttributeValueIDs: r.AttributeValueIDs,
	}
}

// CreateVariant adds a variant to a product.
func (h *Handler) CreateVariant(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	variant, err := h.ProductService.CreateVariant(scope, productID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "variant create failed")
		return
	}
	response.Success(c, variant)
}

// UpdateVariant edits a variant.
func (h *Handler) UpdateVariant(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	variant, err := h.ProductService.UpdateVariant(scope, productID, variantID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "variant update failed")
		return
	}
	response.Success(c, variant)
}

// DeleteVariant removes a variant and reconciles the parent counters.
func (h *Handler) DeleteVariant(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteVariant(scope, productID, variantID); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "variant delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
