package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts lists the store's active products.
func (h *Handler) GetProducts(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		TenantID:     tenantID,
		Search:       strings.TrimSpace(c.Query("search")),
		Tag:          strings.TrimSpace(c.Query("tag")),
		OnlyActive:   true,
		WithVariants: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.SuccessWithPage(c, products, paginationMeta(page, pageSize, total))
}

// GetProductBySlug fetches one active product with variants and
// attribute values.
func (h *Handler) GetProductBySlug(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetBySlug(tenantID, c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}
