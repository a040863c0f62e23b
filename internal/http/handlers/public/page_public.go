package public

import (
	"errors"
	"strconv"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPages lists the store's published pages.
func (h *Handler) GetPages(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	pages, total, err := h.PageService.List(repository.PageListFilter{
		Page:          page,
		PageSize:      pageSize,
		TenantID:      tenantID,
		OnlyPublished: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "page list failed", err)
		return
	}
	response.SuccessWithPage(c, pages, paginationMeta(page, pageSize, total))
}

// GetPageBySlug fetches one published page.
func (h *Handler) GetPageBySlug(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	pageRow, err := h.PageService.GetBySlug(tenantID, c.Param("slug"), true)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, response.CodeNotFound, "page not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "page fetch failed", err)
		return
	}
	response.Success(c, pageRow)
}
