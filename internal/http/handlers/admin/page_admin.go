package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var pageErrorRules = []mappedHandlerError{
	{target: service.ErrPageNotFound, code: response.CodeNotFound, msg: "page not found"},
	{target: service.ErrSlugTaken, code: response.CodeBadRequest, msg: "slug already taken"},
}

// ListPages lists the tenant's CMS pages.
func (h *Handler) ListPages(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	pages, total, err := h.PageService.List(repository.PageListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "page list failed", err)
		return
	}
	response.SuccessWithPage(c, pages, paginationMeta(page, pageSize, total))
}

// GetPage fetches one page.
func (h *Handler) GetPage(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pageRow, err := h.PageService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, pageErrorRules, response.CodeInternal, "page fetch failed")
		return
	}
	response.Success(c, pageRow)
}

// PageRequest is the page create/update payload.
type PageRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	Status    string `json:"status"`
	SortOrder int    `json:"sort_order"`
}

func (r PageRequest) toInput() service.PageInput {
	return service.PageInput{
		Slug:      r.Slug,
		Title:     r.Title,
		Body:      r.Body,
		Status:    r.Status,
		SortOrder: r.SortOrder,
	}
}

// CreatePage inserts a page. Publishing stamps published_at.
func (h *Handler) CreatePage(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	pageRow, err := h.PageService.Create(scope, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, pageErrorRules, response.CodeInternal, "page create failed")
		return
	}
	response.Success(c, pageRow)
}

// UpdatePage edits a page.
func (h *Handler) UpdatePage(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	pageRow, err := h.PageService.Update(scope, id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, pageErrorRules, response.CodeInternal, "page update failed")
		return
	}
	response.Success(c, pageRow)
}

// DeletePage removes a page.
func (h *Handler) DeletePage(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PageService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, pageErrorRules, response.CodeInternal, "page delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
