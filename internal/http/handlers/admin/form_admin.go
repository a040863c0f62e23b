package admin

import (
	"strconv"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var formErrorRules = []mappedHandlerError{
	{target: service.ErrFormNotFound, code: response.CodeNotFound, msg: "form not found"},
	{target: service.ErrSlugTaken, code: response.CodeBadRequest, msg: "slug already taken"},
	{target: service.ErrFormSchemaInvalid, code: response.CodeBadRequest, msg: "form schema invalid"},
}

// ListForms lists the tenant's forms.
func (h *Handler) ListForms(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	forms, err := h.FormService.List(scope)
	if err != nil {
		respondError(c, response.CodeInternal, "form list failed", err)
		return
	}
	response.Success(c, forms)
}

// GetForm fetches one form with its schema.
func (h *Handler) GetForm(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	form, err := h.FormService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, formErrorRules, response.CodeInternal, "form fetch failed")
		return
	}
	response.Success(c, form)
}

// FormRequest is the form create/update payload.
type FormRequest struct {
	Slug     string      `json:"slug" binding:"required"`
	Name     string      `json:"name" binding:"required"`
	Schema   models.JSON `json:"schema" binding:"required"`
	IsActive bool        `json:"is_active"`
}

func (r FormRequest) toInput() service.FormInput {
	return service.FormInput{
		Slug:       r.Slug,
		Name:       r.Name,
		SchemaJSON: r.Schema,
		IsActive:   r.IsActive,
	}
}

// CreateForm inserts a form after validating its schema.
func (h *Handler) CreateForm(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	form, err := h.FormService.Create(scope, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, formErrorRules, response.CodeInternal, "form create failed")
		return
	}
	response.Success(c, form)
}

// UpdateForm edits a form and re-validates its schema.
func (h *Handler) UpdateForm(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	form, err := h.FormService.Update(scope, id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, formErrorRules, response.CodeInternal, "form update failed")
		return
	}
	response.Success(c, form)
}

// DeleteForm removes a form.
func (h *Handler) DeleteForm(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.FormService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, formErrorRules, response.CodeInternal, "form delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListFormSubmissions lists submissions for one form.
func (h *Handler) ListFormSubmissions(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	formID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	submissions, total, err := h.FormService.ListSubmissions(repository.FormSubmissionListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		FormID:   formID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "submission list failed", err)
		return
	}
	response.SuccessWithPage(c, submissions, paginationMeta(page, pageSize, total))
}
