package admin

import (
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var attributeErrorRules = []mappedHandlerError{
	{target: service.ErrAttributeNotFound, code: response.CodeNotFound, msg: "attribute not found"},
	{target: service.ErrAttributeCodeTaken, code: response.CodeBadRequest, msg: "attribute code already taken"},
}

// ListAttributes lists the tenant's attribute catalog.
func (h *Handler) ListAttributes(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	attributes, err := h.AttributeService.List(scope)
	if err != nil {
		respondError(c, response.CodeInternal, "attribute list failed", err)
		return
	}
	response.Success(c, attributes)
}

// GetAttribute fetches one attribute with its values.
func (h *Handler) GetAttribute(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attribute, err := h.AttributeService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute fetch failed")
		return
	}
	response.Success(c, attribute)
}

// AttributeRequest is the attribute create/update payload.
type AttributeRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateAttribute inserts an attribute.
func (h *Handler) CreateAttribute(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	attribute, err := h.AttributeService.Create(scope, service.AttributeInput{
		Code:      req.Code,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute create failed")
		return
	}
	response.Success(c, attribute)
}

// UpdateAttribute edits an attribute's name and ordering.
func (h *Handler) UpdateAttribute(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	attribute, err := h.AttributeService.Update(scope, id, service.AttributeInput{
		Code:      req.Code,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute update failed")
		return
	}
	response.Success(c, attribute)
}

// DeleteAttribute removes an attribute and its values.
func (h *Handler) DeleteAttribute(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AttributeService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AttributeValueRequest is the attribute value payload.
type AttributeValueRequest struct {
	Value     string `json:"value" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// AddAttributeValue appends a value to an attribute.
func (h *Handler) AddAttributeValue(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	attributeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	value, err := h.AttributeService.AddValue(scope, attributeID, req.Value, req.SortOrder)
	if err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute value create failed")
		return
	}
	response.Success(c, value)
}

// RemoveAttributeValue deletes one attribute value.
func (h *Handler) RemoveAttributeValue(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	valueID, ok := parseIDParam(c, "valueId")
	if !ok {
		return
	}
	if err := h.AttributeService.RemoveValue(scope, valueID); err != nil {
		respondWithMappedError(c, err, attributeErrorRules, response.CodeInternal, "attribute value delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
