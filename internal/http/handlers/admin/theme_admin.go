package admin

import (
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var themeErrorRules = []mappedHandlerError{
	{target: service.ErrThemeNotFound, code: response.CodeNotFound, msg: "theme not found"},
	{target: service.ErrThemeCodeTaken, code: response.CodeBadRequest, msg: "theme code already taken"},
	{target: service.ErrThemeNotActive, code: response.CodeBadRequest, msg: "theme not active"},
}

// ListThemes lists catalog themes. Tenant staff only see active ones.
func (h *Handler) ListThemes(c *gin.Context) {
	activeOnly := !isLandlord(c) || c.Query("active") == "true"
	themes, err := h.ThemeService.ListThemes(activeOnly)
	if err != nil {
		respondError(c, response.CodeInternal, "theme list failed", err)
		return
	}
	response.Success(c, themes)
}

// GetCatalogTheme fetches one catalog theme.
func (h *Handler) GetCatalogTheme(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	theme, err := h.ThemeService.GetTheme(id)
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme fetch failed")
		return
	}
	response.Success(c, theme)
}

// ThemeRequest is the catalog theme create/update payload.
type ThemeRequest struct {
	Code         string      `json:"code" binding:"required"`
	Name         string      `json:"name" binding:"required"`
	Template     string      `json:"template" binding:"required"`
	Defaults     models.JSON `json:"defaults"`
	PreviewImage string      `json:"preview_image"`
	IsActive     bool        `json:"is_active"`
	SortOrder    int         `json:"sort_order"`
}

func (r ThemeRequest) toInput() service.ThemeInput {
	return service.ThemeInput{
		Code:         r.Code,
		Name:         r.Name,
		Template:     r.Template,
		DefaultsJSON: r.Defaults,
		PreviewImage: r.PreviewImage,
		IsActive:     r.IsActive,
		SortOrder:    r.SortOrder,
	}
}

// CreateCatalogTheme inserts a catalog theme.
func (h *Handler) CreateCatalogTheme(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	theme, err := h.ThemeService.CreateTheme(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme create failed")
		return
	}
	response.Success(c, theme)
}

// UpdateCatalogTheme edits a catalog theme. Codes are immutable.
func (h *Handler) UpdateCatalogTheme(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	theme, err := h.ThemeService.UpdateTheme(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme update failed")
		return
	}
	response.Success(c, theme)
}

// DeleteCatalogTheme removes a catalog theme.
func (h *Handler) DeleteCatalogTheme(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ThemeService.DeleteTheme(id); err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetTenantTheme returns the tenant's current theme selection.
func (h *Handler) GetTenantTheme(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	selection, err := h.ThemeService.GetTenantTheme(scope)
	if err != nil {
		respondError(c, response.CodeInternal, "theme fetch failed", err)
		return
	}
	response.Success(c, selection)
}

// SelectThemeRequest is the tenant theme selection payload.
type SelectThemeRequest struct {
	ThemeID   uint        `json:"theme_id" binding:"required"`
	Overrides models.JSON `json:"overrides"`
}

// SelectTenantTheme switches the tenant to a catalog theme.
func (h *Handler) SelectTenantTheme(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req SelectThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	selection, err := h.ThemeService.SelectTheme(scope, req.ThemeID, req.Overrides)
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme select failed")
		return
	}
	response.Success(c, selection)
}

// OverridesRequest is the tenant theme overrides payload.
type OverridesRequest struct {
	Overrides models.JSON `json:"overrides" binding:"required"`
}

// UpdateTenantThemeOverrides replaces the tenant's setting overrides.
func (h *Handler) UpdateTenantThemeOverrides(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req OverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	selection, err := h.ThemeService.UpdateOverrides(scope, req.Overrides)
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme overrides update failed")
		return
	}
	response.Success(c, selection)
}

// PreviewTenantTheme returns the resolved payload the storefront would
// render for this tenant.
func (h *Handler) PreviewTenantTheme(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	payload, err := h.ThemeService.ResolvePayload(scope)
	if err != nil {
		respondWithMappedError(c, err, themeErrorRules, response.CodeInternal, "theme preview failed")
		return
	}
	response.Success(c, payload)
}
