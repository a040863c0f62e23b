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

var tenantErrorRules = []mappedHandlerError{
	{target: service.ErrTenantNotFound, code: response.CodeNotFound, msg: "tenant not found"},
	{target: service.ErrSubdomainTaken, code: response.CodeBadRequest, msg: "subdomain already taken"},
	{target: service.ErrSubdomainInvalid, code: response.CodeBadRequest, msg: "subdomain invalid"},
	{target: service.ErrSubdomainReserved, code: response.CodeBadRequest, msg: "subdomain reserved"},
	{target: service.ErrPlanNotFound, code: response.CodeBadRequest, msg: "price plan not found"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "owner password does not meet policy"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
}

// ListTenants lists tenants with their plans.
func (h *Handler) ListTenants(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	planID, _ := strconv.ParseUint(c.Query("plan_id"), 10, 64)
	tenants, total, err := h.TenantService.List(repository.TenantListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		PlanID:   uint(planID),
		Search:   strings.TrimSpace(c.Query("search")),
		WithPlan: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "tenant list failed", err)
		return
	}
	response.SuccessWithPage(c, tenants, paginationMeta(page, pageSize, total))
}

// GetTenant fetches one tenant.
func (h *Handler) GetTenant(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.TenantService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, tenantErrorRules, response.CodeInternal, "tenant fetch failed")
		return
	}
	response.Success(c, tenant)
}

// CreateTenantRequest is the tenant provisioning payload.
type CreateTenantRequest struct {
	Subdomain     string `json:"subdomain" binding:"required"`
	Name          string `json:"name" binding:"required"`
	PlanID        uint   `json:"plan_id" binding:"required"`
	ContactEmail  string `json:"contact_email"`
	OwnerEmail    string `json:"owner_email" binding:"required"`
	OwnerPassword string `json:"owner_password" binding:"required"`
	OwnerName     string `json:"owner_name"`
}

// CreateTenant provisions a tenant with its owner account.
func (h *Handler) CreateTenant(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	tenant, err := h.TenantService.Create(service.CreateTenantInput{
		Subdomain:     req.Subdomain,
		Name:          req.Name,
		PlanID:        req.PlanID,
		ContactEmail:  req.ContactEmail,
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
		OwnerName:     req.OwnerName,
	})
	if err != nil {
		respondWithMappedError(c, err, tenantErrorRules, response.CodeInternal, "tenant create failed")
		return
	}
	response.Success(c, tenant)
}

// UpdateTenantRequest is the tenant update payload.
type UpdateTenantRequest struct {
	Name         *string     `json:"name"`
	ContactEmail *string     `json:"contact_email"`
	PlanID       *uint       `json:"plan_id"`
	Settings     models.JSON `json:"settings"`
}

// UpdateTenant edits tenant fields. Subdomains are immutable.
func (h *Handler) UpdateTenant(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	tenant, err := h.TenantService.Update(id, service.UpdateTenantInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		PlanID:       req.PlanID,
		SettingsJSON: req.Settings,
	})
	if err != nil {
		respondWithMappedError(c, err, tenantErrorRules, response.CodeInternal, "tenant update failed")
		return
	}
	response.Success(c, tenant)
}

// SuspendTenant moves a tenant into suspended status.
func (h *Handler) SuspendTenant(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.TenantService.Suspend(id)
	if err != nil {
		respondWithMappedError(c, err, tenantErrorRules, response.CodeInternal, "tenant suspend failed")
		return
	}
	requestLog(c).Infow("tenant_suspended", "tenant_id", tenant.ID)
	response.Success(c, tenant)
}

// ActivateTenant moves a tenant into active status.
func (h *Handler) ActivateTenant(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.TenantService.Activate(id)
	if err != nil {
		respondWithMappedError(c, err, tenantErrorRules, response.CodeInternal, "tenant activate failed")
		return
	}
	requestLog(c).Infow("tenant_activated", "tenant_id", tenant.ID)
	response.Success(c, tenant)
}
