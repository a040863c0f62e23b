package admin

import (
	"strconv"
	"strings"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var staffErrorRules = []mappedHandlerError{
	{target: service.ErrStaffNotFound, code: response.CodeNotFound, msg: "staff member not found"},
	{target: service.ErrStaffExists, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password does not meet policy"},
	{target: service.ErrPlanLimitReached, code: response.CodeBadRequest, msg: "plan staff limit reached"},
}

// ListStaff lists the tenant's staff accounts.
func (h *Handler) ListStaff(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	staff, total, err := h.StaffService.List(repository.StaffListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: scope,
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "staff list failed", err)
		return
	}
	response.SuccessWithPage(c, staff, paginationMeta(page, pageSize, total))
}

// GetStaff fetches one staff account.
func (h *Handler) GetStaff(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	staff, err := h.StaffService.Get(scope, id)
	if err != nil {
		respondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff fetch failed")
		return
	}
	response.Success(c, staffResponse(staff))
}

// CreateStaffRequest is the staff invite payload.
type CreateStaffRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// CreateStaff invites a staff account within the plan limit and links
// its authorization role.
func (h *Handler) CreateStaff(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	staff, err := h.StaffService.Create(scope, service.CreateStaffInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		respondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff create failed")
		return
	}
	if err := h.AuthzService.AssignStaffRole(staff.ID, staff.Role); err != nil {
		respondError(c, response.CodeInternal, "staff role assignment failed", err)
		return
	}
	response.Success(c, staffResponse(staff))
}

// UpdateStaffRequest is the staff update payload.
type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

// UpdateStaff edits a staff account. Role changes re-link the
// authorization role and revoke issued tokens.
func (h *Handler) UpdateStaff(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	staff, err := h.StaffService.Update(scope, id, service.UpdateStaffInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Status:      req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff update failed")
		return
	}
	if req.Role != nil {
		if err := h.AuthzService.AssignStaffRole(staff.ID, staff.Role); err != nil {
			respondError(c, response.CodeInternal, "staff role assignment failed", err)
			return
		}
	}
	response.Success(c, staffResponse(staff))
}

// DeleteStaff removes a staff account and its role links.
func (h *Handler) DeleteStaff(c *gin.Context) {
	scope, ok := tenantScope(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.StaffService.Delete(scope, id); err != nil {
		respondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff delete failed")
		return
	}
	if err := h.AuthzService.SetStaffRoles(id, nil); err != nil {
		requestLog(c).Warnw("staff_role_cleanup_failed", "staff_id", id, "error", err)
	}
	response.Success(c, gin.H{"deleted": true})
}
