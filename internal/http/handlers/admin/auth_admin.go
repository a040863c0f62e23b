package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the staff login payload. An empty subdomain targets
// the landlord scope.
type LoginRequest struct {
	Subdomain string `json:"subdomain"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

var staffLoginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrAccountDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
	{target: service.ErrTenantNotFound, code: response.CodeNotFound, msg: "store not found"},
	{target: service.ErrTenantSuspended, code: response.CodeForbidden, msg: "store suspended"},
	{target: service.ErrTenantNotActive, code: response.CodeForbidden, msg: "store not active"},
}

// Login authenticates a staff account and issues a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	tenantID := uint(0)
	subdomain := strings.TrimSpace(req.Subdomain)
	if subdomain != "" {
		tenant, err := h.TenantService.ResolveActiveBySubdomain(subdomain)
		if err != nil {
			respondWithMappedError(c, err, staffLoginErrorRules, response.CodeInternal, "login failed")
			return
		}
		tenantID = tenant.ID
	}

	staff, token, expiresAt, err := h.StaffAuthService.Login(tenantID, req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, staffLoginErrorRules, response.CodeInternal, "login failed")
		return
	}

	requestLog(c).Infow("staff_login", "staff_id", staff.ID, "tenant_id", staff.TenantID)
	response.Success(c, gin.H{
		"staff":      staffResponse(staff),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Me returns the authenticated staff profile.
func (h *Handler) Me(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	scope, ok := tenantScope(c)
	if !ok {
		return
	}

	staff, err := h.StaffService.Get(scope, staffID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			respondError(c, response.CodeNotFound, "staff member not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	response.Success(c, staffResponse(staff))
}

// ChangePasswordRequest is the authenticated password change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the staff member's password and revokes
// outstanding tokens.
func (h *Handler) ChangePassword(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	scope, ok := tenantScope(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.StaffAuthService.ChangePassword(scope, staffID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "old password incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, "password does not meet policy", nil)
		case errors.Is(err, service.ErrStaffNotFound):
			respondError(c, response.CodeNotFound, "staff member not found", nil)
		default:
			respondError(c, response.CodeInternal, "password change failed", err)
		}
		return
	}
	response.Success(c, gin.H{"updated": true})
}

func staffResponse(staff *models.Staff) gin.H {
	return gin.H{
		"id":            staff.ID,
		"tenant_id":     staff.TenantID,
		"email":         staff.Email,
		"display_name":  staff.DisplayName,
		"role":          staff.Role,
		"status":        staff.Status,
		"last_login_at": staff.LastLoginAt,
		"created_at":    staff.CreatedAt,
	}
}
