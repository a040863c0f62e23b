package public

import (
	"net/http"

	handlershared "github.com/storeflow/storeflow/internal/http/handlers/shared"
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var customerAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrCustomerExists, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password does not meet policy"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrAccountDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, msg: "captcha required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "captcha invalid"},
}

// RegisterRequest is the customer registration payload.
type RegisterRequest struct {
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	DisplayName    string                              `json:"display_name"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Register creates a customer account for this store.
func (h *Handler) Register(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	customer, err := h.CustomerAuthService.Register(tenantID, service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Captcha:     req.CaptchaPayload.ToServicePayload(),
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, customerAuthErrorRules, response.CodeInternal, "registration failed")
		return
	}
	response.Success(c, customerResponse(customer))
}

// LoginRequest is the customer login payload.
type LoginRequest struct {
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	customer, session, err := h.CustomerAuthService.Login(tenantID, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Captcha:  req.CaptchaPayload.ToServicePayload(),
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, customerAuthErrorRules, response.CodeInternal, "login failed")
		return
	}

	h.setSessionCookie(c, session.Token)
	requestLog(c).Infow("customer_login", "customer_id", customer.ID, "tenant_id", tenantID)
	response.Success(c, gin.H{
		"customer":   customerResponse(customer),
		"expires_at": session.ExpiresAt,
	})
}

// Logout closes the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.sessionCookieName())
	if err := h.CustomerAuthService.Logout(token); err != nil {
		respondError(c, response.CodeInternal, "logout failed", err)
		return
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"logged_out": true})
}

// Me returns the authenticated customer profile.
func (h *Handler) Me(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	customer, err := h.CustomerRepo.GetByID(tenantID, customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	if customer == nil {
		respondError(c, response.CodeNotFound, "customer not found", nil)
		return
	}
	response.Success(c, customerResponse(customer))
}

// ChangePasswordRequest is the customer password change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the password and drops every session,
// including the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.CustomerAuthService.ChangePassword(tenantID, customerID, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, customerAuthErrorRules, response.CodeInternal, "password change failed")
		return
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"updated": true})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	session := h.Config.CustomerSession
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName(), token, int(h.CustomerAuthService.SessionTTL().Seconds()),
		"/", session.CookieDomain, session.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	session := h.Config.CustomerSession
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName(), "", -1, "/", session.CookieDomain, session.CookieSecure, true)
}

func customerResponse(customer *models.Customer) gin.H {
	return gin.H{
		"id":           customer.ID,
		"email":        customer.Email,
		"display_name": customer.DisplayName,
		"status":       customer.Status,
		"created_at":   customer.CreatedAt,
	}
}
