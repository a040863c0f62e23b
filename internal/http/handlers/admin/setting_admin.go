package admin

import (
	"errors"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

// platformConfigDefaults are served when no row is stored yet.
func platformConfigDefaults() map[string]interface{} {
	return map[string]interface{}{
		"platform_name":                "StoreFlow",
		"support_email":                "",
		constants.SettingFieldCurrency: constants.CurrencyDefault,
	}
}

// GetPlatformConfig returns the merged platform settings.
func (h *Handler) GetPlatformConfig(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	data, err := h.SettingService.GetPlatformConfig(platformConfigDefaults())
	if err != nil {
		respondError(c, response.CodeInternal, "settings fetch failed", err)
		return
	}
	response.Success(c, data)
}

// UpdatePlatformConfig overwrites platform settings.
func (h *Handler) UpdatePlatformConfig(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	value, err := h.SettingService.Update(constants.SettingKeyPlatformConfig, req)
	if err != nil {
		respondError(c, response.CodeInternal, "settings update failed", err)
		return
	}
	response.Success(c, value)
}

// GetSMTPSetting returns the stored SMTP setting with the password
// masked.
func (h *Handler) GetSMTPSetting(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	setting, err := h.SettingService.GetSMTPSetting(h.Config.Email)
	if err != nil {
		respondError(c, response.CodeInternal, "smtp setting fetch failed", err)
		return
	}
	response.Success(c, service.MaskSMTPSettingForAdmin(setting))
}

// PatchSMTPSetting applies a partial SMTP setting update.
func (h *Handler) PatchSMTPSetting(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var patch service.SMTPSettingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	setting, err := h.SettingService.PatchSMTPSetting(h.Config.Email, patch)
	if err != nil {
		if errors.Is(err, service.ErrSMTPConfigInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "smtp setting update failed", err)
		return
	}
	h.EmailService.SetConfig(smtpConfigPtr(setting))
	response.Success(c, service.MaskSMTPSettingForAdmin(setting))
}

// SMTPTestRequest is the test email payload.
type SMTPTestRequest struct {
	To string `json:"to" binding:"required"`
}

// SendSMTPTestEmail sends a test message through the active SMTP
// setting.
func (h *Handler) SendSMTPTestEmail(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var req SMTPTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.EmailService.SendCustomEmail(req.To, "StoreFlow SMTP test", "SMTP configuration works."); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeBadRequest, "email service not configured", nil)
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "recipient rejected", nil)
		default:
			respondError(c, response.CodeInternal, "test email failed", err)
		}
		return
	}
	response.Success(c, gin.H{"sent": true})
}

func smtpConfigPtr(setting service.SMTPSetting) *config.EmailConfig {
	cfg := service.SMTPSettingToConfig(setting)
	return &cfg
}
