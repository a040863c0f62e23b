package public

import (
	"github.com/storeflow/storeflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptcha generates an image captcha challenge.
func (h *Handler) GetCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "captcha unavailable", nil)
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "captcha generation failed", err)
		return
	}
	response.Success(c, challenge)
}
