package public

import (
	"errors"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTheme returns the store's resolved theme payload: template name,
// merged settings and the compiled CSS custom-property block.
func (h *Handler) GetTheme(c *gin.Context) {
	tenantID, ok := storefrontTenantID(c)
	if !ok {
		return
	}
	payload, err := h.ThemeService.ResolvePayload(tenantID)
	if err != nil {
		if errors.Is(err, service.ErrThemeNotFound) {
			respondError(c, response.CodeNotFound, "theme not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "theme fetch failed", err)
		return
	}
	response.Success(c, payload)
}
