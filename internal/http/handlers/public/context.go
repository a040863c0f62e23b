package public

import (
	"strconv"

	handlershared "github.com/storeflow/storeflow/internal/http/handlers/shared"
	"github.com/storeflow/storeflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the storefront customer session cookie unless
// the deployment overrides it in config.
const SessionCookieName = "sf_session"

func (h *Handler) sessionCookieName() string {
	if h.Config != nil && h.Config.CustomerSession.CookieName != "" {
		return h.Config.CustomerSession.CookieName
	}
	return SessionCookieName
}

func storefrontTenantID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "tenant_id")
}

func getCustomerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "customer_id")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func paginationMeta(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
