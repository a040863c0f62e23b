package admin

import (
	"strconv"

	"github.com/storeflow/storeflow/internal/constants"
	handlershared "github.com/storeflow/storeflow/internal/http/handlers/shared"
	"github.com/storeflow/storeflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getStaffID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "staff_id")
}

// tenantScope reads the authenticated staff member's tenant scope.
// Landlord accounts carry the zero scope.
func tenantScope(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "tenant_id")
}

func isLandlord(c *gin.Context) bool {
	value, exists := c.Get("tenant_id")
	if !exists {
		return false
	}
	scope, ok := value.(uint)
	return ok && scope == constants.LandlordTenantID
}

// requireLandlord enforces the landlord scope on platform endpoints that
// the route table cannot express.
func requireLandlord(c *gin.Context) bool {
	if !isLandlord(c) {
		respondError(c, response.CodeForbidden, "landlord scope required", nil)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
