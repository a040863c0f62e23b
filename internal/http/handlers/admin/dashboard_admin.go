package admin

import (
	"strconv"

	"github.com/storeflow/storeflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DashboardOverview returns platform-wide counters for the window.
func (h *Handler) DashboardOverview(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	overview, err := h.DashboardService.Overview(c.Query("range"))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard overview failed", err)
		return
	}
	response.Success(c, overview)
}

// DashboardOrderTrends returns the per-day order series, zero-padded.
func (h *Handler) DashboardOrderTrends(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	trends, err := h.DashboardService.OrderTrends(c.Query("range"))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard trends failed", err)
		return
	}
	response.Success(c, trends)
}

// DashboardPlanDistribution returns tenant counts per price plan.
func (h *Handler) DashboardPlanDistribution(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	distribution, err := h.DashboardService.PlanDistribution()
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard plans failed", err)
		return
	}
	response.Success(c, distribution)
}

// DashboardTopTenants ranks tenants by order volume in the window.
func (h *Handler) DashboardTopTenants(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ranks, err := h.DashboardService.TopTenants(c.Query("range"), limit)
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard top tenants failed", err)
		return
	}
	response.Success(c, ranks)
}
