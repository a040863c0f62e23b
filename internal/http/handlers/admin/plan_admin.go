package admin

import (
	"strconv"

	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
)

var planErrorRules = []mappedHandlerError{
	{target: service.ErrPlanNotFound, code: response.CodeNotFound, msg: "price plan not found"},
	{target: service.ErrPlanCodeTaken, code: response.CodeBadRequest, msg: "plan code already taken"},
	{target: service.ErrPlanInUse, code: response.CodeBadRequest, msg: "plan still assigned to tenants"},
}

// ListPlans lists price plans.
func (h *Handler) ListPlans(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	plans, total, err := h.PlanService.List(repository.PlanListFilter{
		Page:       page,
		PageSize:   pageSize,
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "plan list failed", err)
		return
	}
	response.SuccessWithPage(c, plans, paginationMeta(page, pageSize, total))
}

// GetPlan fetches one price plan.
func (h *Handler) GetPlan(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.PlanService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan fetch failed")
		return
	}
	response.Success(c, plan)
}

// PlanRequest is the plan create/update payload. Zero limits mean
// unlimited.
type PlanRequest struct {
	Code         string       `json:"code" binding:"required"`
	Name         string       `json:"name" binding:"required"`
	MonthlyPrice models.Money `json:"monthly_price"`
	Currency     string       `json:"currency"`
	MaxProducts  int          `json:"max_products"`
	MaxStaff     int          `json:"max_staff"`
	MaxStorageMB int          `json:"max_storage_mb"`
	IsActive     bool         `json:"is_active"`
	SortOrder    int          `json:"sort_order"`
}

func (r PlanRequest) toInput() service.PlanInput {
	return service.PlanInput{
		Code:         r.Code,
		Name:         r.Name,
		MonthlyPrice: r.MonthlyPrice,
		Currency:     r.Currency,
		MaxProducts:  r.MaxProducts,
		MaxStaff:     r.MaxStaff,
		MaxStorageMB: r.MaxStorageMB,
		IsActive:     r.IsActive,
		SortOrder:    r.SortOrder,
	}
}

// CreatePlan inserts a price plan.
func (h *Handler) CreatePlan(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	plan, err := h.PlanService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan create failed")
		return
	}
	response.Success(c, plan)
}

// UpdatePlan edits a price plan.
func (h *Handler) UpdatePlan(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	plan, err := h.PlanService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan update failed")
		return
	}
	response.Success(c, plan)
}

// DeletePlan removes an unassigned price plan.
func (h *Handler) DeletePlan(c *gin.Context) {
	if !requireLandlord(c) {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PlanService.Delete(id); err != nil {
		respondWithMappedError(c, err, planErrorRules, response.CodeInternal, "plan delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
