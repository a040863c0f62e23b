package repository

import (
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository aggregates landlord dashboard statistics. It carries
// no business rules, only grouped counts.
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetPlanDistribution() ([]DashboardPlanRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopTenants(startAt, endAt time.Time, limit int) ([]DashboardTenantRankingRow, error)
}

// DashboardOverviewRow is the raw overview aggregate.
type DashboardOverviewRow struct {
	TenantsTotal     int64
	TenantsActive    int64
	TenantsSuspended int64
	OrdersTotal      int64
	OrdersCompleted  int64
	OrdersCanceled   int64
	OrderVolume      float64
	OpenTickets      int64
	NewCustomers     int64
}

// DashboardPlanRow is one plan's tenant count.
type DashboardPlanRow struct {
	PlanID   uint
	PlanCode string
	PlanName string
	Tenants  int64
}

// DashboardOrderTrendRow is one day's order counts.
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	OrderVolume float64
}

// DashboardTenantRankingRow is one tenant's order volume in a window.
type DashboardTenantRankingRow struct {
	TenantID    uint
	Subdomain   string
	Name        string
	OrdersTotal int64
	OrderVolume float64
}

// GormDashboardRepository is the GORM implementation.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates the dashboard repository.
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview collects the landlord overview aggregate.
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.Tenant{}).Count(&result.TenantsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Tenant{}).
		Where("status = ?", constants.TenantStatusActive).
		Count(&result.TenantsActive).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Tenant{}).
		Where("status = ?", constants.TenantStatusSuspended).
		Count(&result.TenantsSuspended).Error; err != nil {
		return result, err
	}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCompleted).
		Count(&result.OrdersCompleted).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCanceled).
		Count(&result.OrdersCanceled).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status <> ?", constants.OrderStatusCanceled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.OrderVolume).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.SupportTicket{}).
		Where("status <> ?", constants.TicketStatusClosed).
		Count(&result.OpenTickets).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewCustomers).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetPlanDistribution counts tenants per plan.
func (r *GormDashboardRepository) GetPlanDistribution() ([]DashboardPlanRow, error) {
	var rows []DashboardPlanRow
	if err := r.db.Model(&models.Tenant{}).
		Select("tenants.plan_id AS plan_id, price_plans.code AS plan_code, price_plans.name AS plan_name, COUNT(tenants.id) AS tenants").
		Joins("JOIN price_plans ON price_plans.id = tenants.plan_id").
		Where("tenants.deleted_at IS NULL").
		Group("tenants.plan_id, price_plans.code, price_plans.name").
		Order("tenants DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetOrderTrends groups order counts per day.
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	var rows []DashboardOrderTrendRow
	dayExpr := sqlDayExpression(r.db)
	if err := r.db.Model(&models.Order{}).
		Select(dayExpr+" AS day, COUNT(id) AS orders_total, COALESCE(SUM(total_amount), 0) AS order_volume").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopTenants ranks tenants by order volume in a window.
func (r *GormDashboardRepository) GetTopTenants(startAt, endAt time.Time, limit int) ([]DashboardTenantRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardTenantRankingRow
	if err := r.db.Model(&models.Order{}).
		Select("orders.tenant_id AS tenant_id, tenants.subdomain AS subdomain, tenants.name AS name, COUNT(orders.id) AS orders_total, COALESCE(SUM(orders.total_amount), 0) AS order_volume").
		Joins("JOIN tenants ON tenants.id = orders.tenant_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", startAt, endAt, constants.OrderStatusCanceled).
		Group("orders.tenant_id, tenants.subdomain, tenants.name").
		Order("order_volume DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
