package service

import (
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardMaxWindowDays = 90

// DashboardService aggregates the landlord dashboard's platform metrics.
type DashboardService struct {
	repo           repository.DashboardRepository
	settingService *SettingService
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(repo repository.DashboardRepository, settingService *SettingService) *DashboardService {
	return &DashboardService{repo: repo, settingService: settingService}
}

// DashboardOverviewResponse is the landlord overview payload.
type DashboardOverviewResponse struct {
	Range            string `json:"range"`
	From             string `json:"from"`
	To               string `json:"to"`
	Currency         string `json:"currency"`
	TenantsTotal     int64  `json:"tenants_total"`
	TenantsActive    int64  `json:"tenants_active"`
	TenantsSuspended int64  `json:"tenants_suspended"`
	OrdersTotal      int64  `json:"orders_total"`
	OrdersCompleted  int64  `json:"orders_completed"`
	OrdersCanceled   int64  `json:"orders_canceled"`
	OrderVolume      string `json:"order_volume"`
	OpenTickets      int64  `json:"open_tickets"`
	NewCustomers     int64  `json:"new_customers"`
}

// DashboardTrendPoint is one day on the order trend chart.
type DashboardTrendPoint struct {
	Day         string `json:"day"`
	OrdersTotal int64  `json:"orders_total"`
	OrderVolume string `json:"order_volume"`
}

// DashboardPlanSlice is one plan's share of tenants.
type DashboardPlanSlice struct {
	PlanID   uint   `json:"plan_id"`
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
	Tenants  int64  `json:"tenants"`
}

// DashboardTenantRank is one row of the top-tenant leaderboard.
type DashboardTenantRank struct {
	TenantID    uint   `json:"tenant_id"`
	Subdomain   string `json:"subdomain"`
	Name        string `json:"name"`
	OrdersTotal int64  `json:"orders_total"`
	OrderVolume string `json:"order_volume"`
}

// Overview collects the windowed platform overview.
func (s *DashboardService) Overview(window string) (*DashboardOverviewResponse, error) {
	rangeName, startAt, endAt := resolveDashboardWindow(window)
	row, err := s.repo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	currency, err := s.settingService.GetPlatformCurrency()
	if err != nil {
		return nil, err
	}
	return &DashboardOverviewResponse{
		Range:            rangeName,
		From:             startAt.Format(time.RFC3339),
		To:               endAt.Format(time.RFC3339),
		Currency:         currency,
		TenantsTotal:     row.TenantsTotal,
		TenantsActive:    row.TenantsActive,
		TenantsSuspended: row.TenantsSuspended,
		OrdersTotal:      row.OrdersTotal,
		OrdersCompleted:  row.OrdersCompleted,
		OrdersCanceled:   row.OrdersCanceled,
		OrderVolume:      formatDashboardAmount(row.OrderVolume),
		OpenTickets:      row.OpenTickets,
		NewCustomers:     row.NewCustomers,
	}, nil
}

// OrderTrends returns per-day order counts, padding missing days with
// zero points so charts stay continuous.
func (s *DashboardService) OrderTrends(window string) ([]DashboardTrendPoint, error) {
	_, startAt, endAt := resolveDashboardWindow(window)
	rows, err := s.repo.GetOrderTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]repository.DashboardOrderTrendRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	points := make([]DashboardTrendPoint, 0, int(endAt.Sub(startAt).Hours()/24)+1)
	for cursor := startAt; cursor.Before(endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		point := DashboardTrendPoint{Day: day, OrderVolume: formatDashboardAmount(0)}
		if row, ok := byDay[day]; ok {
			point.OrdersTotal = row.OrdersTotal
			point.OrderVolume = formatDashboardAmount(row.OrderVolume)
		}
		points = append(points, point)
	}
	return points, nil
}

// PlanDistribution returns tenant counts per plan.
func (s *DashboardService) PlanDistribution() ([]DashboardPlanSlice, error) {
	rows, err := s.repo.GetPlanDistribution()
	if err != nil {
		return nil, err
	}
	slices := make([]DashboardPlanSlice, 0, len(rows))
	for _, row := range rows {
		slices = append(slices, DashboardPlanSlice{
			PlanID:   row.PlanID,
			PlanCode: row.PlanCode,
			PlanName: row.PlanName,
			Tenants:  row.Tenants,
		})
	}
	return slices, nil
}

// TopTenants ranks tenants by order volume in the window.
func (s *DashboardService) TopTenants(window string, limit int) ([]DashboardTenantRank, error) {
	_, startAt, endAt := resolveDashboardWindow(window)
	rows, err := s.repo.GetTopTenants(startAt, endAt, limit)
	if err != nil {
		return nil, err
	}
	ranks := make([]DashboardTenantRank, 0, len(rows))
	for _, row := range rows {
		ranks = append(ranks, DashboardTenantRank{
			TenantID:    row.TenantID,
			Subdomain:   row.Subdomain,
			Name:        row.Name,
			OrdersTotal: row.OrdersTotal,
			OrderVolume: formatDashboardAmount(row.OrderVolume),
		})
	}
	return ranks, nil
}

// resolveDashboardWindow maps a range name to a [start, end) day window
// ending tomorrow at midnight UTC. Unknown names fall back to 7d.
func resolveDashboardWindow(window string) (string, time.Time, time.Time) {
	days := 7
	name := "7d"
	switch strings.ToLower(strings.TrimSpace(window)) {
	case "", "7d":
	case "30d":
		days, name = 30, "30d"
	case "90d":
		days, name = dashboardMaxWindowDays, "90d"
	case "today", "1d":
		days, name = 1, "1d"
	}

	now := time.Now().UTC()
	endAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	startAt := endAt.AddDate(0, 0, -days)
	return name, startAt, endAt
}

func formatDashboardAmount(amount float64) string {
	return decimal.NewFromFloat(amount).Round(2).StringFixed(2)
}
