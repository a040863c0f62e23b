package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{}, &models.PricePlan{}, &models.Order{},
		&models.SupportTicket{}, &models.Customer{},
	); err != nil {
		t.Fatalf("migrate dashboard models failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func createDashboardOrder(t *testing.T, db *gorm.DB, tenantID uint, orderNo, status string, total int64, createdAt time.Time) {
	t.Helper()
	order := &models.Order{
		TenantID:    tenantID,
		OrderNo:     orderNo,
		CustomerID:  1,
		Status:      status,
		Currency:    constants.CurrencyDefault,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		CreatedAt:   createdAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create dashboard order failed: %v", err)
	}
}

func TestGetOverviewCountsWindowedOrders(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now().UTC()

	tenants := []models.Tenant{
		{Subdomain: "overview-active", Name: "A", Status: constants.TenantStatusActive, PlanID: 1},
		{Subdomain: "overview-suspended", Name: "B", Status: constants.TenantStatusSuspended, PlanID: 1},
	}
	for i := range tenants {
		if err := db.Create(&tenants[i]).Error; err != nil {
			t.Fatalf("create tenant failed: %v", err)
		}
	}

	createDashboardOrder(t, db, tenants[0].ID, "SF-DASH-1", constants.OrderStatusCompleted, 100, now)
	createDashboardOrder(t, db, tenants[0].ID, "SF-DASH-2", constants.OrderStatusCanceled, 40, now)
	createDashboardOrder(t, db, tenants[0].ID, "SF-DASH-3", constants.OrderStatusPending, 60, now)
	createDashboardOrder(t, db, tenants[0].ID, "SF-DASH-OLD", constants.OrderStatusCompleted, 500, now.Add(-48*time.Hour))

	ticket := &models.SupportTicket{TenantID: tenants[0].ID, Subject: "help", Status: constants.TicketStatusOpen}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}

	overview, err := repo.GetOverview(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.TenantsTotal != 2 || overview.TenantsActive != 1 || overview.TenantsSuspended != 1 {
		t.Fatalf("tenant counts mismatch: %+v", overview)
	}
	if overview.OrdersTotal != 3 {
		t.Fatalf("orders total want 3 got %d", overview.OrdersTotal)
	}
	if overview.OrdersCompleted != 1 || overview.OrdersCanceled != 1 {
		t.Fatalf("order status counts mismatch: %+v", overview)
	}
	if overview.OrderVolume != 160 {
		t.Fatalf("order volume want 160 got %.2f", overview.OrderVolume)
	}
	if overview.OpenTickets != 1 {
		t.Fatalf("open tickets want 1 got %d", overview.OpenTickets)
	}
}

func TestGetOrderTrendsGroupsByDay(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	dayOne := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	dayTwo := dayOne.Add(24 * time.Hour)

	createDashboardOrder(t, db, 1, "SF-TREND-1", constants.OrderStatusCompleted, 10, dayOne)
	createDashboardOrder(t, db, 1, "SF-TREND-2", constants.OrderStatusCompleted, 20, dayOne.Add(time.Hour))
	createDashboardOrder(t, db, 1, "SF-TREND-3", constants.OrderStatusPending, 30, dayTwo)

	rows, err := repo.GetOrderTrends(dayOne.Add(-time.Hour), dayTwo.Add(time.Hour))
	if err != nil {
		t.Fatalf("get order trends failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	if rows[0].Day != "2026-03-10" || rows[0].OrdersTotal != 2 || rows[0].OrderVolume != 30 {
		t.Fatalf("day one row mismatch: %+v", rows[0])
	}
	if rows[1].Day != "2026-03-11" || rows[1].OrdersTotal != 1 {
		t.Fatalf("day two row mismatch: %+v", rows[1])
	}
}

func TestGetTopTenantsExcludesCanceled(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now().UTC()

	big := &models.Tenant{Subdomain: "rank-big", Name: "Big", Status: constants.TenantStatusActive, PlanID: 1}
	small := &models.Tenant{Subdomain: "rank-small", Name: "Small", Status: constants.TenantStatusActive, PlanID: 1}
	for _, tenant := range []*models.Tenant{big, small} {
		if err := db.Create(tenant).Error; err != nil {
			t.Fatalf("create tenant failed: %v", err)
		}
	}

	createDashboardOrder(t, db, big.ID, "SF-RANK-1", constants.OrderStatusCompleted, 300, now)
	createDashboardOrder(t, db, big.ID, "SF-RANK-2", constants.OrderStatusCanceled, 900, now)
	createDashboardOrder(t, db, small.ID, "SF-RANK-3", constants.OrderStatusCompleted, 100, now)

	rows, err := repo.GetTopTenants(now.Add(-time.Hour), now.Add(time.Hour), 5)
	if err != nil {
		t.Fatalf("get top tenants failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	if rows[0].TenantID != big.ID || rows[0].OrderVolume != 300 {
		t.Fatalf("top tenant mismatch: %+v", rows[0])
	}
	if rows[1].TenantID != small.ID || rows[1].OrdersTotal != 1 {
		t.Fatalf("second tenant mismatch: %+v", rows[1])
	}
}
