package repository

import (
	"testing"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate order tables failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, tenantID uint, orderNo string, status string, expiresAt *time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		TenantID:       tenantID,
		OrderNo:        orderNo,
		CustomerID:     1,
		Status:         status,
		Currency:       constants.CurrencyDefault,
		SubtotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		ExpiresAt:      expiresAt,
	}
	items := []models.OrderItem{
		{
			ProductID:     11,
			TitleSnapshot: "Widget",
			UnitPrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			Quantity:      2,
			TotalPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreateAssignsItemOwnership(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, 201, "SF-ORDER-OWNERSHIP", constants.OrderStatusPending, nil)

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items want 1 got %d", len(items))
	}
	if items[0].TenantID != 201 {
		t.Fatalf("item tenant want 201 got %d", items[0].TenantID)
	}
}

func TestOrderGetByIDScopedByTenant(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, 202, "SF-ORDER-SCOPE", constants.OrderStatusPending, nil)

	got, err := repo.GetByID(202, order.ID)
	if err != nil {
		t.Fatalf("get own order failed: %v", err)
	}
	if got == nil || got.OrderNo != "SF-ORDER-SCOPE" {
		t.Fatalf("expected order, got %+v", got)
	}
	if len(got.Items) != 1 {
		t.Fatalf("preloaded items want 1 got %d", len(got.Items))
	}

	foreign, err := repo.GetByID(999, order.ID)
	if err != nil {
		t.Fatalf("get foreign order failed: %v", err)
	}
	if foreign != nil {
		t.Fatalf("expected nil for foreign tenant, got %+v", foreign)
	}
}

func TestOrderUpdateStatusWritesExtraColumns(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, 203, "SF-ORDER-CANCEL", constants.OrderStatusPending, nil)

	canceledAt := time.Now().UTC()
	err := repo.UpdateStatus(203, order.ID, constants.OrderStatusCanceled, map[string]interface{}{
		"cancel_reason": "timeout",
		"canceled_at":   canceledAt,
	})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCanceled {
		t.Fatalf("status want canceled got %s", got.Status)
	}
	if got.CancelReason != "timeout" {
		t.Fatalf("cancel reason want timeout got %s", got.CancelReason)
	}
	if got.CanceledAt == nil {
		t.Fatalf("canceled_at not set")
	}
}

func TestListExpiredPendingPicksOnlyOverdueOrders(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	now := time.Now().UTC()

	past := now.Add(-10 * time.Minute)
	future := now.Add(10 * time.Minute)
	createTestOrder(t, repo, 204, "SF-ORDER-OVERDUE", constants.OrderStatusPending, &past)
	createTestOrder(t, repo, 204, "SF-ORDER-FRESH", constants.OrderStatusPending, &future)
	createTestOrder(t, repo, 204, "SF-ORDER-DONE", constants.OrderStatusCompleted, &past)
	createTestOrder(t, repo, 204, "SF-ORDER-NO-DEADLINE", constants.OrderStatusPending, nil)

	orders, err := repo.ListExpiredPending(now, 10)
	if err != nil {
		t.Fatalf("list expired pending failed: %v", err)
	}
	got := make(map[string]bool, len(orders))
	for _, order := range orders {
		got[order.OrderNo] = true
	}
	if !got["SF-ORDER-OVERDUE"] {
		t.Fatalf("overdue order missing from result: %v", got)
	}
	if got["SF-ORDER-FRESH"] || got["SF-ORDER-DONE"] || got["SF-ORDER-NO-DEADLINE"] {
		t.Fatalf("unexpected orders in result: %v", got)
	}
}

func TestResolveCustomerEmail(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	customer := &models.Customer{
		TenantID:     205,
		Email:        "buyer@example.com",
		PasswordHash: "x",
		Status:       constants.AccountStatusActive,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	order := &models.Order{
		TenantID:    205,
		OrderNo:     "SF-ORDER-EMAIL",
		CustomerID:  customer.ID,
		Status:      constants.OrderStatusPending,
		Currency:    constants.CurrencyDefault,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	email, err := repo.ResolveCustomerEmail(205, order.ID)
	if err != nil {
		t.Fatalf("resolve email failed: %v", err)
	}
	if email != "buyer@example.com" {
		t.Fatalf("email want buyer@example.com got %s", email)
	}
}
