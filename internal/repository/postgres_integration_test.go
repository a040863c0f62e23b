//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.ProductVariant{},
		&models.Product{},
		&models.Customer{},
		&models.Tenant{},
		&models.PricePlan{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.PricePlan{},
		&models.Tenant{},
		&models.Customer{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createPostgresTenant(t *testing.T, db *gorm.DB, subdomain string) *models.Tenant {
	t.Helper()
	plan := &models.PricePlan{Code: "pg-" + subdomain, Name: "PG Plan", IsActive: true}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	tenant := &models.Tenant{
		Subdomain: subdomain,
		Name:      subdomain,
		Status:    constants.TenantStatusActive,
		PlanID:    plan.ID,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	return tenant
}

func TestPostgresProductSearchAndStockGuards(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	tenant := createPostgresTenant(t, db, "pg-acme")

	productRepo := NewProductRepository(db)
	product := &models.Product{
		TenantID:    tenant.ID,
		Slug:        "pg-rocket-mug",
		Title:       "Rocket Mug",
		Description: "ceramic booster mug",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		Currency:    "USD",
		StockTotal:  10,
		Status:      constants.ProductStatusActive,
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := productRepo.List(ProductListFilter{
		TenantID: tenant.ID,
		Page:     1,
		Search:   "booster",
	})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	// The guarded stock path must respect the available quantity on postgres too.
	affected, err := productRepo.ReserveStock(tenant.ID, product.ID, 10)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("full reservation should apply, affected=%d", affected)
	}
	affected, err = productRepo.ReserveStock(tenant.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("overdraft reservation must not apply, affected=%d", affected)
	}
}

func TestPostgresDashboardQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewDashboardRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	tenant := createPostgresTenant(t, db, "pg-dash")

	order := &models.Order{
		TenantID:       tenant.ID,
		OrderNo:        "PG-ORDER-001",
		CustomerID:     1,
		Status:         constants.OrderStatusConfirmed,
		Currency:       "USD",
		SubtotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		DiscountAmount: models.NewMoneyFromDecimal(decimal.Zero),
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		CreatedAt:      now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	startAt := now.Add(-time.Hour)
	endAt := now.Add(time.Hour)

	trends, err := repo.GetOrderTrends(startAt, endAt)
	if err != nil {
		t.Fatalf("get order trends failed: %v", err)
	}
	if len(trends) == 0 {
		t.Fatalf("order trends should not be empty")
	}
	if strings.TrimSpace(trends[0].Day) == "" {
		t.Fatalf("order trend day should not be empty")
	}

	ranking, err := repo.GetTopTenants(startAt, endAt, 5)
	if err != nil {
		t.Fatalf("get top tenants failed: %v", err)
	}
	if len(ranking) != 1 || ranking[0].Subdomain != "pg-dash" {
		t.Fatalf("unexpected tenant ranking: %#v", ranking)
	}

	distribution, err := repo.GetPlanDistribution()
	if err != nil {
		t.Fatalf("get plan distribution failed: %v", err)
	}
	if len(distribution) == 0 {
		t.Fatalf("plan distribution should not be empty")
	}
}
