package repository

import (
	"testing"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate product/variant failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, tenantID uint, slug string, total int, reserved int) *models.Product {
	t.Helper()
	product := &models.Product{
		TenantID:      tenantID,
		Slug:          slug,
		Title:         "Test Product",
		PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Currency:      constants.CurrencyDefault,
		StockTotal:    total,
		StockReserved: reserved,
		Status:        constants.ProductStatusActive,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestVariant(t *testing.T, db *gorm.DB, tenantID, productID uint, sku string, total int, reserved int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		TenantID:      tenantID,
		ProductID:     productID,
		SKU:           sku,
		StockTotal:    total,
		StockReserved: reserved,
		IsActive:      true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestStockReserveReleaseConsumeLifecycle(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, 101, "stock-lifecycle", 10, 0)

	affected, err := repo.ReserveStock(101, product.ID, 3)
	if err != nil {
		t.Fatalf("reserve stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve affected want 1 got %d", affected)
	}

	affected, err = repo.ConsumeStock(101, product.ID, 2)
	if err != nil {
		t.Fatalf("consume stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("consume affected want 1 got %d", affected)
	}

	affected, err = repo.ReleaseStock(101, product.ID, 1)
	if err != nil {
		t.Fatalf("release stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("release affected want 1 got %d", affected)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockTotal != 8 {
		t.Fatalf("total want 8 got %d", got.StockTotal)
	}
	if got.StockReserved != 0 {
		t.Fatalf("reserved want 0 got %d", got.StockReserved)
	}

	affected, err = repo.ReserveStock(101, product.ID, 9)
	if err != nil {
		t.Fatalf("reserve over available failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("reserve over available affected want 0 got %d", affected)
	}

	affected, err = repo.ReserveStock(101, product.ID, 8)
	if err != nil {
		t.Fatalf("reserve exact available failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve exact available affected want 1 got %d", affected)
	}
}

func TestStockReserveRejectsWrongTenant(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, 102, "stock-wrong-tenant", 5, 0)

	affected, err := repo.ReserveStock(999, product.ID, 1)
	if err != nil {
		t.Fatalf("reserve with wrong tenant failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("reserve with wrong tenant affected want 0 got %d", affected)
	}
}

func TestReleaseStockNeverGoesNegative(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, 103, "stock-release-floor", 5, 1)

	affected, err := repo.ReleaseStock(103, product.ID, 2)
	if err != nil {
		t.Fatalf("release over reserved failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("release over reserved affected want 0 got %d", affected)
	}

	affected, err = repo.ReleaseStock(103, product.ID, 1)
	if err != nil {
		t.Fatalf("release exact reserved failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("release exact reserved affected want 1 got %d", affected)
	}
}

func TestReconcileStockFromVariants(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, 104, "stock-reconcile", 0, 0)
	createTestVariant(t, db, 104, product.ID, "RECON-A", 4, 1)
	createTestVariant(t, db, 104, product.ID, "RECON-B", 6, 2)

	if err := repo.ReconcileStockFromVariants(104, product.ID); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockTotal != 10 {
		t.Fatalf("total want 10 got %d", got.StockTotal)
	}
	if got.StockReserved != 3 {
		t.Fatalf("reserved want 3 got %d", got.StockReserved)
	}
}

func TestReconcileStockNoVariantsKeepsCounters(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createTestProduct(t, repo, 105, "stock-reconcile-none", 7, 2)

	if err := repo.ReconcileStockFromVariants(105, product.ID); err != nil {
		t.Fatalf("reconcile without variants failed: %v", err)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockTotal != 7 || got.StockReserved != 2 {
		t.Fatalf("counters changed, total=%d reserved=%d", got.StockTotal, got.StockReserved)
	}
}

func TestGetBySlugScopedByTenant(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createTestProduct(t, repo, 106, "tenant-scoped-slug", 1, 0)
	createTestProduct(t, repo, 107, "tenant-scoped-slug", 2, 0)

	got, err := repo.GetBySlug(106, "tenant-scoped-slug", false)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got == nil || got.TenantID != 106 {
		t.Fatalf("expected tenant 106 product, got %+v", got)
	}

	missing, err := repo.GetBySlug(108, "tenant-scoped-slug", false)
	if err != nil {
		t.Fatalf("get by slug for other tenant failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for foreign tenant, got %+v", missing)
	}
}

func TestListFiltersByStatusAndSearch(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	active := createTestProduct(t, repo, 109, "list-active-widget", 1, 0)
	draft := &models.Product{
		TenantID:    109,
		Slug:        "list-draft-widget",
		Title:       "Draft Widget",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		Currency:    constants.CurrencyDefault,
		Status:      constants.ProductStatusDraft,
	}
	if err := repo.Create(draft); err != nil {
		t.Fatalf("create draft product failed: %v", err)
	}

	products, total, err := repo.List(ProductListFilter{
		TenantID:   109,
		Page:       1,
		PageSize:   10,
		OnlyActive: true,
	})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != active.ID {
		t.Fatalf("active list mismatch, total=%d len=%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{
		TenantID: 109,
		Page:     1,
		PageSize: 10,
		Search:   "draft-widget",
	})
	if err != nil {
		t.Fatalf("list search failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != draft.ID {
		t.Fatalf("search list mismatch, total=%d len=%d", total, len(products))
	}
}
