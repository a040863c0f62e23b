package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PricePlan{}, &models.Tenant{},
		&models.Product{}, &models.ProductVariant{},
		&models.Attribute{}, &models.AttributeValue{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewVariantRepository(db),
		repository.NewTenantRepository(db),
	)
	return svc, db
}

func createProductTestTenant(t *testing.T, db *gorm.DB, maxProducts int) *models.Tenant {
	t.Helper()
	plan := &models.PricePlan{
		Code:        fmt.Sprintf("plan-%s", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "-"))),
		Name:        "Test Plan",
		MaxProducts: maxProducts,
		IsActive:    true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	tenant := &models.Tenant{
		Subdomain: "acme",
		Name:      "Acme Gifts",
		Status:    constants.TenantStatusActive,
		PlanID:    plan.ID,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	return tenant
}

func TestProductCreateNormalizesAndChecksSlug(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	tenant := createProductTestTenant(t, db, 0)

	product, err := svc.Create(tenant.ID, ProductInput{
		Slug:        "  Coffee-Mug  ",
		Title:       "  Coffee Mug  ",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(12.5)),
		Currency:    "usd",
		Status:      "ACTIVE",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Slug != "coffee-mug" {
		t.Fatalf("slug should be lowercased and trimmed, got %q", product.Slug)
	}
	if product.Title != "Coffee Mug" {
		t.Fatalf("title should be trimmed, got %q", product.Title)
	}
	if product.Currency != "USD" {
		t.Fatalf("currency should be normalized, got %q", product.Currency)
	}
	if product.Status != constants.ProductStatusActive {
		t.Fatalf("status want active got %q", product.Status)
	}

	if _, err := svc.Create(tenant.ID, ProductInput{Slug: "coffee-mug", Title: "Dup"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("duplicate slug want ErrSlugTaken got %v", err)
	}
	if _, err := svc.Create(tenant.ID, ProductInput{Slug: "   ", Title: "Blank"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("blank slug want ErrSlugTaken got %v", err)
	}

	// The same slug is free under another tenant.
	other := &models.Tenant{Subdomain: "other", Name: "Other", Status: constants.TenantStatusActive, PlanID: tenant.PlanID}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	if _, err := svc.Create(other.ID, ProductInput{Slug: "coffee-mug", Title: "Mug"}); err != nil {
		t.Fatalf("slug should be scoped per tenant: %v", err)
	}
}

func TestProductCreateEnforcesPlanLimit(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	tenant := createProductTestTenant(t, db, 2)

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(tenant.ID, ProductInput{
			Slug:  fmt.Sprintf("item-%d", i),
			Title: "Item",
		}); err != nil {
			t.Fatalf("create product %d failed: %v", i, err)
		}
	}

	_, err := svc.Create(tenant.ID, ProductInput{Slug: "item-over", Title: "Over"})
	if !errors.Is(err, ErrPlanLimitReached) {
		t.Fatalf("want ErrPlanLimitReached got %v", err)
	}
}

func TestProductUpdateGuardsStockAndSlug(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	tenant := createProductTestTenant(t, db, 0)

	stock := 10
	product, err := svc.Create(tenant.ID, ProductInput{
		Slug:       "coffee-mug",
		Title:      "Coffee Mug",
		StockTotal: &stock,
		Status:     constants.ProductStatusActive,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if _, err := svc.Create(tenant.ID, ProductInput{Slug: "tea-pot", Title: "Tea Pot"}); err != nil {
		t.Fatalf("create second product failed: %v", err)
	}

	if _, err := svc.Update(tenant.ID, product.ID, ProductInput{
		Slug:  "tea-pot",
		Title: "Coffee Mug",
	}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("renaming onto a taken slug want ErrSlugTaken got %v", err)
	}

	// A stock total below the reserved quantity is ignored.
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_reserved", 4).Error; err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}
	lower := 2
	updated, err := svc.Update(tenant.ID, product.ID, ProductInput{
		Slug:       "coffee-mug",
		Title:      "Coffee Mug",
		StockTotal: &lower,
		Status:     constants.ProductStatusActive,
	})
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.StockTotal != 10 {
		t.Fatalf("stock below reservation should be ignored, got %d", updated.StockTotal)
	}
}

func TestVariantLifecycleReconcilesParentStock(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	tenant := createProductTestTenant(t, db, 0)

	product, err := svc.Create(tenant.ID, ProductInput{
		Slug:   "tee-shirt",
		Title:  "Tee Shirt",
		Status: constants.ProductStatusActive,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	small, err := svc.CreateVariant(tenant.ID, product.ID, VariantInput{
		SKU:        "TEE-S",
		StockTotal: 4,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	medium, err := svc.CreateVariant(tenant.ID, product.ID, VariantInput{
		SKU:        "TEE-M",
		StockTotal: 6,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	got, err := svc.Get(tenant.ID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockTotal != 10 {
		t.Fatalf("parent stock should mirror variant sum, got %d", got.StockTotal)
	}

	if _, err := svc.CreateVariant(tenant.ID, product.ID, VariantInput{SKU: "TEE-S"}); !errors.Is(err, ErrSKUTaken) {
		t.Fatalf("duplicate sku want ErrSKUTaken got %v", err)
	}
	if _, err := svc.CreateVariant(tenant.ID, product.ID, VariantInput{SKU: "  "}); !errors.Is(err, ErrSKUTaken) {
		t.Fatalf("blank sku want ErrSKUTaken got %v", err)
	}

	if _, err := svc.UpdateVariant(tenant.ID, product.ID, medium.ID, VariantInput{
		SKU:        "TEE-M",
		StockTotal: 1,
		IsActive:   true,
	}); err != nil {
		t.Fatalf("update variant failed: %v", err)
	}
	got, err = svc.Get(tenant.ID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockTotal != 5 {
		t.Fatalf("parent stock should follow variant update, got %d", got.StockTotal)
	}

	if err := svc.DeleteVariant(tenant.ID, product.ID, small.ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}
	got, err = svc.Get(tenant.ID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockTotal != 1 {
		t.Fatalf("parent stock should drop with the variant, got %d", got.StockTotal)
	}

	// Variants belong to their product.
	if _, err := svc.UpdateVariant(tenant.ID, product.ID+1, medium.ID, VariantInput{SKU: "TEE-M"}); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("foreign product want ErrVariantNotFound got %v", err)
	}
}

func TestProductDeleteRemovesVariants(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	tenant := createProductTestTenant(t, db, 0)

	product, err := svc.Create(tenant.ID, ProductInput{Slug: "tee-shirt", Title: "Tee Shirt"})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if _, err := svc.CreateVariant(tenant.ID, product.ID, VariantInput{SKU: "TEE-S", StockTotal: 2, IsActive: true}); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	if err := svc.Delete(tenant.ID, product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := svc.Get(tenant.ID, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("deleted product want ErrProductNotFound got %v", err)
	}

	var variantCount int64
	db.Model(&models.ProductVariant{}).Count(&variantCount)
	if variantCount != 0 {
		t.Fatalf("variants should be deleted with the product, got %d", variantCount)
	}
}
