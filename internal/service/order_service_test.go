package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderTestTenantID = uint(7)

type orderServiceFixture struct {
	svc          *OrderService
	db           *gorm.DB
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	customerRepo repository.CustomerRepository
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{}, &models.Product{}, &models.ProductVariant{},
		&models.Customer{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	svc := NewOrderService(
		&config.Config{Order: config.OrderConfig{ConfirmExpireMinutes: 30}},
		repository.NewOrderRepository(db),
		productRepo,
		variantRepo,
		customerRepo,
		nil,
	)
	return &orderServiceFixture{
		svc:          svc,
		db:           db,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		customerRepo: customerRepo,
	}
}

func (f *orderServiceFixture) createProduct(t *testing.T, slug string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		TenantID:    orderTestTenantID,
		Slug:        slug,
		Title:       slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		Currency:    "USD",
		StockTotal:  stock,
		Status:      constants.ProductStatusActive,
	}
	if err := f.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *orderServiceFixture) createVariant(t *testing.T, productID uint, sku string, price *float64, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		TenantID:   orderTestTenantID,
		ProductID:  productID,
		SKU:        sku,
		StockTotal: stock,
		IsActive:   true,
		OptionsJSON: models.JSON(map[string]interface{}{
			"size": "M",
		}),
	}
	if price != nil {
		amount := models.NewMoneyFromDecimal(decimal.NewFromFloat(*price))
		variant.PriceAmount = &amount
	}
	if err := f.variantRepo.Create(variant); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func (f *orderServiceFixture) createCustomer(t *testing.T, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		TenantID:     orderTestTenantID,
		Email:        email,
		PasswordHash: "x",
		Status:       constants.AccountStatusActive,
	}
	if err := f.customerRepo.Create(customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func TestCreateOrderReservesProductStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")

	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		CustomerNote: "  gift wrap please  ",
		ClientIP:     "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.Status != constants.OrderStatusPending {
		t.Fatalf("new order should be pending, got %s", order.Status)
	}
	if order.OrderNo == "" || !strings.HasPrefix(order.OrderNo, "SF") {
		t.Fatalf("unexpected order no: %q", order.OrderNo)
	}
	if order.TotalAmount.String() != "25.00" {
		t.Fatalf("total want 25.00 got %s", order.TotalAmount.String())
	}
	if order.Currency != "USD" {
		t.Fatalf("currency want USD got %s", order.Currency)
	}
	if order.CustomerNote != "gift wrap please" {
		t.Fatalf("note should be trimmed, got %q", order.CustomerNote)
	}
	if order.ExpiresAt == nil || !order.ExpiresAt.After(time.Now()) {
		t.Fatalf("pending order needs a future confirm deadline, got %v", order.ExpiresAt)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %#v", order.Items)
	}
	if order.Items[0].TitleSnapshot != product.Title {
		t.Fatalf("item should snapshot the title, got %q", order.Items[0].TitleSnapshot)
	}

	got, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockReserved != 2 || got.StockTotal != 10 {
		t.Fatalf("stock want total=10 reserved=2 got total=%d reserved=%d", got.StockTotal, got.StockReserved)
	}
}

func TestCreateOrderVariantPriceOverride(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "tee-shirt", 20.00, 0)
	price := 24.00
	variant := f.createVariant(t, product.ID, "TEE-M", &price, 5)
	customer := f.createCustomer(t, "buyer@example.com")

	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.TotalAmount.String() != "72.00" {
		t.Fatalf("variant price should win, total want 72.00 got %s", order.TotalAmount.String())
	}
	if order.Items[0].SKUSnapshot != "TEE-M" {
		t.Fatalf("item should snapshot the sku, got %q", order.Items[0].SKUSnapshot)
	}

	gotVariant, err := f.variantRepo.GetByID(orderTestTenantID, variant.ID)
	if err != nil {
		t.Fatalf("fetch variant failed: %v", err)
	}
	if gotVariant.StockReserved != 3 {
		t.Fatalf("variant reserved want 3 got %d", gotVariant.StockReserved)
	}
}

func TestCreateOrderRequiresVariantSelection(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "tee-shirt", 20.00, 5)
	variant := f.createVariant(t, product.ID, "TEE-M", nil, 3)
	customer := f.createCustomer(t, "buyer@example.com")

	// A product with variants only sells through a variant line; a bare
	// product line would desync the counters from the variant sum.
	_, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if !errors.Is(err, ErrVariantRequired) {
		t.Fatalf("want ErrVariantRequired got %v", err)
	}

	gotProduct, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if gotProduct.StockReserved != 0 {
		t.Fatalf("rejected order must not reserve product stock, reserved=%d", gotProduct.StockReserved)
	}
	gotVariant, err := f.variantRepo.GetByID(orderTestTenantID, variant.ID)
	if err != nil {
		t.Fatalf("fetch variant failed: %v", err)
	}
	if gotVariant.StockReserved != 0 {
		t.Fatalf("rejected order must not reserve variant stock, reserved=%d", gotVariant.StockReserved)
	}

	// The same line with the variant selected goes through.
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order with variant failed: %v", err)
	}
	if order.TotalAmount.String() != "60.00" {
		t.Fatalf("total want 60.00 got %s", order.TotalAmount.String())
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "limited-run", 50.00, 1)
	customer := f.createCustomer(t, "buyer@example.com")

	_, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// The aborted transaction must not leave a reservation behind.
	got, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockReserved != 0 {
		t.Fatalf("reservation should roll back, reserved=%d", got.StockReserved)
	}

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("no order row should survive the rollback, got %d", count)
	}
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	f := setupOrderServiceTest(t)
	customer := f.createCustomer(t, "buyer@example.com")

	if _, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{}); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("empty cart want ErrEmptyOrder got %v", err)
	}

	draft := f.createProduct(t, "draft-item", 5.00, 10)
	draft.Status = constants.ProductStatusDraft
	if err := f.productRepo.Update(draft); err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	_, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: draft.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("draft product want ErrProductNotFound got %v", err)
	}

	active := f.createProduct(t, "active-item", 5.00, 10)
	bogusVariant := uint(9999)
	_, err = f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: active.ID, VariantID: &bogusVariant, Quantity: 1}},
	})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("missing variant want ErrVariantNotFound got %v", err)
	}
}

func TestTransitionConfirmClearsDeadline(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	confirmed, err := f.svc.Transition(orderTestTenantID, order.ID, constants.OrderStatusConfirmed, "")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", confirmed.Status)
	}
	if confirmed.ExpiresAt != nil {
		t.Fatalf("confirm should clear the deadline, got %v", confirmed.ExpiresAt)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatalf("confirm should stamp confirmed_at")
	}
}

func TestTransitionShipConsumesStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
	} {
		if _, err := f.svc.Transition(orderTestTenantID, order.ID, status, ""); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	got, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockTotal != 6 || got.StockReserved != 0 {
		t.Fatalf("ship should consume the reservation, got total=%d reserved=%d", got.StockTotal, got.StockReserved)
	}
}

func TestTransitionRejectsSkippingStates(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := f.svc.Transition(orderTestTenantID, order.ID, constants.OrderStatusShipped, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending to shipped want ErrInvalidTransition got %v", err)
	}
	if _, err := f.svc.Transition(orderTestTenantID, order.ID, constants.OrderStatusCompleted, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending to completed want ErrInvalidTransition got %v", err)
	}
}

func TestCancelByCustomerReleasesStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	canceled, err := f.svc.CancelByCustomer(orderTestTenantID, order.ID, customer.ID, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("status want canceled got %s", canceled.Status)
	}
	if canceled.CancelReason != "canceled by customer" {
		t.Fatalf("empty reason should default, got %q", canceled.CancelReason)
	}

	got, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockReserved != 0 || got.StockTotal != 10 {
		t.Fatalf("cancel should release the reservation, got total=%d reserved=%d", got.StockTotal, got.StockReserved)
	}
}

func TestCancelToleratesAlreadyReleasedStock(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// The reservation vanished out of band, e.g. a manual stock correction.
	if err := f.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_reserved", 0).Error; err != nil {
		t.Fatalf("clear reservation failed: %v", err)
	}

	canceled, err := f.svc.Transition(orderTestTenantID, order.ID, constants.OrderStatusCanceled, "manual")
	if err != nil {
		t.Fatalf("cancel must tolerate a missing reservation: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("status want canceled got %s", canceled.Status)
	}

	got, err := f.productRepo.GetByID(orderTestTenantID, product.ID)
	if err != nil {
		t.Fatalf("fetch product failed: %v", err)
	}
	if got.StockReserved != 0 {
		t.Fatalf("release must not drive the counter negative, reserved=%d", got.StockReserved)
	}
}

func TestCancelByCustomerChecksOwnershipAndState(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	owner := f.createCustomer(t, "owner@example.com")
	stranger := f.createCustomer(t, "stranger@example.com")
	order, err := f.svc.Create(orderTestTenantID, owner.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := f.svc.CancelByCustomer(orderTestTenantID, order.ID, stranger.ID, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign order want ErrOrderNotFound got %v", err)
	}

	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
	} {
		if _, err := f.svc.Transition(orderTestTenantID, order.ID, status, ""); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}
	if _, err := f.svc.CancelByCustomer(orderTestTenantID, order.ID, owner.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("shipped order want ErrInvalidTransition got %v", err)
	}
}

func TestCancelExpiredSkipsMovedOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// Not yet past the deadline.
	canceled, err := f.svc.CancelExpired(orderTestTenantID, order.ID, time.Now())
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if canceled {
		t.Fatalf("fresh order must not be canceled")
	}

	// Past the deadline.
	canceled, err = f.svc.CancelExpired(orderTestTenantID, order.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if !canceled {
		t.Fatalf("expired pending order should be canceled")
	}

	got, err := f.svc.Get(orderTestTenantID, order.ID)
	if err != nil {
		t.Fatalf("fetch order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCanceled {
		t.Fatalf("status want canceled got %s", got.Status)
	}

	// Terminal orders are left alone.
	canceled, err = f.svc.CancelExpired(orderTestTenantID, order.ID, time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if canceled {
		t.Fatalf("canceled order must not be canceled twice")
	}
}

func TestSweepExpiredOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 100)
	customer := f.createCustomer(t, "buyer@example.com")

	var orderIDs []uint
	for i := 0; i < 3; i++ {
		order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
			Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		orderIDs = append(orderIDs, order.ID)
	}

	// Confirm one order so the sweep skips it.
	if _, err := f.svc.Transition(orderTestTenantID, orderIDs[0], constants.OrderStatusConfirmed, ""); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	swept, err := f.svc.SweepExpiredOrders(time.Now().Add(time.Hour), 50)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 2 {
		t.Fatalf("sweep want 2 got %d", swept)
	}

	confirmed, err := f.svc.Get(orderTestTenantID, orderIDs[0])
	if err != nil {
		t.Fatalf("fetch order failed: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("confirmed order must survive the sweep, got %s", confirmed.Status)
	}
}

func TestResolveCustomerEmail(t *testing.T) {
	f := setupOrderServiceTest(t)
	product := f.createProduct(t, "coffee-mug", 12.50, 10)
	customer := f.createCustomer(t, "buyer@example.com")
	order, err := f.svc.Create(orderTestTenantID, customer.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	email, err := f.svc.ResolveCustomerEmail(orderTestTenantID, order.ID)
	if err != nil {
		t.Fatalf("resolve email failed: %v", err)
	}
	if email != "buyer@example.com" {
		t.Fatalf("email want buyer@example.com got %s", email)
	}
}
