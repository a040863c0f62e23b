package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/queue"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService owns the order lifecycle: creation with stock reservation,
// the status machine, and cancellation with stock restore.
type OrderService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	customerRepo repository.CustomerRepository
	queueClient  *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	customerRepo repository.CustomerRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		customerRepo: customerRepo,
		queueClient:  queueClient,
	}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// CreateOrderInput is the storefront checkout payload.
type CreateOrderInput struct {
	Items        []OrderItemInput
	CustomerNote string
	ClientIP     string
}

// Create places an order for a customer. Stock is reserved inside the
// transaction; a zero-row reservation aborts with ErrInsufficientStock.
func (s *OrderService) Create(tenantID, customerID uint, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	expireMinutes := s.cfg.Order.ConfirmExpireMinutes
	if expireMinutes <= 0 {
		expireMinutes = 30
	}
	expiresAt := now.Add(time.Duration(expireMinutes) * time.Minute)

	order := &models.Order{
		TenantID:     tenantID,
		OrderNo:      generateOrderNo(),
		CustomerID:   customerID,
		Status:       constants.OrderStatusPending,
		CustomerNote: strings.TrimSpace(input.CustomerNote),
		ClientIP:     strings.TrimSpace(input.ClientIP),
		ExpiresAt:    &expiresAt,
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		variantRepo := s.variantRepo.WithTx(tx)

		subtotal := decimal.Zero
		currency := ""
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, line := range input.Items {
			if line.Quantity <= 0 {
				return ErrEmptyOrder
			}

			product, err := productRepo.GetByID(tenantID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.Status != constants.ProductStatusActive {
				return ErrProductNotFound
			}
			if currency == "" {
				currency = product.Currency
			}

			item := models.OrderItem{
				ProductID:     product.ID,
				TitleSnapshot: product.Title,
				Quantity:      line.Quantity,
			}
			unitPrice := product.PriceAmount

			if line.VariantID != nil {
				variant, err := variantRepo.GetByID(tenantID, *line.VariantID)
				if err != nil {
					return err
				}
				if variant == nil || variant.ProductID != product.ID || !variant.IsActive {
					return ErrVariantNotFound
				}
				if variant.PriceAmount != nil {
					unitPrice = *variant.PriceAmount
				}
				item.VariantID = &variant.ID
				item.SKUSnapshot = variant.SKU
				item.OptionsSnapshot = variant.OptionsJSON

				affected, err := variantRepo.ReserveStock(tenantID, variant.ID, line.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}
				if err := productRepo.ReconcileStockFromVariants(tenantID, product.ID); err != nil {
					return err
				}
			} else {
				// Product counters mirror the variant sum, so a product
				// with variants only reserves through a variant line.
				if len(product.Variants) > 0 {
					return ErrVariantRequired
				}
				affected, err := productRepo.ReserveStock(tenantID, product.ID, line.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}
			}

			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			item.UnitPrice = unitPrice
			item.TotalPrice = models.NewMoneyFromDecimal(lineTotal)
			subtotal = subtotal.Add(lineTotal)
			items = append(items, item)
		}

		if currency == "" {
			currency = constants.CurrencyDefault
		}
		order.Currency = currency
		order.SubtotalAmount = models.NewMoneyFromDecimal(subtotal)
		order.DiscountAmount = models.NewMoneyFromDecimal(decimal.Zero)
		order.TotalAmount = models.NewMoneyFromDecimal(subtotal)

		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		return nil, err
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
			TenantID: tenantID,
			OrderID:  order.ID,
		}, time.Until(expiresAt)); err != nil {
			logger.Warnw("order_timeout_task_enqueue_failed", "order_no", order.OrderNo, "error", err)
		}
	}
	s.enqueueStatusEmail(tenantID, order.ID, constants.OrderStatusPending)

	logger.Infow("order_created",
		"tenant_id", tenantID,
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
	)
	return s.Get(tenantID, order.ID)
}

// List lists orders for the staff admin.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Get fetches an order within a tenant.
func (s *OrderService) Get(tenantID, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForCustomer fetches a customer's own order.
func (s *OrderService) GetForCustomer(tenantID, id, customerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndCustomer(tenantID, id, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListForCustomer lists a customer's own orders.
func (s *OrderService) ListForCustomer(tenantID, customerID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		TenantID:   tenantID,
		CustomerID: customerID,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Transition moves an order along the status machine. Stock is consumed
// when the order ships and released when it is canceled pre-shipment.
func (s *OrderService) Transition(tenantID, id uint, toStatus, reason string) (*models.Order, error) {
	order, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	toStatus = strings.ToLower(strings.TrimSpace(toStatus))
	if !CanTransitionOrderStatus(order.Status, toStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch toStatus {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
		updates["expires_at"] = nil
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
		updates["cancel_reason"] = strings.TrimSpace(reason)
	case constants.OrderStatusCompleted:
		updates["completed_at"] = now
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		if toStatus == constants.OrderStatusShipped {
			if err := s.consumeOrderStock(tx, order); err != nil {
				return err
			}
		}
		if toStatus == constants.OrderStatusCanceled && orderStatusRestoresStock(order.Status) {
			if err := s.releaseOrderStock(tx, order); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(tenantID, order.ID, toStatus, updates)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(tenantID, order.ID, toStatus)
	logger.Infow("order_status_changed",
		"tenant_id", tenantID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", toStatus,
	)
	return s.Get(tenantID, order.ID)
}

// CancelByCustomer lets a customer cancel their own order while it is
// still pending or confirmed.
func (s *OrderService) CancelByCustomer(tenantID, id, customerID uint, reason string) (*models.Order, error) {
	order, err := s.GetForCustomer(tenantID, id, customerID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		reason = "canceled by customer"
	}
	return s.Transition(tenantID, order.ID, constants.OrderStatusCanceled, reason)
}

// CancelExpired cancels a pending order past its confirm deadline. Orders
// already moved along are left alone.
func (s *OrderService) CancelExpired(tenantID, id uint, now time.Time) (bool, error) {
	order, err := s.orderRepo.GetByID(tenantID, id)
	if err != nil {
		return false, err
	}
	if order == nil || order.Status != constants.OrderStatusPending {
		return false, nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(now) {
		return false, nil
	}
	if _, err := s.Transition(tenantID, order.ID, constants.OrderStatusCanceled, "confirm deadline passed"); err != nil {
		return false, err
	}
	return true, nil
}

// SweepExpiredOrders cancels every pending order past its deadline. It
// backs the periodic timeout task.
func (s *OrderService) SweepExpiredOrders(now time.Time, limit int) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(now, limit)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for _, order := range orders {
		ok, err := s.CancelExpired(order.TenantID, order.ID, now)
		if err != nil {
			logger.Warnw("order_timeout_cancel_failed",
				"tenant_id", order.TenantID,
				"order_no", order.OrderNo,
				"error", err,
			)
			continue
		}
		if ok {
			canceled++
		}
	}
	return canceled, nil
}

// ResolveCustomerEmail resolves the notification address for an order.
func (s *OrderService) ResolveCustomerEmail(tenantID, orderID uint) (string, error) {
	return s.orderRepo.ResolveCustomerEmail(tenantID, orderID)
}

func (s *OrderService) releaseOrderStock(tx *gorm.DB, order *models.Order) error {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, item := range order.Items {
		if item.VariantID != nil {
			affected, err := variantRepo.ReleaseStock(order.TenantID, *item.VariantID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				logger.Warnw("order_stock_release_skipped",
					"tenant_id", order.TenantID,
					"order_no", order.OrderNo,
					"variant_id", *item.VariantID,
					"quantity", item.Quantity,
				)
			}
			if err := productRepo.ReconcileStockFromVariants(order.TenantID, item.ProductID); err != nil {
				return err
			}
			continue
		}
		affected, err := productRepo.ReleaseStock(order.TenantID, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			logger.Warnw("order_stock_release_skipped",
				"tenant_id", order.TenantID,
				"order_no", order.OrderNo,
				"product_id", item.ProductID,
				"quantity", item.Quantity,
			)
		}
	}
	return nil
}

func (s *OrderService) consumeOrderStock(tx *gorm.DB, order *models.Order) error {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, item := range order.Items {
		if item.VariantID != nil {
			affected, err := variantRepo.ConsumeStock(order.TenantID, *item.VariantID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
			if err := productRepo.ReconcileStockFromVariants(order.TenantID, item.ProductID); err != nil {
				return err
			}
			continue
		}
		affected, err := productRepo.ConsumeStock(order.TenantID, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
	}
	return nil
}

func (s *OrderService) enqueueStatusEmail(tenantID, orderID uint, status string) {
	skipped, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, tenantID, orderID, status)
	if err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"tenant_id", tenantID,
			"order_id", orderID,
			"status", status,
			"error", err,
		)
		return
	}
	if skipped {
		logger.Debugw("order_status_email_skipped",
			"tenant_id", tenantID,
			"order_id", orderID,
			"status", status,
		)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("SF%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
