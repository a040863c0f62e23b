package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/provider"
	"github.com/storeflow/storeflow/internal/queue"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/hibiken/asynq"
)

const mediaPruneDefaultLimit = 100

// Consumer processes queued background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskMediaPrune, c.handleMediaPrune)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderService.Get(payload.TenantID, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_status_email_skip_order_not_found",
				"tenant_id", payload.TenantID, "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_status_email_fetch_order_failed",
			"tenant_id", payload.TenantID, "order_id", payload.OrderID, "error", err)
		return err
	}

	receiverEmail, err := c.OrderService.ResolveCustomerEmail(payload.TenantID, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_resolve_receiver_failed",
			"tenant_id", payload.TenantID, "order_id", payload.OrderID, "error", err)
		return err
	}
	if strings.TrimSpace(receiverEmail) == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver",
			"order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_email_service_nil",
			"order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}

	storeName := ""
	if tenant, err := c.TenantRepo.GetByID(payload.TenantID); err == nil && tenant != nil {
		storeName = tenant.Name
	}

	input := service.OrderStatusEmailInput{
		StoreName: storeName,
		OrderNo:   order.OrderNo,
		Status:    status,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
	}
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}

	canceled, err := c.OrderService.CancelExpired(payload.TenantID, payload.OrderID, time.Now())
	if err != nil {
		logger.Warnw("worker_order_timeout_cancel_failed",
			"tenant_id", payload.TenantID, "order_id", payload.OrderID, "error", err)
		return err
	}
	if canceled {
		logger.Infow("worker_order_timeout_canceled",
			"tenant_id", payload.TenantID, "order_id", payload.OrderID)
	}
	return nil
}

func (c *Consumer) handleMediaPrune(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_media_prune_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MediaPrunePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_media_prune_unmarshal_failed", "error", err)
		return err
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = mediaPruneDefaultLimit
	}
	if c.MediaService == nil {
		logger.Warnw("worker_media_prune_skip_media_service_nil")
		return nil
	}

	pruned, err := c.MediaService.PruneOrphaned(limit)
	if err != nil {
		logger.Warnw("worker_media_prune_failed", "pruned", pruned, "error", err)
		return err
	}
	if pruned > 0 {
		logger.Infow("worker_media_pruned", "count", pruned)
	}
	return nil
}
