package queue

import (
	"encoding/json"

	"github.com/storeflow/storeflow/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail notifies the customer about an order status change.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderTimeoutCancel cancels a pending order past its deadline.
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskMediaPrune removes uploads orphaned by tenant deletion.
	TaskMediaPrune = constants.TaskMediaPrune
)

// OrderStatusEmailPayload carries one status notification.
type OrderStatusEmailPayload struct {
	TenantID uint   `json:"tenant_id"`
	OrderID  uint   `json:"order_id"`
	Status   string `json:"status"`
}

// OrderTimeoutCancelPayload carries one timeout cancellation.
type OrderTimeoutCancelPayload struct {
	TenantID uint `json:"tenant_id"`
	OrderID  uint `json:"order_id"`
}

// MediaPrunePayload bounds one prune sweep.
type MediaPrunePayload struct {
	Limit int `json:"limit"`
}

// NewOrderStatusEmailTask builds the status email task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewOrderTimeoutCancelTask builds the timeout cancel task.
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewMediaPruneTask builds the media prune task.
func NewMediaPruneTask(payload MediaPrunePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMediaPrune, body), nil
}
