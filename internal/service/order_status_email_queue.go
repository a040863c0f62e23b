package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/queue"
	"github.com/storeflow/storeflow/internal/repository"
)

// enqueueOrderStatusEmailTaskIfEligible enqueues a status email unless the
// order has no reachable address. skipped reports a policy skip.
func enqueueOrderStatusEmailTaskIfEligible(orderRepo repository.OrderRepository, queueClient *queue.Client, tenantID, orderID uint, status string) (skipped bool, err error) {
	if queueClient == nil || !queueClient.Enabled() || orderID == 0 {
		return true, nil
	}

	if orderRepo != nil {
		receiverEmail, lookupErr := orderRepo.ResolveCustomerEmail(tenantID, orderID)
		if lookupErr == nil && strings.TrimSpace(receiverEmail) == "" {
			return true, nil
		}
	}

	if err := queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		TenantID: tenantID,
		OrderID:  orderID,
		Status:   strings.TrimSpace(status),
	}); err != nil {
		return false, err
	}
	return false, nil
}
