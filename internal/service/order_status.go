package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
)

// allowedOrderTransitions maps each order status to the statuses it may
// move to. Completed and canceled are terminal.
var allowedOrderTransitions = map[string][]string{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed,
		constants.OrderStatusCanceled,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing,
		constants.OrderStatusCanceled,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped,
		constants.OrderStatusCanceled,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusCompleted,
	},
	constants.OrderStatusCompleted: {},
	constants.OrderStatusCanceled:  {},
}

// CanTransitionOrderStatus reports whether an order may move from one
// status to another.
func CanTransitionOrderStatus(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	for _, next := range allowedOrderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether no further transitions exist.
func IsTerminalOrderStatus(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	next, ok := allowedOrderTransitions[status]
	return ok && len(next) == 0
}

// orderStatusRestoresStock reports whether canceling from this status must
// put reserved stock back.
func orderStatusRestoresStock(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.OrderStatusPending, constants.OrderStatusConfirmed, constants.OrderStatusProcessing:
		return true
	default:
		return false
	}
}
