package service

import (
	"testing"

	"github.com/storeflow/storeflow/internal/constants"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCanceled},
		{constants.OrderStatusConfirmed, constants.OrderStatusProcessing},
		{constants.OrderStatusConfirmed, constants.OrderStatusCanceled},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped},
		{constants.OrderStatusProcessing, constants.OrderStatusCanceled},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered},
		{constants.OrderStatusDelivered, constants.OrderStatusCompleted},
	}
	for _, c := range allowed {
		if !CanTransitionOrderStatus(c.from, c.to) {
			t.Fatalf("transition %s -> %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to string }{
		{constants.OrderStatusPending, constants.OrderStatusShipped},
		{constants.OrderStatusShipped, constants.OrderStatusCanceled},
		{constants.OrderStatusDelivered, constants.OrderStatusCanceled},
		{constants.OrderStatusCompleted, constants.OrderStatusCanceled},
		{constants.OrderStatusCanceled, constants.OrderStatusPending},
		{constants.OrderStatusConfirmed, constants.OrderStatusPending},
	}
	for _, c := range denied {
		if CanTransitionOrderStatus(c.from, c.to) {
			t.Fatalf("transition %s -> %s should be denied", c.from, c.to)
		}
	}
}

func TestOrderStatusTransitionNormalizesInput(t *testing.T) {
	if !CanTransitionOrderStatus(" Pending ", "CONFIRMED") {
		t.Fatalf("normalized transition should be allowed")
	}
}

func TestIsTerminalOrderStatus(t *testing.T) {
	if !IsTerminalOrderStatus(constants.OrderStatusCompleted) {
		t.Fatalf("completed should be terminal")
	}
	if !IsTerminalOrderStatus(constants.OrderStatusCanceled) {
		t.Fatalf("canceled should be terminal")
	}
	if IsTerminalOrderStatus(constants.OrderStatusPending) {
		t.Fatalf("pending should not be terminal")
	}
	if IsTerminalOrderStatus("unknown") {
		t.Fatalf("unknown status should not be terminal")
	}
}

func TestOrderStatusRestoresStock(t *testing.T) {
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
	} {
		if !orderStatusRestoresStock(status) {
			t.Fatalf("cancel from %s should restore stock", status)
		}
	}
	if orderStatusRestoresStock(constants.OrderStatusShipped) {
		t.Fatalf("cancel from shipped should not restore stock")
	}
}
