package service

import (
	"testing"

	"github.com/storeflow/storeflow/internal/queue"
)

func TestEnqueueOrderStatusEmailTaskSkipsDisabledQueue(t *testing.T) {
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	t.Cleanup(func() {
		_ = queueClient.Close()
	})

	skipped, err := enqueueOrderStatusEmailTaskIfEligible(nil, queueClient, 1, 101, "confirmed")
	if err != nil {
		t.Fatalf("enqueue helper returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip when the queue is disabled")
	}
}

func TestEnqueueOrderStatusEmailTaskSkipsNilClient(t *testing.T) {
	skipped, err := enqueueOrderStatusEmailTaskIfEligible(nil, nil, 1, 102, "confirmed")
	if err != nil {
		t.Fatalf("enqueue helper returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip when no queue client is wired")
	}
}

func TestEnqueueOrderStatusEmailTaskSkipsZeroOrderID(t *testing.T) {
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	t.Cleanup(func() {
		_ = queueClient.Close()
	})

	skipped, err := enqueueOrderStatusEmailTaskIfEligible(nil, queueClient, 1, 0, "confirmed")
	if err != nil {
		t.Fatalf("enqueue helper returned error: %v", err)
	}
	if !skipped {
		t.Fatalf("expected skip for a zero order id")
	}
}
