package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:   "confirmed",
			status: "confirmed",
			wantSubjectContains: []string{
				"SF-CONFIRM",
				"confirmed",
			},
			wantBodyContains: []string{
				"has been confirmed",
				"Total: 42.50 USD",
			},
		},
		{
			name:   "shipped",
			status: "shipped",
			wantSubjectContains: []string{
				"SF-CONFIRM",
				"shipped",
			},
			wantBodyContains: []string{
				"has shipped",
			},
		},
		{
			name:   "canceled",
			status: "canceled",
			wantSubjectContains: []string{
				"canceled",
			},
			wantBodyContains: []string{
				"has been canceled",
				"contact the store",
			},
		},
		{
			name:   "unknown_status_falls_back",
			status: "Refund-Review",
			wantSubjectContains: []string{
				"refund-review",
			},
			wantBodyContains: []string{
				"is now refund-review",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(OrderStatusEmailInput{
				StoreName: "Acme Gifts",
				OrderNo:   "SF-CONFIRM",
				Status:    tt.status,
				Amount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(42.50)),
				Currency:  "USD",
			})
			for _, want := range tt.wantSubjectContains {
				if !strings.Contains(subject, want) {
					t.Fatalf("subject %q missing %q", subject, want)
				}
			}
			for _, want := range tt.wantBodyContains {
				if !strings.Contains(body, want) {
					t.Fatalf("body %q missing %q", body, want)
				}
			}
			if !strings.Contains(body, "Acme Gifts") {
				t.Fatalf("body should name the store: %q", body)
			}
		})
	}
}

func TestBuildOrderStatusContentDefaultsStoreName(t *testing.T) {
	_, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo:  "SF-NOSTORE",
		Status:   "confirmed",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		Currency: "USD",
	})
	if !strings.Contains(body, "your store") {
		t.Fatalf("empty store name should fall back, got %q", body)
	}
}

func TestSendTextEmailGuards(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := svc.SendCustomEmail("a@b.com", "s", "b"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled config should return ErrEmailServiceDisabled, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendCustomEmail("a@b.com", "s", "b"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host should return ErrEmailServiceNotConfigured, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	if err := svc.SendCustomEmail("not-an-address", "s", "b"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad recipient should return ErrInvalidEmail, got %v", err)
	}
}

func TestBuildEmailMessage(t *testing.T) {
	msg := buildEmailMessage("noreply@example.com", "buyer@example.com", "Order update", "hello")
	for _, want := range []string{
		"From: noreply@example.com",
		"To: buyer@example.com",
		"Subject: Order update",
		"Content-Type: text/plain; charset=UTF-8",
		"\r\n\r\nhello",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
