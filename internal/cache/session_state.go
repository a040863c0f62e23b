package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/models"
)

const sessionStateCacheTTL = 10 * time.Minute

// CustomerSessionState is the server-side snapshot of a storefront
// session. expires_at is a Unix second timestamp.
type CustomerSessionState struct {
	TenantID   uint   `json:"tenant_id"`
	CustomerID uint   `json:"customer_id"`
	Status     string `json:"status"`
	ExpiresAt  int64  `json:"expires_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

func customerSessionKey(token string) string {
	return fmt.Sprintf("session:customer:%s", strings.TrimSpace(token))
}

// BuildCustomerSessionState builds a snapshot from a session row.
func BuildCustomerSessionState(session *models.CustomerSession, customerStatus string) *CustomerSessionState {
	if session == nil {
		return nil
	}
	return &CustomerSessionState{
		TenantID:   session.TenantID,
		CustomerID: session.CustomerID,
		Status:     customerStatus,
		ExpiresAt:  session.ExpiresAt.Unix(),
		UpdatedAt:  time.Now().Unix(),
	}
}

// GetCustomerSessionState reads a session snapshot.
func GetCustomerSessionState(ctx context.Context, token string) (*CustomerSessionState, bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, false, nil
	}
	var state CustomerSessionState
	hit, err := GetJSON(ctx, customerSessionKey(token), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetCustomerSessionState writes a session snapshot.
func SetCustomerSessionState(ctx context.Context, token string, state *CustomerSessionState) error {
	if state == nil || strings.TrimSpace(token) == "" {
		return nil
	}
	return SetJSON(ctx, customerSessionKey(token), state, sessionStateCacheTTL)
}

// DelCustomerSessionState removes a session snapshot.
func DelCustomerSessionState(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return Del(ctx, customerSessionKey(token))
}
