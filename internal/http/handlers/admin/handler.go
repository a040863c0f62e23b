package admin

import "github.com/storeflow/storeflow/internal/provider"

// Handler serves the landlord and tenant staff API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
