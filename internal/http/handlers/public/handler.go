package public

import "github.com/storeflow/storeflow/internal/provider"

// Handler serves the storefront API. Every route runs behind the tenant
// resolution middleware.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
