package repository

import "time"

// TenantListFilter filters tenant listings.
type TenantListFilter struct {
	Page     int
	PageSize int
	Status   string
	PlanID   uint
	Search   string
	WithPlan bool
}

// PlanListFilter filters price plan listings.
type PlanListFilter struct {
	Page       int
	PageSize   int
	ActiveOnly bool
}

// StaffListFilter filters staff listings within a tenant scope.
type StaffListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Role     string
	Status   string
	Search   string
}

// ProductListFilter filters tenant product listings.
type ProductListFilter struct {
	Page         int
	PageSize     int
	TenantID     uint
	Status       string
	Search       string
	Tag          string
	OnlyActive   bool
	WithVariants bool
}

// OrderListFilter filters tenant order listings.
type OrderListFilter struct {
	Page        int
	PageSize    int
	TenantID    uint
	CustomerID  uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CustomerListFilter filters tenant customer listings.
type CustomerListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
	Search   string
}

// PageListFilter filters tenant CMS page listings.
type PageListFilter struct {
	Page          int
	PageSize      int
	TenantID      uint
	OnlyPublished bool
	Search        string
}

// FormSubmissionListFilter filters form submission listings.
type FormSubmissionListFilter struct {
	Page        int
	PageSize    int
	TenantID    uint
	FormID      uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TicketListFilter filters support ticket listings. A zero TenantID lists
// across all tenants (landlord view).
type TicketListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Status   string
}

// MediaListFilter filters media upload listings.
type MediaListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	MimeType string
}
