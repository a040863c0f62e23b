package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrTenantNotFound    = errors.New("tenant not found")
	ErrTenantSuspended   = errors.New("tenant suspended")
	ErrTenantNotActive   = errors.New("tenant not active")
	ErrSubdomainTaken    = errors.New("subdomain already taken")
	ErrSubdomainInvalid  = errors.New("subdomain invalid")
	ErrSubdomainReserved = errors.New("subdomain reserved")

	ErrPlanNotFound     = errors.New("price plan not found")
	ErrPlanCodeTaken    = errors.New("price plan code already taken")
	ErrPlanInUse        = errors.New("price plan still assigned to tenants")
	ErrPlanLimitReached = errors.New("plan limit reached")

	ErrStaffNotFound = errors.New("staff member not found")
	ErrStaffExists   = errors.New("staff email already registered")

	ErrProductNotFound    = errors.New("product not found")
	ErrSlugTaken          = errors.New("slug already taken")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrVariantRequired    = errors.New("variant selection required")
	ErrSKUTaken           = errors.New("sku already taken")
	ErrAttributeNotFound  = errors.New("attribute not found")
	ErrAttributeCodeTaken = errors.New("attribute code already taken")
	ErrInsufficientStock  = errors.New("insufficient stock")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyOrder        = errors.New("order has no items")

	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("customer email already registered")
	ErrSessionExpired   = errors.New("session expired")

	ErrThemeNotFound  = errors.New("theme not found")
	ErrThemeCodeTaken = errors.New("theme code already taken")
	ErrThemeNotActive = errors.New("theme not active")

	ErrPageNotFound = errors.New("page not found")

	ErrFormNotFound      = errors.New("form not found")
	ErrFormValidation    = errors.New("form submission invalid")
	ErrFormSchemaInvalid = errors.New("form schema invalid")

	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket closed")

	ErrMediaNotFound     = errors.New("media upload not found")
	ErrUploadTooLarge    = errors.New("upload exceeds size limit")
	ErrUploadTypeInvalid = errors.New("upload type not allowed")

	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrSMTPConfigInvalid         = errors.New("smtp config invalid")
)
