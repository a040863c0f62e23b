package constants

// Tenant status constants.
const (
	TenantStatusPending   = "pending"
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
)

// Product status constants.
const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product stock badge constants.
const (
	ProductStockStatusInStock    = "in_stock"
	ProductStockStatusLowStock   = "low_stock"
	ProductStockStatusOutOfStock = "out_of_stock"
)

// Staff role constants.
const (
	StaffRoleLandlord = "landlord"
	StaffRoleOwner    = "owner"
	StaffRoleManager  = "manager"
	StaffRoleSupport  = "support"
)

// Staff and customer account status constants.
const (
	AccountStatusActive   = "active"
	AccountStatusDisabled = "disabled"
)

// Support ticket status constants.
const (
	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"
)

// Ticket author type constants.
const (
	TicketAuthorTenant   = "tenant"
	TicketAuthorLandlord = "landlord"
)

// Page status constants.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Form field type constants.
const (
	FormFieldTypeText     = "text"
	FormFieldTypeTextarea = "textarea"
	FormFieldTypeEmail    = "email"
	FormFieldTypeNumber   = "number"
	FormFieldTypeSelect   = "select"
	FormFieldTypeCheckbox = "checkbox"
)

// Captcha scene constants.
const (
	CaptchaSceneCustomerLogin    = "customer_login"
	CaptchaSceneCustomerRegister = "customer_register"
)

// Queue and task name constants.
const (
	QueueDefault           = "default"
	QueueCritical          = "critical"
	TaskOrderStatusEmail   = "order:status_email"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskMediaPrune         = "media:prune"
)

// Cache defaults.
const (
	RedisPrefixDefault = "sf"
)

// Setting key constants.
const (
	SettingKeyPlatformConfig = "platform_config"
	SettingKeySMTPConfig     = "smtp_config"
	SettingFieldCurrency     = "currency"
)

// Currency defaults.
const (
	CurrencyDefault = "USD"
)

// Landlord rows use the zero tenant scope.
const (
	LandlordTenantID = 0
)

// Subdomain length limits per RFC 1035 labels.
const (
	SubdomainMinLength = 3
	SubdomainMaxLength = 63
)

// ReservedSubdomains are never assignable to tenants.
var ReservedSubdomains = []string{
	"www", "api", "admin", "app", "mail", "smtp", "ftp",
	"static", "assets", "cdn", "status", "help", "support",
	"billing", "dashboard", "landlord", "store", "storeflow",
}

// Theme codes shipped with the platform.
const (
	ThemeCodeClassic  = "classic"
	ThemeCodeMinimal  = "minimal"
	ThemeCodeBoutique = "boutique"
)
