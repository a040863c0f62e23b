package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/authz"
	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// StoreHeader carries the storefront subdomain when the request does not
// arrive on the tenant's own host.
const StoreHeader = "X-Store"

// CORSMiddleware handles cross-origin requests per config.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			StoreHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware tags every request with an ID, honoring an inbound
// X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware emits one structured log line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// StaffJWTAuthMiddleware authenticates staff tokens. Claims are checked
// against the account so rotated or revoked tokens stop working at once.
func StaffJWTAuthMiddleware(authService *service.StaffAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authorization header missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Unauthorized(c, "authorization header invalid")
			c.Abort()
			return
		}

		claims, err := authService.ParseJWT(parts[1])
		if err != nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}

		staff, err := authService.CheckClaims(claims)
		if err != nil {
			if errors.Is(err, service.ErrAccountDisabled) {
				response.Unauthorized(c, "account disabled")
			} else {
				response.Unauthorized(c, "token revoked")
			}
			c.Abort()
			return
		}

		c.Set("staff_id", staff.ID)
		c.Set("tenant_id", staff.TenantID)
		c.Set("staff_role", staff.Role)
		c.Next()
	}
}

// StaffRBACMiddleware enforces the role policies on admin routes. The
// landlord role carries a wildcard policy, so no separate bypass exists.
func StaffRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("staff_rbac_service_unavailable")
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		staffIDRaw, exists := c.Get("staff_id")
		if !exists {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		staffID, _ := staffIDRaw.(uint)
		if staffID == 0 {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceStaff(staffID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("staff_rbac_enforce_failed",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("staff_rbac_permission_denied",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, "permission denied")
			c.Abort()
			return
		}

		c.Next()
	}
}

// StorefrontTenantMiddleware resolves the store a request targets. The
// subdomain comes from the X-Store header or the store query parameter.
func StorefrontTenantMiddleware(tenantService *service.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		subdomain := strings.TrimSpace(c.GetHeader(StoreHeader))
		if subdomain == "" {
			subdomain = strings.TrimSpace(c.Query("store"))
		}
		if subdomain == "" {
			response.BadRequest(c, "store not specified")
			c.Abort()
			return
		}

		tenant, err := tenantService.ResolveActiveBySubdomain(subdomain)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTenantNotFound):
				response.NotFound(c, "store not found")
			case errors.Is(err, service.ErrTenantSuspended), errors.Is(err, service.ErrTenantNotActive):
				response.Forbidden(c, "store unavailable")
			default:
				logger.Errorw("storefront_tenant_resolve_failed", "subdomain", subdomain, "error", err)
				response.Error(c, response.CodeInternal, "store resolution failed")
			}
			c.Abort()
			return
		}

		c.Set("tenant_id", tenant.ID)
		c.Next()
	}
}

// CustomerSessionMiddleware authenticates the storefront session cookie.
// It requires the tenant to be resolved first.
func CustomerSessionMiddleware(authService *service.CustomerAuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantIDRaw, exists := c.Get("tenant_id")
		if !exists {
			response.Unauthorized(c, "login required")
			c.Abort()
			return
		}
		tenantID, _ := tenantIDRaw.(uint)

		token, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "login required")
			c.Abort()
			return
		}

		customer, err := authService.Authenticate(tenantID, token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				response.Unauthorized(c, "session expired")
			} else {
				logger.Errorw("customer_session_auth_failed", "tenant_id", tenantID, "error", err)
				response.Unauthorized(c, "login required")
			}
			c.Abort()
			return
		}

		c.Set("customer_id", customer.ID)
		c.Next()
	}
}
