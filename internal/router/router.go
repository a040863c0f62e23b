package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storeflow/storeflow/internal/authz"
	"github.com/storeflow/storeflow/internal/cache"
	"github.com/storeflow/storeflow/internal/config"
	adminhandlers "github.com/storeflow/storeflow/internal/http/handlers/admin"
	publichandlers "github.com/storeflow/storeflow/internal/http/handlers/public"
	"github.com/storeflow/storeflow/internal/http/response"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter builds the HTTP engine with the admin and storefront route
// trees.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	redisClient := cache.Client()
	customerLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:customer_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	staffLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:staff_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	if cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	apiV1 := r.Group("/api/v1")
	{
		// Storefront routes. Every request targets one store.
		store := apiV1.Group("/store")
		store.Use(StorefrontTenantMiddleware(c.TenantService))
		{
			store.GET("/theme", publicHandler.GetTheme)
			store.GET("/products", publicHandler.GetProducts)
			store.GET("/products/:slug", publicHandler.GetProductBySlug)
			store.GET("/pages", publicHandler.GetPages)
			store.GET("/pages/:slug", publicHandler.GetPageBySlug)
			store.GET("/captcha/image", publicHandler.GetCaptcha)
			store.POST("/forms/:slug/submissions", publicHandler.SubmitForm)

			auth := store.Group("/auth")
			{
				auth.POST("/register", RateLimitMiddleware(redisClient, customerLoginRule, KeyByIP), publicHandler.Register)
				auth.POST("/login", RateLimitMiddleware(redisClient, customerLoginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
				auth.POST("/logout", publicHandler.Logout)
			}

			customer := store.Group("")
			customer.Use(CustomerSessionMiddleware(c.CustomerAuthService, customerSessionCookieName(cfg)))
			{
				customer.GET("/me", publicHandler.Me)
				customer.PUT("/me/password", publicHandler.ChangePassword)
				customer.POST("/orders", publicHandler.CreateOrder)
				customer.GET("/orders", publicHandler.ListOrders)
				customer.GET("/orders/:id", publicHandler.GetOrder)
				customer.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			}
		}

		// Admin routes, shared by the landlord and tenant staff. The
		// tenant scope comes from the JWT claims.
		admin := apiV1.Group("/admin")
		{
			admin.POST("/auth/login", RateLimitMiddleware(redisClient, staffLoginRule, KeyByIPAndJSONField("email")), adminHandler.Login)

			// Self-service endpoints are open to any authenticated staff.
			self := admin.Group("")
			self.Use(StaffJWTAuthMiddleware(c.StaffAuthService))
			{
				self.GET("/auth/me", adminHandler.Me)
				self.PUT("/auth/password", adminHandler.ChangePassword)
			}

			authorized := admin.Group("")
			authorized.Use(StaffJWTAuthMiddleware(c.StaffAuthService), StaffRBACMiddleware(c.AuthzService))
			{
				// Landlord dashboard
				authorized.GET("/dashboard/overview", adminHandler.DashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.DashboardOrderTrends)
				authorized.GET("/dashboard/plan-distribution", adminHandler.DashboardPlanDistribution)
				authorized.GET("/dashboard/top-tenants", adminHandler.DashboardTopTenants)

				// Tenant lifecycle (landlord)
				authorized.GET("/tenants", adminHandler.ListTenants)
				authorized.GET("/tenants/:id", adminHandler.GetTenant)
				authorized.POST("/tenants", adminHandler.CreateTenant)
				authorized.PUT("/tenants/:id", adminHandler.UpdateTenant)
				authorized.POST("/tenants/:id/suspend", adminHandler.SuspendTenant)
				authorized.POST("/tenants/:id/activate", adminHandler.ActivateTenant)

				// Price plans (landlord)
				authorized.GET("/plans", adminHandler.ListPlans)
				authorized.GET("/plans/:id", adminHandler.GetPlan)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)
				authorized.DELETE("/plans/:id", adminHandler.DeletePlan)

				// Staff accounts
				authorized.GET("/staff", adminHandler.ListStaff)
				authorized.GET("/staff/:id", adminHandler.GetStaff)
				authorized.POST("/staff", adminHandler.CreateStaff)
				authorized.PUT("/staff/:id", adminHandler.UpdateStaff)
				authorized.DELETE("/staff/:id", adminHandler.DeleteStaff)

				// Catalog
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/variants", adminHandler.CreateVariant)
				authorized.PUT("/products/:id/variants/:variantId", adminHandler.UpdateVariant)
				authorized.DELETE("/products/:id/variants/:variantId", adminHandler.DeleteVariant)

				// Attributes
				authorized.GET("/attributes", adminHandler.ListAttributes)
				authorized.GET("/attributes/:id", adminHandler.GetAttribute)
				authorized.POST("/attributes", adminHandler.CreateAttribute)
				authorized.PUT("/attributes/:id", adminHandler.UpdateAttribute)
				authorized.DELETE("/attributes/:id", adminHandler.DeleteAttribute)
				authorized.POST("/attributes/:id/values", adminHandler.AddAttributeValue)
				authorized.DELETE("/attributes/values/:valueId", adminHandler.RemoveAttributeValue)

				// Orders
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

				// Customers
				authorized.GET("/customers", adminHandler.ListCustomers)
				authorized.GET("/customers/:id", adminHandler.GetCustomer)
				authorized.PATCH("/customers/:id", adminHandler.UpdateCustomerStatus)

				// CMS pages
				authorized.GET("/pages", adminHandler.ListPages)
				authorized.GET("/pages/:id", adminHandler.GetPage)
				authorized.POST("/pages", adminHandler.CreatePage)
				authorized.PUT("/pages/:id", adminHandler.UpdatePage)
				authorized.DELETE("/pages/:id", adminHandler.DeletePage)

				// Forms
				authorized.GET("/forms", adminHandler.ListForms)
				authorized.GET("/forms/:id", adminHandler.GetForm)
				authorized.POST("/forms", adminHandler.CreateForm)
				authorized.PUT("/forms/:id", adminHandler.UpdateForm)
				authorized.DELETE("/forms/:id", adminHandler.DeleteForm)
				authorized.GET("/forms/:id/submissions", adminHandler.ListFormSubmissions)

				// Theme catalog and the tenant's theme selection
				authorized.GET("/themes", adminHandler.ListThemes)
				authorized.GET("/themes/:id", adminHandler.GetCatalogTheme)
				authorized.POST("/themes", adminHandler.CreateCatalogTheme)
				authorized.PUT("/themes/:id", adminHandler.UpdateCatalogTheme)
				authorized.DELETE("/themes/:id", adminHandler.DeleteCatalogTheme)
				authorized.GET("/theme", adminHandler.GetTenantTheme)
				authorized.PUT("/theme", adminHandler.SelectTenantTheme)
				authorized.PATCH("/theme/overrides", adminHandler.UpdateTenantThemeOverrides)
				authorized.GET("/theme/preview", adminHandler.PreviewTenantTheme)

				// Media library
				authorized.GET("/media", adminHandler.ListMedia)
				authorized.POST("/media", adminHandler.UploadMedia)
				authorized.DELETE("/media/:id", adminHandler.DeleteMedia)

				// Support tickets
				authorized.GET("/tickets", adminHandler.ListTickets)
				authorized.GET("/tickets/:id", adminHandler.GetTicket)
				authorized.POST("/tickets", adminHandler.OpenTicket)
				authorized.POST("/tickets/:id/reply", adminHandler.ReplyTicket)
				authorized.POST("/tickets/:id/close", adminHandler.CloseTicket)
				authorized.POST("/tickets/:id/reopen", adminHandler.ReopenTicket)

				// Platform settings (landlord)
				authorized.GET("/settings/platform", adminHandler.GetPlatformConfig)
				authorized.PUT("/settings/platform", adminHandler.UpdatePlatformConfig)
				authorized.GET("/settings/smtp", adminHandler.GetSMTPSetting)
				authorized.PATCH("/settings/smtp", adminHandler.PatchSMTPSetting)
				authorized.POST("/settings/smtp/test", adminHandler.SendSMTPTestEmail)

				// Permission catalog for role management UIs
				authorized.GET("/rbac/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildStaffPermissionCatalog(r))
				})
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func customerSessionCookieName(cfg *config.Config) string {
	if cfg != nil && strings.TrimSpace(cfg.CustomerSession.CookieName) != "" {
		return strings.TrimSpace(cfg.CustomerSession.CookieName)
	}
	return publichandlers.SessionCookieName
}

type staffPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildStaffPermissionCatalog(engine *gin.Engine) []staffPermissionCatalogItem {
	if engine == nil {
		return []staffPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]staffPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/auth/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, staffPermissionCatalogItem{
			Module:     deriveStaffPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveStaffPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
