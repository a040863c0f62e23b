package provider

import (
	"time"

	"github.com/storeflow/storeflow/internal/authz"
	"github.com/storeflow/storeflow/internal/cache"
	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/queue"
	"github.com/storeflow/storeflow/internal/repository"
	"github.com/storeflow/storeflow/internal/service"
)

const themePayloadCacheTTL = 60 * time.Second

// Container wires repositories and services for the HTTP and worker
// processes.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	TenantRepo    repository.TenantRepository
	PlanRepo      repository.PlanRepository
	StaffRepo     repository.StaffRepository
	ProductRepo   repository.ProductRepository
	VariantRepo   repository.VariantRepository
	AttributeRepo repository.AttributeRepository
	OrderRepo     repository.OrderRepository
	CustomerRepo  repository.CustomerRepository
	SessionRepo   repository.SessionRepository
	PageRepo      repository.PageRepository
	FormRepo      repository.FormRepository
	TicketRepo    repository.TicketRepository
	MediaRepo     repository.MediaRepository
	ThemeRepo     repository.ThemeRepository
	SettingRepo   repository.SettingRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	StaffAuthService    *service.StaffAuthService
	CustomerAuthService *service.CustomerAuthService
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	TenantService       *service.TenantService
	PlanService         *service.PlanService
	StaffService        *service.StaffService
	ProductService      *service.ProductService
	AttributeService    *service.AttributeService
	OrderService        *service.OrderService
	PageService         *service.PageService
	FormService         *service.FormService
	TicketService       *service.TicketService
	MediaService        *service.MediaService
	ThemeService        *service.ThemeService
	SettingService      *service.SettingService
	DashboardService    *service.DashboardService
}

// NewContainer initializes the dependency container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.TenantRepo = repository.NewTenantRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.StaffRepo = repository.NewStaffRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.AttributeRepo = repository.NewAttributeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
	c.PageRepo = repository.NewPageRepository(db)
	c.FormRepo = repository.NewFormRepository(db)
	c.TicketRepo = repository.NewTicketRepository(db)
	c.MediaRepo = repository.NewMediaRepository(db)
	c.ThemeRepo = repository.NewThemeRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.syncStaffRoleBindings()

	c.SettingService = service.NewSettingService(c.SettingRepo)
	smtpSetting, err := c.SettingService.GetSMTPSetting(c.Config.Email)
	if err != nil {
		logger.Warnw("provider_load_smtp_setting_failed", "error", err)
	} else {
		c.Config.Email = service.SMTPSettingToConfig(smtpSetting)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.StaffAuthService = service.NewStaffAuthService(c.Config, c.StaffRepo)
	c.CustomerAuthService = service.NewCustomerAuthService(c.Config, c.CustomerRepo, c.SessionRepo, c.CaptchaService)
	c.TenantService = service.NewTenantService(c.TenantRepo, c.PlanRepo, c.StaffRepo, c.StaffAuthService, c.AuthzService)
	c.PlanService = service.NewPlanService(c.PlanRepo)
	c.StaffService = service.NewStaffService(c.StaffRepo, c.TenantRepo, c.StaffAuthService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.TenantRepo)
	c.AttributeService = service.NewAttributeService(c.AttributeRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.ProductRepo, c.VariantRepo, c.CustomerRepo, c.QueueClient)
	c.PageService = service.NewPageService(c.PageRepo)
	c.FormService = service.NewFormService(c.FormRepo)
	c.TicketService = service.NewTicketService(c.TicketRepo)
	c.MediaService = service.NewMediaService(&c.Config.Upload, c.MediaRepo, c.TenantRepo)
	c.ThemeService = service.NewThemeService(c.ThemeRepo, cache.NewTTLCache(themePayloadCacheTTL))
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.SettingService)
}

// syncStaffRoleBindings grants every active staff row its stored role when
// the casbin grouping is missing. Covers accounts created before the
// enforcer existed, such as the seeded landlord on a fresh install.
func (c *Container) syncStaffRoleBindings() {
	bindings, err := c.StaffRepo.ListRoleBindings()
	if err != nil {
		logger.Errorw("provider_list_staff_role_bindings_failed", "error", err)
		return
	}
	for _, staff := range bindings {
		if staff.Role == "" {
			continue
		}
		if err := c.AuthzService.EnsureStaffRole(staff.ID, staff.Role); err != nil {
			logger.Errorw("provider_sync_staff_role_failed",
				"staff_id", staff.ID,
				"role", staff.Role,
				"error", err,
			)
		}
	}
}
