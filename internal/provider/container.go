package provider

import (
	"time"

	"github.com/bazaar-next/internal/authz"
	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.ProductVariantRepository
	ReviewRepo   repository.ReviewRepository
	QuestionRepo repository.QuestionRepository
	CartRepo     repository.CartRepository
	ShippingRepo repository.ShippingRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	UserAdminService *service.UserAdminService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	CategoryService  *service.CategoryService
	ProductService   *service.ProductService
	ReviewService    *service.ReviewService
	QnaService       *service.QnaService
	CartService      *service.CartService
	ShippingService  *service.ShippingService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.QuestionRepo = repository.NewQuestionRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.ShippingRepo = repository.NewShippingRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
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

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.CategoryRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.QnaService = service.NewQnaService(c.QuestionRepo, c.ProductRepo)
	c.ShippingService = service.NewShippingService(c.ShippingRepo, c.UserRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.VariantRepo, c.ShippingService)
	pendingTimeout := time.Duration(c.Config.Order.PendingTimeoutMinutes) * time.Minute
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.ProductRepo,
		c.VariantRepo,
		c.PaymentRepo,
		c.ShippingService,
		c.QueueClient,
		pendingTimeout,
	)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo)
}
