package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bazaar-next/internal/authz"
	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	adminhandlers "github.com/bazaar-next/internal/http/handlers/admin"
	publichandlers "github.com/bazaar-next/internal/http/handlers/public"
	sellerhandlers "github.com/bazaar-next/internal/http/handlers/seller"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按买家/卖家/管理端分组）
	publicHandler := publichandlers.New(c)
	sellerHandler := sellerhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（商品图片）
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/categories/:id", publicHandler.GetCategory)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/products/:id/reviews", publicHandler.GetProductReviews)
			public.GET("/products/:id/questions", publicHandler.GetProductQuestions)
			public.GET("/product-by-slug/:slug", publicHandler.GetProductBySlug)
			public.GET("/category-by-slug/:slug", publicHandler.GetCategoryBySlug)
			public.POST("/shipping-quote", publicHandler.GetShippingQuote)
			public.GET("/captcha/config", publicHandler.GetCaptchaConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 买家接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UserUpdateProfile)
			user.PUT("/me/password", publicHandler.UserChangePassword)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:item_id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:item_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.GET("/cart/shipping-preview", publicHandler.GetCartShippingPreview)

			user.POST("/orders", publicHandler.CheckoutOrder)
			user.GET("/orders", publicHandler.GetMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
			user.GET("/order-by-no/:order_no", publicHandler.GetMyOrderByNo)
			user.POST("/orders/:id/cancel", publicHandler.CancelMyOrder)
			user.GET("/orders/:id/history", publicHandler.GetMyOrderHistory)
			user.GET("/orders/:id/payment", publicHandler.GetOrderPayment)
			user.POST("/payments", publicHandler.CreatePayment)

			user.POST("/products/:id/reviews", publicHandler.CreateProductReview)
			user.DELETE("/products/:id/reviews", publicHandler.DeleteProductReview)
			user.POST("/products/:id/questions", publicHandler.CreateProductQuestion)
		}

		// 卖家接口（需鉴权 + RBAC）
		seller := apiV1.Group("/seller")
		seller.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			seller.GET("/products", sellerHandler.GetMyProducts)
			seller.GET("/products/:id", sellerHandler.GetMyProduct)
			seller.POST("/products", sellerHandler.CreateProduct)
			seller.PUT("/products/:id", sellerHandler.UpdateProduct)
			seller.DELETE("/products/:id", sellerHandler.DeleteProduct)
			seller.POST("/products/:id/variants", sellerHandler.CreateProductVariant)
			seller.PUT("/products/:id/variants/:variant_id", sellerHandler.UpdateProductVariant)
			seller.DELETE("/products/:id/variants/:variant_id", sellerHandler.DeleteProductVariant)

			seller.GET("/shipping-method", sellerHandler.GetShippingMethod)
			seller.PUT("/shipping-method", sellerHandler.UpdateShippingMethod)
			seller.GET("/products/:id/shipping-override", sellerHandler.GetProductShippingOverride)
			seller.PUT("/products/:id/shipping-override", sellerHandler.SaveProductShippingOverride)
			seller.DELETE("/products/:id/shipping-override", sellerHandler.DeleteProductShippingOverride)

			seller.GET("/orders", sellerHandler.GetSellerOrders)
			seller.GET("/orders/:id", sellerHandler.GetSellerOrder)
			seller.PATCH("/orders/:id", sellerHandler.UpdateSellerOrderStatus)
			seller.GET("/orders/:id/history", sellerHandler.GetSellerOrderHistory)
			seller.GET("/analytics", sellerHandler.GetSellerAnalytics)
			seller.GET("/orders-export", sellerHandler.ExportSellerOrders)

			seller.GET("/products/:id/questions", sellerHandler.GetProductQuestions)
			seller.POST("/questions/:question_id/answers", sellerHandler.AnswerQuestion)
		}

		// 管理员接口（需鉴权 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			admin.GET("/users", adminHandler.GetAdminUsers)
			admin.GET("/users/:id", adminHandler.GetAdminUser)
			admin.PUT("/users/:id/role", adminHandler.UpdateAdminUserRole)
			admin.PUT("/users/:id/status", adminHandler.UpdateAdminUserStatus)

			admin.GET("/categories", adminHandler.GetAdminCategories)
			admin.POST("/categories", adminHandler.CreateAdminCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateAdminCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteAdminCategory)

			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.GET("/orders/:id", adminHandler.GetAdminOrder)
			admin.PATCH("/orders/:id", adminHandler.UpdateAdminOrderStatus)
			admin.GET("/orders/:id/history", adminHandler.GetAdminOrderHistory)
			admin.GET("/analytics", adminHandler.GetAdminAnalytics)
			admin.GET("/orders-export", adminHandler.ExportAdminOrders)

			admin.GET("/payments", adminHandler.GetAdminPayments)
			admin.POST("/smtp/test", adminHandler.TestSMTPSettings)

			admin.GET("/payments/:id/refunds", adminHandler.GetAdminPaymentRefunds)
			admin.POST("/payments/:id/refund", adminHandler.RefundAdminPayment)

			admin.GET("/questions", adminHandler.GetAdminQuestions)
			admin.PUT("/questions/:id/approve", adminHandler.ApproveAdminQuestion)
			admin.DELETE("/questions/:id", adminHandler.DeleteAdminQuestion)
			admin.PUT("/answers/:id/approve", adminHandler.ApproveAdminAnswer)
			admin.DELETE("/answers/:id", adminHandler.DeleteAdminAnswer)
			admin.DELETE("/products/:id/reviews/:user_id", adminHandler.DeleteAdminReview)

			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 扫描受 RBAC 保护的路由，生成权限点清单。
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") && !strings.HasPrefix(item.Path, "/api/v1/seller/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
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

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	return segments[0] + ":" + segments[1]
}
