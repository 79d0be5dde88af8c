package main

import (
	"github.com/bazaar-next/internal/authz"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化权限模型与内置角色
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap builtin roles: %v", err)
	}

	// 演示账号
	users := []models.User{
		{Email: "admin@example.com", Username: "admin", Role: constants.RoleAdmin, IsStaff: true},
		{Email: "seller@example.com", Username: "demo-seller", Role: constants.RoleSeller},
		{Email: "buyer@example.com", Username: "demo-buyer", Role: constants.RoleCustomer},
	}
	userIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			userIDs[u.Role] = existing.ID
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash password: %v", err)
		}
		u.PasswordHash = string(hash)
		if err := models.DB.Create(&u).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
			continue
		}
		userIDs[u.Role] = u.ID
		stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
	}
	for role, id := range userIDs {
		if err := authzService.SyncUserRole(id, role); err != nil {
			stdLog.Printf("Failed to sync role for user %d: %v", id, err)
		}
	}
	sellerID := userIDs[constants.RoleSeller]

	// 分类
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", SortOrder: 1},
		{Name: "Lifestyle", Slug: "lifestyle", SortOrder: 2},
		{Name: "Accessories", Slug: "accessories", SortOrder: 3},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		categoryIDs[cat.Slug] = cat.ID
		stdLog.Printf("Created category: %s", cat.Slug)
	}

	// 卖家运费设置：满 99 包邮，否则固定 10 元
	if sellerID > 0 {
		var method models.ShippingMethod
		if err := models.DB.Where("seller_id = ?", sellerID).First(&method).Error; err != nil {
			method = models.ShippingMethod{
				SellerID:              sellerID,
				ShippingType:          constants.ShippingTypeFlatRate,
				FlatRateAmount:        models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
				FreeShippingThreshold: models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
				IsActive:              true,
			}
			if err := models.DB.Create(&method).Error; err != nil {
				stdLog.Printf("Failed to create shipping method: %v", err)
			} else {
				stdLog.Printf("Created shipping method for seller %d", sellerID)
			}
		}
	}

	// 商品与规格
	discount := models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00))
	products := []models.Product{
		{
			SellerID:    sellerID,
			CategoryID:  categoryIDs["electronics"],
			Slug:        "wireless-earphones",
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality audio, long battery life, comfortable fit.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(159.00)),
			DiscountPrice: &discount,
			Stock:       100,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			SellerID:    sellerID,
			CategoryID:  categoryIDs["lifestyle"],
			Slug:        "thermos-bottle",
			Name:        "Vacuum Thermos Bottle",
			Description: "Keeps drinks hot for 12 hours.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(49.00)),
			Stock:       200,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			SellerID:    sellerID,
			CategoryID:  categoryIDs["accessories"],
			Slug:        "usb-c-cable",
			Name:        "USB-C Charging Cable",
			Description: "1m braided cable, fast charging.",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.00)),
			Stock:       500,
			IsActive:    true,
			SortOrder:   3,
		},
	}
	productIDs := map[string]uint{}
	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", p.Slug)
			productIDs[p.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(&p).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
			continue
		}
		productIDs[p.Slug] = p.ID
		stdLog.Printf("Created product: %s", p.Slug)
	}

	variants := []models.ProductVariant{
		{
			ProductID:       productIDs["wireless-earphones"],
			Name:            "Black",
			SKU:             "WE-BLK",
			PriceAdjustment: models.NewMoneyFromDecimal(decimal.Zero),
			Stock:           60,
			Options:         models.JSON{"color": "black"},
			IsActive:        true,
		},
		{
			ProductID:       productIDs["wireless-earphones"],
			Name:            "White",
			SKU:             "WE-WHT",
			PriceAdjustment: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Stock:           40,
			Options:         models.JSON{"color": "white"},
			IsActive:        true,
		},
	}
	for _, v := range variants {
		if v.ProductID == 0 {
			continue
		}
		var existing models.ProductVariant
		if err := models.DB.Where("sku = ?", v.SKU).First(&existing).Error; err == nil {
			stdLog.Printf("Variant already exists: %s", v.SKU)
			continue
		}
		if err := models.DB.Create(&v).Error; err != nil {
			stdLog.Printf("Failed to create variant %s: %v", v.SKU, err)
			continue
		}
		stdLog.Printf("Created variant: %s", v.SKU)
	}

	stdLog.Printf("Seed completed")
}
