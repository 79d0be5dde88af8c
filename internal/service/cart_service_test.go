package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.ShippingMethod{},
		&models.ProductShippingOverride{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	shippingSvc := NewShippingService(repository.NewShippingRepository(db), repository.NewUserRepository(db))
	svc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		shippingSvc,
	)
	return svc, db
}

func seedCartSeller(t *testing.T, db *gorm.DB, id uint, username string) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("cart_seller_%d@example.com", id),
		Username:     username,
		PasswordHash: "hash",
		Role:         constants.RoleSeller,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create seller failed: %v", err)
	}
}

func seedCartProduct(t *testing.T, db *gorm.DB, product *models.Product) {
	t.Helper()
	inactive := !product.IsActive
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	// gorm 对带 default:true 标签的零值 bool 会在插入时改用默认值，这里显式回写 false
	if inactive {
		if err := db.Model(product).UpdateColumn("is_active", false).Error; err != nil {
			t.Fatalf("set product inactive failed: %v", err)
		}
		product.IsActive = false
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "widget", Name: "Widget",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 5, IsActive: true,
	})

	cart, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart after first add: %+v", cart)
	}

	cart, err = svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 3})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("quantities should merge into one line: %+v", cart.Items)
	}
	if cart.TotalPrice.String() != "50.00" {
		t.Fatalf("total want 50.00 got %s", cart.TotalPrice)
	}

	// 合并后超出库存
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 1}); err != ErrInsufficientStock {
		t.Fatalf("merged quantity over stock want ErrInsufficientStock got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "hidden", Name: "Hidden",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 5, IsActive: false,
	})

	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 0}); err != ErrInvalidQuantity {
		t.Fatalf("zero quantity want ErrInvalidQuantity got %v", err)
	}
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 99, Quantity: 1}); err != ErrProductNotFound {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 1}); err != ErrProductNotAvailable {
		t.Fatalf("inactive product want ErrProductNotAvailable got %v", err)
	}
}

func TestAddItemVariantPricing(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	discount := models.NewMoneyFromString("8.00")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "tee", Name: "Tee",
		PriceAmount: models.NewMoneyFromString("10.00"), DiscountPrice: &discount,
		Stock: 0, IsActive: true,
	})
	variant := models.ProductVariant{
		ID: 10, ProductID: 1, Name: "XL", SKU: "TEE-XL",
		PriceAdjustment: models.NewMoneyFromString("2.50"), Stock: 3, IsActive: true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	variantID := uint(10)
	cart, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, VariantID: &variantID, Quantity: 2})
	if err != nil {
		t.Fatalf("add variant item failed: %v", err)
	}
	// 折扣价 8.00 + 加价 2.50
	if cart.Items[0].UnitPrice.String() != "10.50" {
		t.Fatalf("unit price want 10.50 got %s", cart.Items[0].UnitPrice)
	}
	if cart.TotalPrice.String() != "21.00" {
		t.Fatalf("total want 21.00 got %s", cart.TotalPrice)
	}

	// 有规格时按规格库存校验，商品库存为 0 不影响
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, VariantID: &variantID, Quantity: 2}); err != ErrInsufficientStock {
		t.Fatalf("variant stock exceeded want ErrInsufficientStock got %v", err)
	}

	missing := uint(99)
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, VariantID: &missing, Quantity: 1}); err != ErrVariantNotFound {
		t.Fatalf("missing variant want ErrVariantNotFound got %v", err)
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "mug", Name: "Mug",
		PriceAmount: models.NewMoneyFromString("5.00"), Stock: 10, IsActive: true,
	})

	cart, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateItem(100, itemID, 4)
	if err != nil {
		t.Fatalf("update item failed: %v", err)
	}
	if cart.Items[0].Quantity != 4 {
		t.Fatalf("quantity want 4 got %d", cart.Items[0].Quantity)
	}

	if _, err := svc.UpdateItem(100, itemID, 11); err != ErrInsufficientStock {
		t.Fatalf("update over stock want ErrInsufficientStock got %v", err)
	}
	if _, err := svc.UpdateItem(100, 9999, 1); err != ErrCartItemNotFound {
		t.Fatalf("missing item want ErrCartItemNotFound got %v", err)
	}
	// 其他用户的购物车里找不到该项
	if _, err := svc.UpdateItem(200, itemID, 1); err != ErrCartItemNotFound {
		t.Fatalf("cross-user item want ErrCartItemNotFound got %v", err)
	}

	cart, err = svc.RemoveItem(100, itemID)
	if err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart should be empty, got %+v", cart.Items)
	}
}

func TestClearCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "pen", Name: "Pen",
		PriceAmount: models.NewMoneyFromString("2.00"), Stock: 10, IsActive: true,
	})

	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 3}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.Clear(100); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cart, err := svc.GetCart(100)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Fatalf("cart should be empty after clear: %+v", cart)
	}
}

func TestShippingPreview(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	seedCartSeller(t, db, 1, "alice")
	seedCartSeller(t, db, 2, "bob")
	seedCartProduct(t, db, &models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("30.00"), Stock: 10, IsActive: true,
	})
	seedCartProduct(t, db, &models.Product{
		ID: 2, SellerID: 2, CategoryID: 1, Slug: "desk", Name: "Desk",
		PriceAmount: models.NewMoneyFromString("120.00"), Stock: 10, IsActive: true,
	})
	method := models.ShippingMethod{
		SellerID:       1,
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("6.00"),
		IsActive:       true,
	}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create method failed: %v", err)
	}

	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 1, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.AddItem(100, AddCartItemInput{ProductID: 2, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	preview, err := svc.ShippingPreview(100)
	if err != nil {
		t.Fatalf("shipping preview failed: %v", err)
	}
	if len(preview.Breakdown) != 2 {
		t.Fatalf("expected 2 seller breakdowns, got %d", len(preview.Breakdown))
	}
	if preview.TotalShipping.String() != "6.00" {
		t.Fatalf("total shipping want 6.00 got %s", preview.TotalShipping)
	}
	if preview.GrandTotal.String() != "156.00" {
		t.Fatalf("grand total want 156.00 got %s", preview.GrandTotal)
	}
}

func TestShippingPreviewEmptyCart(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	preview, err := svc.ShippingPreview(100)
	if err != nil {
		t.Fatalf("empty cart preview failed: %v", err)
	}
	if len(preview.Breakdown) != 0 || preview.TotalShipping.String() != "0.00" {
		t.Fatalf("empty cart preview should be zero: %+v", preview)
	}
}
