package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Payment{},
		&models.Refund{},
		&models.ShippingMethod{},
		&models.ProductShippingOverride{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	shippingSvc := NewShippingService(repository.NewShippingRepository(db), repository.NewUserRepository(db))
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewPaymentRepository(db),
		shippingSvc,
		nil,
		0,
	)
	return svc, db
}

func seedOrderUser(t *testing.T, db *gorm.DB, id uint, role string) *models.User {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("order_user_%d@example.com", id),
		Username:     fmt.Sprintf("user%d", id),
		PasswordHash: "hash",
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func seedOrderCart(t *testing.T, db *gorm.DB, userID uint, items ...models.CartItem) {
	t.Helper()
	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	for i := range items {
		items[i].CartID = cart.ID
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create cart item failed: %v", err)
		}
	}
}

func TestCheckout(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)

	weight := decimal.RequireFromString("1.25")
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 5, Weight: &weight, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	method := models.ShippingMethod{
		SellerID:       1,
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("6.00"),
		IsActive:       true,
	}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create shipping method failed: %v", err)
	}
	seedOrderCart(t, db, buyer.ID, models.CartItem{ProductID: 1, Quantity: 2})

	order, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: constants.PaymentMethodCreditCard})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unexpected initial statuses: %s / %s", order.Status, order.PaymentStatus)
	}
	if order.Subtotal.String() != "20.00" || order.ShippingCost.String() != "6.00" || order.TotalAmount.String() != "26.00" {
		t.Fatalf("unexpected totals: %s + %s = %s", order.Subtotal, order.ShippingCost, order.TotalAmount)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.ProductName != "Lamp" || item.UnitPrice.String() != "10.00" || item.SellerID != 1 {
		t.Fatalf("order item should freeze product fields: %+v", item)
	}
	if item.ProductWeight == nil || !item.ProductWeight.Equal(weight) {
		t.Fatalf("order item should freeze product weight: %+v", item.ProductWeight)
	}
	// 账单地址缺省取收货地址，支付方式随单冻结
	if order.BillingAddress != "1 Main St" || order.PaymentMethod != constants.PaymentMethodCreditCard {
		t.Fatalf("billing/payment fields not frozen: %q / %q", order.BillingAddress, order.PaymentMethod)
	}
	if len(order.History) != 1 || order.History[0].Status != constants.OrderStatusPending {
		t.Fatalf("expected single pending history entry: %+v", order.History)
	}

	// 库存扣减
	var got models.Product
	if err := db.First(&got, 1).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("stock want 3 got %d", got.Stock)
	}

	// 购物车清空
	var itemCount int64
	if err := db.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("cart should be cleared, %d items left", itemCount)
	}
}

func TestCheckoutDiscountedPricing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)

	discount := models.NewMoneyFromString("7.00")
	products := []models.Product{
		{
			ID: 1, SellerID: 1, CategoryID: 1, Slug: "mug", Name: "Mug",
			PriceAmount: models.NewMoneyFromString("10.00"), Stock: 5, IsActive: true,
		},
		{
			ID: 2, SellerID: 1, CategoryID: 1, Slug: "bowl", Name: "Bowl",
			PriceAmount:   models.NewMoneyFromString("12.00"),
			DiscountPrice: &discount,
			Stock:         10, IsActive: true,
		},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	method := models.ShippingMethod{
		SellerID:       1,
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("5.00"),
		IsActive:       true,
	}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create shipping method failed: %v", err)
	}
	seedOrderCart(t, db, buyer.ID,
		models.CartItem{ProductID: 1, Quantity: 2},
		models.CartItem{ProductID: 2, Quantity: 1},
	)

	order, err := svc.Checkout(buyer.ID, CheckoutInput{
		ShippingAddress: "1 Main St",
		BillingAddress:  "9 Billing Rd",
		PaymentMethod:   constants.PaymentMethodPaypal,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.BillingAddress != "9 Billing Rd" || order.PaymentMethod != constants.PaymentMethodPaypal {
		t.Fatalf("billing/payment fields not frozen: %q / %q", order.BillingAddress, order.PaymentMethod)
	}
	// 2×10.00 + 1×7.00（折扣价生效）
	if order.Subtotal.String() != "27.00" || order.ShippingCost.String() != "5.00" || order.TotalAmount.String() != "32.00" {
		t.Fatalf("unexpected totals: %s + %s = %s", order.Subtotal, order.ShippingCost, order.TotalAmount)
	}
	for _, item := range order.Items {
		switch item.ProductID {
		case 1:
			if item.UnitPrice.String() != "10.00" {
				t.Fatalf("full-price item unit price want 10.00 got %s", item.UnitPrice)
			}
		case 2:
			if item.UnitPrice.String() != "7.00" {
				t.Fatalf("discounted item unit price want 7.00 got %s", item.UnitPrice)
			}
		}
	}

	var gotA, gotB models.Product
	if err := db.First(&gotA, 1).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if err := db.First(&gotB, 2).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if gotA.Stock != 3 || gotB.Stock != 9 {
		t.Fatalf("stock want 3/9 got %d/%d", gotA.Stock, gotB.Stock)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)

	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "   ", PaymentMethod: constants.PaymentMethodCreditCard}); err != ErrShippingAddressEmpty {
		t.Fatalf("blank address want ErrShippingAddressEmpty got %v", err)
	}
	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: constants.PaymentMethodCreditCard}); err != ErrCartEmpty {
		t.Fatalf("no cart want ErrCartEmpty got %v", err)
	}
	seedOrderCart(t, db, buyer.ID)
	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: constants.PaymentMethodCreditCard}); err != ErrCartEmpty {
		t.Fatalf("empty cart want ErrCartEmpty got %v", err)
	}

	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St"}); err != ErrInvalidPaymentMethod {
		t.Fatalf("missing payment method want ErrInvalidPaymentMethod got %v", err)
	}
	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: "cash"}); err != ErrInvalidPaymentMethod {
		t.Fatalf("unknown payment method want ErrInvalidPaymentMethod got %v", err)
	}
}

func TestCheckoutInsufficientStockNoPartialEffects(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)

	products := []models.Product{
		{ID: 1, SellerID: 1, CategoryID: 1, Slug: "a", Name: "A", PriceAmount: models.NewMoneyFromString("10.00"), Stock: 5, IsActive: true},
		{ID: 2, SellerID: 1, CategoryID: 1, Slug: "b", Name: "B", PriceAmount: models.NewMoneyFromString("10.00"), Stock: 1, IsActive: true},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	seedOrderCart(t, db, buyer.ID,
		models.CartItem{ProductID: 1, Quantity: 2},
		models.CartItem{ProductID: 2, Quantity: 3},
	)

	if _, err := svc.Checkout(buyer.ID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: constants.PaymentMethodCreditCard}); err != ErrInsufficientStock {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 没有任何变更：库存原样、无订单、购物车保留
	var a, b models.Product
	if err := db.First(&a, 1).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if err := db.First(&b, 2).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if a.Stock != 5 || b.Stock != 1 {
		t.Fatalf("stock should be untouched, got %d and %d", a.Stock, b.Stock)
	}
	var orderCount, itemCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if orderCount != 0 || itemCount != 2 {
		t.Fatalf("expected no orders and intact cart, got %d orders %d items", orderCount, itemCount)
	}
}

func checkoutTestOrder(t *testing.T, svc *OrderService, db *gorm.DB, buyerID uint) *models.Order {
	t.Helper()
	seedOrderCart(t, db, buyerID, models.CartItem{ProductID: 1, Quantity: 1})
	order, err := svc.Checkout(buyerID, CheckoutInput{ShippingAddress: "1 Main St", PaymentMethod: constants.PaymentMethodCreditCard})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func TestListHistoryNewestFirst(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	admin := seedOrderUser(t, db, 200, constants.RoleAdmin)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	if _, err := svc.UpdateOrderStatus(order.ID, admin, UpdateOrderStatusInput{Status: constants.OrderStatusProcessing}); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	history, err := svc.ListHistory(order.ID, buyer)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Status != constants.OrderStatusProcessing || history[1].Status != constants.OrderStatusPending {
		t.Fatalf("history should be newest-first: %s then %s", history[0].Status, history[1].Status)
	}

	// 订单详情预载同样按最新在前
	got, err := svc.GetOrder(order.ID, buyer)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(got.History) != 2 || got.History[0].Status != constants.OrderStatusProcessing {
		t.Fatalf("preloaded history should be newest-first: %+v", got.History)
	}
}

func TestCancelOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	other := seedOrderUser(t, db, 101, constants.RoleCustomer)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	if _, err := svc.CancelOrder(order.ID, other, "not mine"); err != ErrOrderNotFound {
		t.Fatalf("cross-user cancel want ErrOrderNotFound got %v", err)
	}

	cancelled, err := svc.CancelOrder(order.ID, buyer, "changed my mind")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil || cancelled.CancelledByRole != constants.RoleCustomer {
		t.Fatalf("cancellation fields not recorded: %+v", cancelled)
	}
	if cancelled.CancellationReason != "changed my mind" {
		t.Fatalf("reason want 'changed my mind' got %q", cancelled.CancellationReason)
	}
	if len(cancelled.History) != 2 || cancelled.History[0].Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancellation entry first (newest-first): %+v", cancelled.History)
	}

	// 取消不回补库存
	var got models.Product
	if err := db.First(&got, 1).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 9 {
		t.Fatalf("stock should stay reserved, want 9 got %d", got.Stock)
	}

	if _, err := svc.CancelOrder(order.ID, buyer, "again"); err != ErrOrderNotCancellable {
		t.Fatalf("second cancel want ErrOrderNotCancellable got %v", err)
	}
}

func TestCancelledAtWrittenOnce(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	admin := seedOrderUser(t, db, 200, constants.RoleAdmin)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	first, err := svc.UpdateOrderStatus(order.ID, admin, UpdateOrderStatusInput{
		Status:             constants.OrderStatusCancelled,
		CancellationReason: "fraud check",
	})
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if first.CancelledAt == nil || first.CancelledByRole != constants.RoleAdmin {
		t.Fatalf("cancellation fields not recorded: %+v", first)
	}
	firstAt := *first.CancelledAt

	time.Sleep(10 * time.Millisecond)
	second, err := svc.UpdateOrderStatus(order.ID, admin, UpdateOrderStatusInput{
		Status:             constants.OrderStatusCancelled,
		CancellationReason: "different reason",
	})
	if err != nil {
		t.Fatalf("second cancel update failed: %v", err)
	}
	if second.CancelledAt == nil || !second.CancelledAt.Equal(firstAt) {
		t.Fatalf("cancelled_at should be written once: first=%v second=%v", firstAt, second.CancelledAt)
	}
	if second.CancellationReason != "fraud check" {
		t.Fatalf("reason should be preserved, got %q", second.CancellationReason)
	}
}

func TestUpdateOrderStatusPermissions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seller := seedOrderUser(t, db, 1, constants.RoleSeller)
	outsider := seedOrderUser(t, db, 2, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	if _, err := svc.UpdateOrderStatus(order.ID, buyer, UpdateOrderStatusInput{Status: constants.OrderStatusShipped}); err != ErrPermissionDenied {
		t.Fatalf("buyer status update want ErrPermissionDenied got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(order.ID, outsider, UpdateOrderStatusInput{Status: constants.OrderStatusShipped}); err != ErrPermissionDenied {
		t.Fatalf("outside seller want ErrPermissionDenied got %v", err)
	}
	if _, err := svc.UpdateOrderStatus(order.ID, seller, UpdateOrderStatusInput{Status: "lost"}); err != ErrInvalidOrderStatus {
		t.Fatalf("bad status want ErrInvalidOrderStatus got %v", err)
	}

	tracking := "TRK-1"
	updated, err := svc.UpdateOrderStatus(order.ID, seller, UpdateOrderStatusInput{
		Status:         constants.OrderStatusShipped,
		TrackingNumber: &tracking,
		Note:           "shipped via ground",
	})
	if err != nil {
		t.Fatalf("seller update failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped || updated.TrackingNumber != "TRK-1" {
		t.Fatalf("unexpected order after update: %+v", updated)
	}
	latest := updated.History[0]
	if latest.Status != constants.OrderStatusShipped || latest.Note != "shipped via ground" {
		t.Fatalf("unexpected history entry: %+v", latest)
	}
}

func TestUpdateOrderStatusMirrorsPayment(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	admin := seedOrderUser(t, db, 200, constants.RoleAdmin)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	payment := models.Payment{
		OrderID:       order.ID,
		UserID:        buyer.ID,
		Amount:        order.TotalAmount,
		Method:        constants.PaymentMethodCreditCard,
		Status:        constants.PaymentStatusPending,
		TransactionID: "tx-mirror-test",
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	updated, err := svc.UpdateOrderStatus(order.ID, admin, UpdateOrderStatusInput{
		Status:        constants.OrderStatusProcessing,
		PaymentStatus: constants.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusCompleted {
		t.Fatalf("order payment status want completed got %s", updated.PaymentStatus)
	}

	var got models.Payment
	if err := db.First(&got, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if got.Status != constants.PaymentStatusCompleted || got.PaidAt == nil {
		t.Fatalf("payment should mirror completed status with paid_at: %+v", got)
	}
}

func TestCancelStaleOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seedOrderUser(t, db, 1, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	admin := seedOrderUser(t, db, 200, constants.RoleAdmin)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order := checkoutTestOrder(t, svc, db, buyer.ID)
	cancelled, err := svc.CancelStaleOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel stale order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("stale pending order should be cancelled: %+v", cancelled)
	}
	if cancelled.CancelledByRole != constants.RoleAdmin {
		t.Fatalf("system cancel should record admin role, got %s", cancelled.CancelledByRole)
	}

	// 非 pending 订单保持原状
	second := checkoutTestOrder(t, svc, db, buyer.ID)
	if _, err := svc.UpdateOrderStatus(second.ID, admin, UpdateOrderStatusInput{Status: constants.OrderStatusProcessing}); err != nil {
		t.Fatalf("move to processing failed: %v", err)
	}
	kept, err := svc.CancelStaleOrder(second.ID)
	if err != nil {
		t.Fatalf("cancel stale on processing failed: %v", err)
	}
	if kept.Status != constants.OrderStatusProcessing {
		t.Fatalf("processing order should be untouched, got %s", kept.Status)
	}

	if _, err := svc.CancelStaleOrder(9999); err != ErrOrderNotFound {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestGetOrderAccessControl(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	seller := seedOrderUser(t, db, 1, constants.RoleSeller)
	outsider := seedOrderUser(t, db, 2, constants.RoleSeller)
	buyer := seedOrderUser(t, db, 100, constants.RoleCustomer)
	other := seedOrderUser(t, db, 101, constants.RoleCustomer)
	admin := seedOrderUser(t, db, 200, constants.RoleAdmin)
	product := models.Product{
		ID: 1, SellerID: 1, CategoryID: 1, Slug: "lamp", Name: "Lamp",
		PriceAmount: models.NewMoneyFromString("10.00"), Stock: 10, IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := checkoutTestOrder(t, svc, db, buyer.ID)

	if _, err := svc.GetOrder(order.ID, buyer); err != nil {
		t.Fatalf("buyer should see own order: %v", err)
	}
	if _, err := svc.GetOrder(order.ID, other); err != ErrOrderNotFound {
		t.Fatalf("other buyer want ErrOrderNotFound got %v", err)
	}
	if _, err := svc.GetOrder(order.ID, seller); err != nil {
		t.Fatalf("seller with items should see order: %v", err)
	}
	if _, err := svc.GetOrder(order.ID, outsider); err != ErrOrderNotFound {
		t.Fatalf("unrelated seller want ErrOrderNotFound got %v", err)
	}
	if _, err := svc.GetOrder(order.ID, admin); err != nil {
		t.Fatalf("admin should see any order: %v", err)
	}

	if _, err := svc.GetOrderByNo(order.OrderNo, buyer); err != nil {
		t.Fatalf("buyer should see own order by no: %v", err)
	}
	if _, err := svc.GetOrderByNo(order.OrderNo, other); err != ErrOrderNotFound {
		t.Fatalf("order-by-no access control want ErrOrderNotFound got %v", err)
	}
	if _, err := svc.GetOrderByNo("ORD-missing", admin); err != ErrOrderNotFound {
		t.Fatalf("unknown order no want ErrOrderNotFound got %v", err)
	}

	history, err := svc.ListHistory(order.ID, buyer)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if _, err := svc.ListHistory(order.ID, other); err != ErrOrderNotFound {
		t.Fatalf("history access control want ErrOrderNotFound got %v", err)
	}
}
