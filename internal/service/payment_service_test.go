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

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Payment{},
		&models.Refund{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewOrderRepository(db))
	return svc, db
}

func seedPaymentOrder(t *testing.T, db *gorm.DB, userID uint, total string) *models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:         fmt.Sprintf("BZTEST%d", time.Now().UnixNano()),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		ShippingAddress: "1 Main St",
		Subtotal:        models.NewMoneyFromString(total),
		TotalAmount:     models.NewMoneyFromString(total),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func paymentTestUser(id uint, role string) *models.User {
	return &models.User{ID: id, Role: role, Status: constants.UserStatusActive}
}

func TestCreatePayment(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	buyer := paymentTestUser(100, constants.RoleCustomer)
	order := seedPaymentOrder(t, db, buyer.ID, "26.00")

	if _, err := svc.CreatePayment(buyer, CreatePaymentInput{OrderID: order.ID, Method: "cash"}); err != ErrInvalidPaymentMethod {
		t.Fatalf("bad method want ErrInvalidPaymentMethod got %v", err)
	}
	if _, err := svc.CreatePayment(buyer, CreatePaymentInput{OrderID: 999, Method: constants.PaymentMethodCreditCard}); err != ErrOrderNotFound {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}

	other := paymentTestUser(101, constants.RoleCustomer)
	if _, err := svc.CreatePayment(other, CreatePaymentInput{OrderID: order.ID, Method: constants.PaymentMethodCreditCard}); err != ErrOrderNotFound {
		t.Fatalf("cross-user payment want ErrOrderNotFound got %v", err)
	}

	payment, err := svc.CreatePayment(buyer, CreatePaymentInput{
		OrderID: order.ID,
		Method:  constants.PaymentMethodCreditCard,
		Status:  constants.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if payment.Amount.String() != "26.00" {
		t.Fatalf("amount should default to order total, got %s", payment.Amount)
	}
	if payment.TransactionID == "" || payment.PaidAt == nil {
		t.Fatalf("completed payment should carry transaction id and paid_at: %+v", payment)
	}

	// 订单支付状态同步
	var gotOrder models.Order
	if err := db.First(&gotOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if gotOrder.PaymentStatus != constants.PaymentStatusCompleted {
		t.Fatalf("order payment status want completed got %s", gotOrder.PaymentStatus)
	}

	// 一单一付
	if _, err := svc.CreatePayment(buyer, CreatePaymentInput{OrderID: order.ID, Method: constants.PaymentMethodPaypal}); err != ErrPaymentExists {
		t.Fatalf("second payment want ErrPaymentExists got %v", err)
	}
}

func TestGetPaymentByOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	buyer := paymentTestUser(100, constants.RoleCustomer)
	admin := paymentTestUser(200, constants.RoleAdmin)
	order := seedPaymentOrder(t, db, buyer.ID, "10.00")

	if _, err := svc.GetPaymentByOrder(buyer, order.ID); err != ErrPaymentNotFound {
		t.Fatalf("no payment yet want ErrPaymentNotFound got %v", err)
	}

	if _, err := svc.CreatePayment(buyer, CreatePaymentInput{OrderID: order.ID, Method: constants.PaymentMethodPaypal}); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	if _, err := svc.GetPaymentByOrder(buyer, order.ID); err != nil {
		t.Fatalf("buyer should see own payment: %v", err)
	}
	if _, err := svc.GetPaymentByOrder(admin, order.ID); err != nil {
		t.Fatalf("admin should see any payment: %v", err)
	}
	other := paymentTestUser(101, constants.RoleCustomer)
	if _, err := svc.GetPaymentByOrder(other, order.ID); err != ErrOrderNotFound {
		t.Fatalf("cross-user access want ErrOrderNotFound got %v", err)
	}
}

func TestRefundValidation(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	buyer := paymentTestUser(100, constants.RoleCustomer)
	admin := paymentTestUser(200, constants.RoleAdmin)
	order := seedPaymentOrder(t, db, buyer.ID, "26.00")

	payment, err := svc.CreatePayment(buyer, CreatePaymentInput{OrderID: order.ID, Method: constants.PaymentMethodCreditCard})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	if _, err := svc.Refund(admin, payment.ID, RefundInput{Reason: "   "}); err != ErrReasonRequired {
		t.Fatalf("blank reason want ErrReasonRequired got %v", err)
	}
	if _, err := svc.Refund(admin, 999, RefundInput{Reason: "damaged"}); err != ErrPaymentNotFound {
		t.Fatalf("missing payment want ErrPaymentNotFound got %v", err)
	}
	// 未完成的支付不可退款
	if _, err := svc.Refund(admin, payment.ID, RefundInput{Reason: "damaged"}); err != ErrPaymentNotRefundable {
		t.Fatalf("pending payment want ErrPaymentNotRefundable got %v", err)
	}

	if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).
		Update("status", constants.PaymentStatusCompleted).Error; err != nil {
		t.Fatalf("mark completed failed: %v", err)
	}

	over := models.NewMoneyFromString("30.00")
	if _, err := svc.Refund(admin, payment.ID, RefundInput{Amount: &over, Reason: "damaged"}); err != ErrRefundAmountInvalid {
		t.Fatalf("over-amount refund want ErrRefundAmountInvalid got %v", err)
	}
	zero := models.NewMoneyFromString("0.00")
	if _, err := svc.Refund(admin, payment.ID, RefundInput{Amount: &zero, Reason: "damaged"}); err != ErrRefundAmountInvalid {
		t.Fatalf("zero refund want ErrRefundAmountInvalid got %v", err)
	}
}

func TestRefundCancelsOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	buyer := paymentTestUser(100, constants.RoleCustomer)
	admin := paymentTestUser(200, constants.RoleAdmin)
	order := seedPaymentOrder(t, db, buyer.ID, "26.00")

	payment, err := svc.CreatePayment(buyer, CreatePaymentInput{
		OrderID: order.ID,
		Method:  constants.PaymentMethodCreditCard,
		Status:  constants.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	refund, err := svc.Refund(admin, payment.ID, RefundInput{Reason: "item damaged"})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refund.Amount.String() != "26.00" {
		t.Fatalf("refund should default to full amount, got %s", refund.Amount)
	}
	if refund.TransactionID == "" || refund.ProcessedByID == nil || *refund.ProcessedByID != admin.ID {
		t.Fatalf("refund bookkeeping incomplete: %+v", refund)
	}

	var gotPayment models.Payment
	if err := db.First(&gotPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if gotPayment.Status != constants.PaymentStatusRefunded {
		t.Fatalf("payment status want refunded got %s", gotPayment.Status)
	}

	var gotOrder models.Order
	if err := db.First(&gotOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if gotOrder.Status != constants.OrderStatusCancelled || gotOrder.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("order should be cancelled and refunded: %s / %s", gotOrder.Status, gotOrder.PaymentStatus)
	}
	if gotOrder.CancelledAt == nil || gotOrder.CancelledByRole != constants.RoleAdmin {
		t.Fatalf("cancellation fields not recorded: %+v", gotOrder)
	}

	var historyCount int64
	if err := db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if historyCount != 1 {
		t.Fatalf("expected cancellation history entry, got %d", historyCount)
	}

	// 已退款的支付不可再次退款
	if _, err := svc.Refund(admin, payment.ID, RefundInput{Reason: "again"}); err != ErrPaymentNotRefundable {
		t.Fatalf("double refund want ErrPaymentNotRefundable got %v", err)
	}

	refunds, err := svc.ListRefundsForPayment(payment.ID)
	if err != nil {
		t.Fatalf("list refunds failed: %v", err)
	}
	if len(refunds) != 1 || !refunds[0].Amount.Equal(refund.Amount.Decimal) {
		t.Fatalf("unexpected refund list: %+v", refunds)
	}
	if _, err := svc.ListRefundsForPayment(9999); err != ErrPaymentNotFound {
		t.Fatalf("missing payment want ErrPaymentNotFound got %v", err)
	}
}
