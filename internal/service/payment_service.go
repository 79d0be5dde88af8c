package service

import (
	"strings"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService 支付服务（记账模型，无外部网关）
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, orderRepo: orderRepo}
}

// CreatePaymentInput 创建支付参数
type CreatePaymentInput struct {
	OrderID uint          `json:"order_id" binding:"required"`
	Method  string        `json:"method" binding:"required"`
	Amount  *models.Money `json:"amount"`
	Status  string        `json:"status"`
}

// CreatePayment 为订单创建支付记录（一单一付，金额默认取订单总额）。
// 状态标记为 completed 时在同一事务内镜像订单支付状态。
func (s *PaymentService) CreatePayment(actor *models.User, input CreatePaymentInput) (*models.Payment, error) {
	if !constants.ValidPaymentMethod(input.Method) {
		return nil, ErrInvalidPaymentMethod
	}
	status := input.Status
	if status == "" {
		status = constants.PaymentStatusPending
	}
	if !constants.ValidPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if actor == nil || (!actor.IsAdmin() && order.UserID != actor.ID) {
		return nil, ErrOrderNotFound
	}

	existing, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPaymentExists
	}

	amount := order.TotalAmount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, ErrRefundAmountInvalid
	}

	payment := &models.Payment{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        amount,
		Method:        input.Method,
		Status:        status,
		TransactionID: uuid.NewString(),
	}
	if status == constants.PaymentStatusCompleted {
		now := time.Now()
		payment.PaidAt = &now
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		if status != order.PaymentStatus {
			orderRepo := s.orderRepo.WithTx(tx)
			return orderRepo.UpdateFields(order.ID, map[string]interface{}{"payment_status": status})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPaymentByOrder 获取订单支付记录（买家限于自己的订单）
func (s *PaymentService) GetPaymentByOrder(actor *models.User, orderID uint) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if actor == nil || (!actor.IsAdmin() && order.UserID != actor.ID) {
		return nil, ErrOrderNotFound
	}
	payment, err := s.paymentRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListRefundsForPayment 获取支付记录的退款列表（管理员）
func (s *PaymentService) ListRefundsForPayment(paymentID uint) ([]models.Refund, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return s.paymentRepo.ListRefunds(paymentID)
}

// ListPayments 支付列表（管理员）
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// RefundInput 退款参数
type RefundInput struct {
	Amount *models.Money `json:"amount"`
	Reason string        `json:"reason" binding:"required"`
}

// Refund 退款：仅已完成的支付可退款，金额默认全额且不可超额。
// 支付状态、订单镜像、订单取消、状态历史与退款记录在同一事务内写入。
func (s *PaymentService) Refund(actor *models.User, paymentID uint, input RefundInput) (*models.Refund, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusCompleted {
		return nil, ErrPaymentNotRefundable
	}

	amount := payment.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if !amount.GreaterThan(decimal.Zero) || amount.GreaterThan(payment.Amount.Decimal) {
		return nil, ErrRefundAmountInvalid
	}

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	refund := &models.Refund{
		PaymentID:     payment.ID,
		Amount:        amount,
		Reason:        reason,
		TransactionID: uuid.NewString(),
	}
	if actor != nil {
		id := actor.ID
		refund.ProcessedByID = &id
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		if err := paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
			"status": constants.PaymentStatusRefunded,
		}); err != nil {
			return err
		}

		orderUpdates := map[string]interface{}{
			"payment_status": constants.PaymentStatusRefunded,
		}
		cancelling := order.Status != constants.OrderStatusCancelled
		if cancelling {
			orderUpdates["status"] = constants.OrderStatusCancelled
			for k, v := range buildCancellationUpdates(order, actor, "Refund processed: "+reason) {
				orderUpdates[k] = v
			}
		}
		if err := orderRepo.UpdateFields(order.ID, orderUpdates); err != nil {
			return err
		}

		if cancelling {
			history := &models.OrderStatusHistory{
				OrderID: order.ID,
				Status:  constants.OrderStatusCancelled,
				Note:    "Order cancelled due to refund. Reason: " + reason,
			}
			if actor != nil {
				id := actor.ID
				history.ChangedByID = &id
			}
			if err := orderRepo.AppendHistory(history); err != nil {
				return err
			}
		}

		return paymentRepo.CreateRefund(refund)
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}
