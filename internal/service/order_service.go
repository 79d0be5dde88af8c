package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	variantRepo     repository.ProductVariantRepository
	paymentRepo     repository.PaymentRepository
	shippingService *ShippingService
	queueClient     *queue.Client
	pendingTimeout  time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	paymentRepo repository.PaymentRepository,
	shippingService *ShippingService,
	queueClient *queue.Client,
	pendingTimeout time.Duration,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		paymentRepo:     paymentRepo,
		shippingService: shippingService,
		queueClient:     queueClient,
		pendingTimeout:  pendingTimeout,
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("BZ%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

// actorRole 推导操作人角色：员工视为管理员
func actorRole(actor *models.User) string {
	switch {
	case actor == nil:
		return ""
	case actor.IsAdmin():
		return constants.RoleAdmin
	case actor.IsSeller():
		return constants.RoleSeller
	default:
		return constants.RoleCustomer
	}
}

// orderContainsSeller 订单是否包含指定卖家的商品
func orderContainsSeller(order *models.Order, sellerID uint) bool {
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// CheckoutInput 结算参数
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	BillingAddress  string `json:"billing_address"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	Notes           string `json:"notes"`
}

// checkoutLine 结算中间行
type checkoutLine struct {
	item      models.OrderItem
	variantID *uint
}

// Checkout 购物车结算：
// 在单个事务内完成库存条件扣减、价格冻结、按卖家汇总运费、创建订单与首条状态历史并清空购物车。
// 任意一行库存不足时整体回滚，不产生任何变更。
func (s *OrderService) Checkout(userID uint, input CheckoutInput) (*models.Order, error) {
	shippingAddress := strings.TrimSpace(input.ShippingAddress)
	if shippingAddress == "" {
		return nil, ErrShippingAddressEmpty
	}
	billingAddress := strings.TrimSpace(input.BillingAddress)
	if billingAddress == "" {
		billingAddress = shippingAddress
	}
	if !constants.ValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]checkoutLine, 0, len(cart.Items))
	shippingLines := make([]ShippingLine, 0, len(cart.Items))
	var subtotal models.Money
	for _, cartItem := range cart.Items {
		product := cartItem.Product
		if product == nil {
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		variant := cartItem.Variant
		if cartItem.VariantID != nil {
			if variant == nil || variant.ProductID != product.ID {
				return nil, ErrVariantNotFound
			}
			if !variant.IsActive {
				return nil, ErrVariantNotAvailable
			}
		}
		if cartItem.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if cartItem.Quantity > availableStock(product, variant) {
			return nil, ErrInsufficientStock
		}

		unitPrice := product.EffectiveUnitPrice(variant)
		lineTotal := unitPrice.MulInt(cartItem.Quantity)
		item := models.OrderItem{
			ProductID:   product.ID,
			VariantID:   cartItem.VariantID,
			SellerID:    product.SellerID,
			ProductName: product.Name,
			UnitPrice:   unitPrice,
			Quantity:    cartItem.Quantity,
			TotalPrice:  lineTotal,
		}
		sellerName := ""
		if product.Seller != nil {
			sellerName = product.Seller.Username
		}
		item.ProductWeight = product.Weight
		if variant != nil {
			item.VariantName = variant.Name
			item.SKU = variant.SKU
			if variant.Weight != nil {
				item.ProductWeight = variant.Weight
			}
		}
		lines = append(lines, checkoutLine{item: item, variantID: cartItem.VariantID})
		shippingLines = append(shippingLines, ShippingLine{
			ProductID:  product.ID,
			SellerID:   product.SellerID,
			SellerName: sellerName,
			LineTotal:  lineTotal,
		})
		subtotal = subtotal.AddMoney(lineTotal)
	}

	_, totalShipping, err := s.shippingService.QuoteLines(shippingLines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.PaymentStatusPending,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    totalShipping,
		TotalAmount:     subtotal.AddMoney(totalShipping),
		Notes:           input.Notes,
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.item)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		variantRepo := s.variantRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		// 条件扣减：库存不足时 0 行受影响，整体回滚
		for _, line := range lines {
			var affected int64
			var reserveErr error
			if line.variantID != nil {
				affected, reserveErr = variantRepo.ReserveStock(*line.variantID, line.item.Quantity)
			} else {
				affected, reserveErr = productRepo.ReserveStock(line.item.ProductID, line.item.Quantity)
			}
			if reserveErr != nil {
				return reserveErr
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}

		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		changedBy := order.UserID
		if err := orderRepo.AppendHistory(&models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      constants.OrderStatusPending,
			Note:        "Order created",
			ChangedByID: &changedBy,
		}); err != nil {
			return err
		}

		return cartRepo.Clear(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, constants.OrderStatusPending)
	s.enqueueTimeoutCancel(order.ID)
	return s.orderRepo.GetByID(order.ID)
}

// enqueueTimeoutCancel 延迟投递超时取消任务（尽力而为，worker 侧还有周期兜底）
func (s *OrderService) enqueueTimeoutCancel(orderID uint) {
	if s.queueClient == nil || !s.queueClient.Enabled() || s.pendingTimeout <= 0 {
		return
	}
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
		OrderID: orderID,
	}, s.pendingTimeout); err != nil {
		logger.Warnw("order_timeout_cancel_enqueue_failed", "order_id", orderID, "error", err)
	}
}

// enqueueStatusEmail 入队状态通知邮件任务（尽力而为，失败仅记日志）
func (s *OrderService) enqueueStatusEmail(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	receiver, err := s.orderRepo.ResolveReceiverEmailByOrderID(orderID)
	if err != nil || strings.TrimSpace(receiver) == "" {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_status_email_enqueue_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// GetOrder 获取订单详情并做访问控制：
// 买家可见自己的订单，卖家可见包含其商品的订单，管理员可见全部。
func (s *OrderService) GetOrder(orderID uint, actor *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	return authorizeOrderView(order, actor)
}

// GetOrderByNo 根据订单编号获取订单，访问控制同 GetOrder
func (s *OrderService) GetOrderByNo(orderNo string, actor *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	return authorizeOrderView(order, actor)
}

func authorizeOrderView(order *models.Order, actor *models.User) (*models.Order, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	switch actorRole(actor) {
	case constants.RoleAdmin:
		return order, nil
	case constants.RoleSeller:
		if order.UserID == actor.ID || orderContainsSeller(order, actor.ID) {
			return order, nil
		}
	default:
		if actor != nil && order.UserID == actor.ID {
			return order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// ListOrdersByUser 买家订单列表
func (s *OrderService) ListOrdersByUser(userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	filter.SellerID = 0
	return s.orderRepo.List(filter)
}

// ListOrdersForSeller 卖家订单列表（仅含其商品所在订单）
func (s *OrderService) ListOrdersForSeller(sellerID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = 0
	filter.SellerID = sellerID
	return s.orderRepo.List(filter)
}

// ListOrdersForAdmin 管理员订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateOrderStatusInput 状态更新参数
type UpdateOrderStatusInput struct {
	Status             string  `json:"status" binding:"required"`
	PaymentStatus      string  `json:"payment_status"`
	TrackingNumber     *string `json:"tracking_number"`
	Notes              *string `json:"notes"`
	Note               string  `json:"note"`
	CancellationReason string  `json:"cancellation_reason"`
}

// buildCancellationUpdates 组装取消字段：cancelled_at 只在首次取消时写入
func buildCancellationUpdates(order *models.Order, actor *models.User, reason string) map[string]interface{} {
	updates := map[string]interface{}{}
	if order.CancelledAt != nil {
		return updates
	}
	now := time.Now()
	updates["cancelled_at"] = now
	updates["cancelled_by_role"] = actorRole(actor)
	if actor != nil {
		updates["cancelled_by_id"] = actor.ID
	}
	if reason != "" {
		updates["cancellation_reason"] = reason
	}
	return updates
}

// UpdateOrderStatus 更新订单状态（卖家限于包含其商品的订单，管理员不限）。
// 状态历史与支付状态镜像在同一事务内写入。
func (s *OrderService) UpdateOrderStatus(orderID uint, actor *models.User, input UpdateOrderStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	role := actorRole(actor)
	switch role {
	case constants.RoleAdmin:
	case constants.RoleSeller:
		if !orderContainsSeller(order, actor.ID) {
			return nil, ErrPermissionDenied
		}
	default:
		return nil, ErrPermissionDenied
	}

	if !constants.ValidOrderStatus(input.Status) {
		return nil, ErrInvalidOrderStatus
	}
	if input.PaymentStatus != "" && !constants.ValidPaymentStatus(input.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == constants.OrderStatusCancelled {
		for k, v := range buildCancellationUpdates(order, actor, strings.TrimSpace(input.CancellationReason)) {
			updates[k] = v
		}
	}
	if input.PaymentStatus != "" {
		updates["payment_status"] = input.PaymentStatus
	}
	if input.TrackingNumber != nil && strings.TrimSpace(*input.TrackingNumber) != "" {
		updates["tracking_number"] = strings.TrimSpace(*input.TrackingNumber)
	}
	if input.Notes != nil && strings.TrimSpace(*input.Notes) != "" {
		updates["notes"] = strings.TrimSpace(*input.Notes)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}

		var changedBy *uint
		if actor != nil {
			id := actor.ID
			changedBy = &id
		}
		if err := orderRepo.AppendHistory(&models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      input.Status,
			Note:        strings.TrimSpace(input.Note),
			ChangedByID: changedBy,
		}); err != nil {
			return err
		}

		// 镜像支付状态到支付记录
		if input.PaymentStatus != "" {
			paymentRepo := s.paymentRepo.WithTx(tx)
			payment, err := paymentRepo.GetByOrderID(order.ID)
			if err != nil {
				return err
			}
			if payment != nil {
				paymentUpdates := map[string]interface{}{"status": input.PaymentStatus}
				if input.PaymentStatus == constants.PaymentStatusCompleted && payment.PaidAt == nil {
					paymentUpdates["paid_at"] = time.Now()
				}
				if err := paymentRepo.UpdateFields(payment.ID, paymentUpdates); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, input.Status)
	return s.orderRepo.GetByID(order.ID)
}

// CancelOrder 买家取消自己的订单（仅 pending / processing 可取消，不回补库存）
func (s *OrderService) CancelOrder(orderID uint, actor *models.User, reason string) (*models.Order, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != actor.ID {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusProcessing {
		return nil, ErrOrderNotCancellable
	}

	updates := map[string]interface{}{"status": constants.OrderStatusCancelled}
	for k, v := range buildCancellationUpdates(order, actor, strings.TrimSpace(reason)) {
		updates[k] = v
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		userID := actor.ID
		return orderRepo.AppendHistory(&models.OrderStatusHistory{
			OrderID:     order.ID,
			Status:      constants.OrderStatusCancelled,
			Note:        strings.TrimSpace(reason),
			ChangedByID: &userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
	return s.orderRepo.GetByID(order.ID)
}

// CancelStaleOrder 超时自动取消待支付订单（由队列任务触发，系统身份操作）
func (s *OrderService) CancelStaleOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}

	updates := map[string]interface{}{"status": constants.OrderStatusCancelled}
	if order.CancelledAt == nil {
		updates["cancelled_at"] = time.Now()
		updates["cancelled_by_role"] = constants.RoleAdmin
		updates["cancellation_reason"] = "Cancelled automatically after pending timeout"
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return err
		}
		return orderRepo.AppendHistory(&models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  constants.OrderStatusCancelled,
			Note:    "Cancelled automatically after pending timeout",
		})
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
	return s.orderRepo.GetByID(order.ID)
}

// ListStalePendingIDs 查询超时未支付的订单 ID
func (s *OrderService) ListStalePendingIDs(timeout time.Duration, limit int) ([]uint, error) {
	if timeout <= 0 {
		return nil, nil
	}
	orders, err := s.orderRepo.ListStalePending(time.Now().Add(-timeout), limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ids, nil
}

// ListHistory 获取订单状态历史（带访问控制）
func (s *OrderService) ListHistory(orderID uint, actor *models.User) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(orderID, actor); err != nil {
		return nil, err
	}
	return s.orderRepo.ListHistory(orderID)
}
