package service

import (
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
)

// revenueStatuses 计入营收的订单状态（已取消与待处理不计入）
var revenueStatuses = []string{
	constants.OrderStatusProcessing,
	constants.OrderStatusShipped,
	constants.OrderStatusDelivered,
}

// OrderAnalytics 订单统计视图
type OrderAnalytics struct {
	TotalOrders            int64            `json:"total_orders"`
	TotalRevenue           models.Money     `json:"total_revenue"`
	StatusBreakdown        map[string]int64 `json:"status_breakdown"`
	PaymentStatusBreakdown map[string]int64 `json:"payment_status_breakdown"`
	CancellationByRole     map[string]int64 `json:"cancellation_by_role"`
	CancellationByReason   map[string]int64 `json:"cancellation_by_reason"`
}

// Analytics 订单统计（sellerID 为 0 时为全局统计，否则限定该卖家商品所在订单）
func (s *OrderService) Analytics(sellerID uint) (*OrderAnalytics, error) {
	total, err := s.orderRepo.CountOrders(sellerID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumRevenue(sellerID, revenueStatuses)
	if err != nil {
		return nil, err
	}
	statusBreakdown, err := s.orderRepo.GroupCount(sellerID, "status")
	if err != nil {
		return nil, err
	}
	paymentBreakdown, err := s.orderRepo.GroupCount(sellerID, "payment_status")
	if err != nil {
		return nil, err
	}
	byRole, err := s.orderRepo.GroupCount(sellerID, "cancelled_by_role")
	if err != nil {
		return nil, err
	}
	byReason, err := s.orderRepo.GroupCount(sellerID, "cancellation_reason")
	if err != nil {
		return nil, err
	}

	return &OrderAnalytics{
		TotalOrders:            total,
		TotalRevenue:           revenue,
		StatusBreakdown:        statusBreakdown,
		PaymentStatusBreakdown: paymentBreakdown,
		CancellationByRole:     byRole,
		CancellationByReason:   byReason,
	}, nil
}
