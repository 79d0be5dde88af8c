package seller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

func buildOrderListFilter(c *gin.Context) repository.OrderListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	return repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		OrderNo:       c.Query("order_no"),
	}
}

// GetSellerOrders 获取包含本卖家商品的订单列表
func (h *Handler) GetSellerOrders(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	filter := buildOrderListFilter(c)
	orders, total, err := h.OrderService.ListOrdersForSeller(user.ID, filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: (total + int64(filter.PageSize) - 1) / int64(filter.PageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetSellerOrder 获取订单详情（订单需包含本卖家商品）
func (h *Handler) GetSellerOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID), user)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdateSellerOrderStatus 更新订单状态（按状态机流转，取消需填原因）
func (h *Handler) UpdateSellerOrderStatus(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req service.UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(orderID), user, req)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// GetSellerOrderHistory 获取订单状态历史
func (h *Handler) GetSellerOrderHistory(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	history, err := h.OrderService.ListHistory(uint(orderID), user)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, history)
}

// GetSellerAnalytics 卖家订单统计
func (h *Handler) GetSellerAnalytics(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	analytics, err := h.OrderService.Analytics(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, analytics)
}

// ExportSellerOrders 导出卖家订单 CSV
func (h *Handler) ExportSellerOrders(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	filter := buildOrderListFilter(c)
	content, err := h.OrderService.ExportCSV(user.ID, filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	filename := service.ExportFilename("orders")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}
