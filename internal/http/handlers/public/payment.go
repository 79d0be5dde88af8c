package public

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePayment 为自己的订单创建支付记录
func (h *Handler) CreatePayment(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req service.CreatePaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.PaymentService.CreatePayment(user, req)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}

// GetOrderPayment 获取订单的支付记录
func (h *Handler) GetOrderPayment(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.PaymentService.GetPaymentByOrder(user, uint(orderID))
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}
