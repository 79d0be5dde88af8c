package public

import (
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ShippingQuoteRequest 运费试算参数
type ShippingQuoteRequest struct {
	SellerID  uint         `json:"seller_id" binding:"required"`
	CartTotal models.Money `json:"cart_total"`
}

// GetShippingQuote 按卖家与金额试算运费
func (h *Handler) GetShippingQuote(c *gin.Context) {
	var req ShippingQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	quote, err := h.ShippingService.CalculateForSeller(req.SellerID, req.CartTotal)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, quote)
}
