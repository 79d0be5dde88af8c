package seller

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetShippingMethod 获取卖家运费设置（不存在则创建默认包邮设置）
func (h *Handler) GetShippingMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	method, err := h.ShippingService.GetOrCreateMethod(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, method)
}

// UpdateShippingMethod 更新卖家运费设置
func (h *Handler) UpdateShippingMethod(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req service.UpdateShippingMethodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	method, err := h.ShippingService.UpdateMethod(user.ID, req)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, method)
}

// GetProductShippingOverride 获取商品运费覆盖
func (h *Handler) GetProductShippingOverride(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, ok := h.ownedProduct(c, user, uint(productID)); !ok {
		return
	}

	override, err := h.ShippingService.GetOverride(uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, override)
}

// SaveProductShippingOverride 保存商品运费覆盖（存在则更新）
func (h *Handler) SaveProductShippingOverride(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, ok := h.ownedProduct(c, user, uint(productID)); !ok {
		return
	}

	var req service.SaveOverrideInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	override, err := h.ShippingService.SaveOverride(uint(productID), req)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, override)
}

// DeleteProductShippingOverride 删除商品运费覆盖（恢复按卖家设置计费）
func (h *Handler) DeleteProductShippingOverride(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, ok := h.ownedProduct(c, user, uint(productID)); !ok {
		return
	}

	if err := h.ShippingService.DeleteOverride(uint(productID)); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
