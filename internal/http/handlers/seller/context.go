package seller

import (
	handlershared "github.com/bazaar-next/internal/http/handlers/shared"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/models"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// currentUser 加载当前登录用户，失败时已写入错误响应。
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	uid, ok := getUserID(c)
	if !ok {
		return nil, false
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return nil, false
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return nil, false
	}
	return user, true
}

// ownedProduct 加载商品并校验归属（管理员越权放行），失败时已写入错误响应。
func (h *Handler) ownedProduct(c *gin.Context, user *models.User, productID uint) (*models.Product, bool) {
	product, err := h.ProductService.GetProduct(productID, false)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return nil, false
	}
	if !user.IsAdmin() && product.SellerID != user.ID {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return nil, false
	}
	return product, true
}
