package admin

import (
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/models"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			respondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			respondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		respondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
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
