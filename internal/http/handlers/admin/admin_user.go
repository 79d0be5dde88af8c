package admin

import (
	"strconv"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserAdminService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// GetAdminUser 获取用户详情
func (h *Handler) GetAdminUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAdminService.GetUser(uint(id))
	if err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, user)
}

// UpdateAdminUserRoleRequest 调整角色请求
type UpdateAdminUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateAdminUserRole 调整用户角色，并同步权限策略
func (h *Handler) UpdateAdminUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req UpdateAdminUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAdminService.UpdateRole(uint(id), req.Role)
	if err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeBadRequest, "error.bad_request")
		return
	}

	if h.AuthzService != nil {
		if syncErr := h.AuthzService.SyncUserRole(user.ID, user.Role); syncErr != nil {
			requestLog(c).Warnw("authz_sync_user_role_failed",
				"user_id", user.ID,
				"role", user.Role,
				"error", syncErr,
			)
		}
	}
	response.Success(c, user)
}

// UpdateAdminUserStatusRequest 调整账号状态请求
type UpdateAdminUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminUserStatus 启用/禁用账号（禁用后历史 Token 全部失效）
func (h *Handler) UpdateAdminUserStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req UpdateAdminUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAdminService.UpdateStatus(uint(id), req.Status)
	if err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeBadRequest, "error.bad_request")
		return
	}
	response.Success(c, user)
}
