package service

import (
	"context"
	"strings"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// UserAdminService 用户后台管理服务
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// ListUsers 用户列表
func (s *UserAdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetUser 获取用户
func (s *UserAdminService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateRole 调整用户角色（管理员角色附带 staff 标记）
func (s *UserAdminService) UpdateRole(id uint, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case constants.RoleCustomer, constants.RoleSeller, constants.RoleAdmin:
	default:
		return nil, ErrPermissionDenied
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.userRepo.UpdateRole(id, role, role == constants.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(id)
}

// UpdateStatus 启用/禁用用户（禁用即时撤销既有 token）
func (s *UserAdminService) UpdateStatus(id uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.Status = status
	if status == constants.UserStatusDisabled {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}
