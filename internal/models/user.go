package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（顾客 / 卖家 / 管理员共用一张表，通过 role 区分）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                           // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`              // 邮箱（登录标识）
	Username           string         `gorm:"index;not null" json:"username"`                 // 用户名
	PasswordHash       string         `gorm:"not null" json:"-"`                              // 密码哈希（不返回给前端）
	Role               string         `gorm:"index;not null;default:'customer'" json:"role"`  // 角色（customer/seller/admin）
	IsStaff            bool           `gorm:"default:false" json:"is_staff"`                  // 是否后台员工（等同管理员权限）
	Phone              string         `gorm:"type:varchar(32)" json:"phone,omitempty"`        // 电话
	AddressLine        string         `gorm:"type:varchar(255)" json:"address,omitempty"`     // 地址
	City               string         `gorm:"type:varchar(100)" json:"city,omitempty"`        // 城市
	PostalCode         string         `gorm:"type:varchar(20)" json:"postal_code,omitempty"`  // 邮编
	Country            string         `gorm:"type:varchar(100)" json:"country,omitempty"`     // 国家
	Locale             string         `gorm:"default:'en-US'" json:"locale"`                  // 语言偏好
	Status             string         `gorm:"default:'active'" json:"status"`                 // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                    // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                 // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                  // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 管理员判定（is_staff 视为管理员）
func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.Role == "admin")
}

// IsSeller 卖家判定
func (u *User) IsSeller() bool {
	return u != nil && u.Role == "seller"
}
