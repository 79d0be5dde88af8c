package models

import (
	"time"

	"gorm.io/gorm"
)

// Question 商品提问表（需审核后公开）
type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`                  // 主键
	ProductID  uint           `gorm:"not null;index" json:"product_id"`      // 商品ID
	UserID     uint           `gorm:"not null;index" json:"user_id"`         // 提问人ID
	Text       string         `gorm:"type:text;not null" json:"text"`        // 提问内容
	IsApproved bool           `gorm:"default:false;index" json:"is_approved"` // 是否审核通过
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`        // 提问人
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"` // 回答列表
}

// TableName 指定表名
func (Question) TableName() string {
	return "questions"
}
