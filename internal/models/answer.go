package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer 提问回答表（卖家或员工作答）
type Answer struct {
	ID         uint           `gorm:"primarykey" json:"id"`                  // 主键
	QuestionID uint           `gorm:"not null;index" json:"question_id"`     // 提问ID
	UserID     uint           `gorm:"not null;index" json:"user_id"`         // 回答人ID
	Text       string         `gorm:"type:text;not null" json:"text"`        // 回答内容
	IsApproved bool           `gorm:"default:false;index" json:"is_approved"` // 是否审核通过
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 回答人
}

// TableName 指定表名
func (Answer) TableName() string {
	return "answers"
}
