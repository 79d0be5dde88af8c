package models

import (
	"time"
)

// OrderStatusHistory 订单状态历史（与状态变更同事务写入）
type OrderStatusHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                  // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`        // 订单ID
	Status      string    `gorm:"not null" json:"status"`                // 变更后状态
	Note        string    `gorm:"type:text" json:"note,omitempty"`       // 备注
	ChangedByID *uint     `gorm:"index" json:"changed_by_id,omitempty"`  // 操作人ID（系统操作为空）
	CreatedAt   time.Time `gorm:"index" json:"created_at"`               // 创建时间

	ChangedBy *User `gorm:"foreignKey:ChangedByID" json:"changed_by,omitempty"` // 操作人
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
