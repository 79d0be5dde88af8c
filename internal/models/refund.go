package models

import (
	"time"
)

// Refund 退款记录
type Refund struct {
	ID            uint      `gorm:"primarykey" json:"id"`                       // 主键
	PaymentID     uint      `gorm:"index;not null" json:"payment_id"`           // 支付记录ID
	Amount        Money     `gorm:"type:decimal(20,2);not null" json:"amount"`  // 退款金额
	Reason        string    `gorm:"type:text;not null" json:"reason"`           // 退款原因
	TransactionID string    `gorm:"uniqueIndex;not null" json:"transaction_id"` // 退款流水号（uuid）
	ProcessedByID *uint     `gorm:"index" json:"processed_by_id,omitempty"`     // 处理人ID
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (Refund) TableName() string {
	return "refunds"
}
