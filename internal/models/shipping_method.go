package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingMethod 卖家运费设置（每个卖家一条）
type ShippingMethod struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	SellerID              uint           `gorm:"uniqueIndex;not null" json:"seller_id"`                                // 卖家ID
	ShippingType          string         `gorm:"not null;default:'flat_rate'" json:"shipping_type"`                    // 运费类型（free/flat_rate）
	FlatRateAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"flat_rate_amount"`        // 固定运费金额
	FreeShippingThreshold Money          `gorm:"type:decimal(20,2);not null;default:0" json:"free_shipping_threshold"` // 包邮门槛（0 表示不启用）
	IsActive              bool           `gorm:"default:true;index" json:"is_active"`                                  // 是否启用
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt             time.Time      `json:"updated_at"`                                                           // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                                       // 软删除时间
}

// TableName 指定表名
func (ShippingMethod) TableName() string {
	return "shipping_methods"
}
