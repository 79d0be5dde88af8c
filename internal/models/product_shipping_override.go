package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductShippingOverride 商品级运费覆盖（优先于卖家设置）
type ProductShippingOverride struct {
	ID                     uint           `gorm:"primarykey" json:"id"`                                          // 主键
	ProductID              uint           `gorm:"uniqueIndex;not null" json:"product_id"`                        // 商品ID
	OverrideSellerSettings bool           `gorm:"default:false" json:"override_seller_settings"`                 // 是否覆盖卖家设置
	ShippingType           string         `gorm:"not null;default:'flat_rate'" json:"shipping_type"`             // 运费类型（free/flat_rate）
	FlatRateAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"flat_rate_amount"` // 固定运费金额
	IsActive               bool           `gorm:"default:true;index" json:"is_active"`                           // 是否启用
	CreatedAt              time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt              time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (ProductShippingOverride) TableName() string {
	return "product_shipping_overrides"
}
