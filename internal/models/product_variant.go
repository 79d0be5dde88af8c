package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant 商品规格表
type ProductVariant struct {
	ID              uint             `gorm:"primarykey" json:"id"`                                          // 主键
	ProductID       uint             `gorm:"not null;index" json:"product_id"`                              // 商品ID
	Name            string           `gorm:"not null" json:"name"`                                          // 规格名称
	SKU             string           `gorm:"uniqueIndex;not null" json:"sku"`                               // SKU 编码
	PriceAdjustment Money            `gorm:"type:decimal(20,2);not null;default:0" json:"price_adjustment"` // 加价（可为负）
	Stock           int              `gorm:"not null;default:0" json:"stock"`                               // 规格库存
	Weight          *decimal.Decimal `gorm:"type:decimal(8,2)" json:"weight,omitempty"`                     // 重量（为空时取商品重量）
	Options         JSON             `gorm:"type:json" json:"options"`                                      // 规格选项（颜色/尺寸等）
	IsActive        bool             `gorm:"default:true;index" json:"is_active"`                           // 是否可售
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time        `json:"updated_at"`                                                    // 更新时间
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
