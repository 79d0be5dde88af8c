package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint             `gorm:"primarykey" json:"id"`                                      // 主键
	SellerID      uint             `gorm:"not null;index" json:"seller_id"`                           // 卖家ID
	CategoryID    uint             `gorm:"not null;index" json:"category_id"`                         // 分类ID
	Slug          string           `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name          string           `gorm:"not null" json:"name"`                                      // 商品名称
	Description   string           `gorm:"type:text" json:"description"`                              // 商品描述
	PriceAmount   Money            `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 原价
	DiscountPrice *Money           `gorm:"type:decimal(20,2)" json:"discount_price,omitempty"`        // 折扣价（为空或为 0 时不生效）
	Stock         int              `gorm:"not null;default:0" json:"stock"`                           // 库存（无规格时使用）
	Weight        *decimal.Decimal `gorm:"type:decimal(8,2)" json:"weight,omitempty"`                 // 重量（kg，物流参考）
	Images        StringArray      `gorm:"type:json" json:"images"`                                   // 图片数组
	IsActive      bool             `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder     int              `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time        `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Seller   *User            `gorm:"foreignKey:SellerID" json:"seller,omitempty"`     // 卖家信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BasePrice 基准单价：折扣价存在且大于 0 时取折扣价，否则取原价
func (p *Product) BasePrice() Money {
	if p.DiscountPrice != nil && p.DiscountPrice.GreaterThan(decimal.Zero) {
		return *p.DiscountPrice
	}
	return p.PriceAmount
}

// EffectiveUnitPrice 实际单价：基准单价加上规格加价（可为负）
func (p *Product) EffectiveUnitPrice(variant *ProductVariant) Money {
	base := p.BasePrice()
	if variant == nil {
		return base
	}
	return NewMoneyFromDecimal(base.Add(variant.PriceAdjustment.Decimal))
}
