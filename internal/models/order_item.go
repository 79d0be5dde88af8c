package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem 订单项（下单时冻结价格与名称）
type OrderItem struct {
	ID            uint             `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID       uint             `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID     uint             `gorm:"index;not null" json:"product_id"`                         // 商品ID
	VariantID     *uint            `gorm:"index" json:"variant_id,omitempty"`                        // 规格ID（可为空）
	SellerID      uint             `gorm:"index;not null" json:"seller_id"`                          // 卖家ID（冻结）
	ProductName   string           `gorm:"not null" json:"product_name"`                             // 商品名称（冻结）
	VariantName   string           `gorm:"type:varchar(255)" json:"variant_name,omitempty"`          // 规格名称（冻结）
	SKU           string           `gorm:"type:varchar(100)" json:"sku,omitempty"`                   // SKU 编码（冻结）
	UnitPrice     Money            `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 成交单价（冻结）
	ProductWeight *decimal.Decimal `gorm:"type:decimal(8,2)" json:"product_weight,omitempty"`        // 重量快照（冻结，规格优先）
	Quantity      int              `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice    Money            `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 行小计
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`                                  // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
