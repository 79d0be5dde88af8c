package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo            string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	UserID             uint           `gorm:"index;not null" json:"user_id"`                              // 下单用户ID
	Status             string         `gorm:"index;not null" json:"status"`                               // 订单状态
	PaymentStatus      string         `gorm:"index;not null" json:"payment_status"`                       // 支付状态
	ShippingAddress    string         `gorm:"type:text;not null" json:"shipping_address"`                 // 收货地址
	BillingAddress     string         `gorm:"type:text;not null" json:"billing_address"`                  // 账单地址（为空时取收货地址）
	PaymentMethod      string         `gorm:"type:varchar(50);not null" json:"payment_method"`            // 支付方式（下单时冻结）
	Subtotal           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`      // 商品小计
	ShippingCost       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"` // 运费
	TotalAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 订单总额（小计+运费）
	TrackingNumber     string         `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`         // 物流单号
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`                           // 备注
	CancelledAt        *time.Time     `gorm:"index" json:"cancelled_at"`                                  // 取消时间（只写一次）
	CancelledByID      *uint          `gorm:"index" json:"cancelled_by_id,omitempty"`                     // 取消操作人ID
	CancelledByRole    string         `gorm:"type:varchar(20)" json:"cancelled_by_role,omitempty"`        // 取消操作人角色（customer/seller/admin）
	CancellationReason string         `gorm:"type:text" json:"cancellation_reason,omitempty"`             // 取消原因
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	User        *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`                // 下单用户
	CancelledBy *User                `gorm:"foreignKey:CancelledByID" json:"cancelled_by,omitempty"` // 取消操作人
	Items       []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`              // 订单项
	History     []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`            // 状态历史
	Payment     *Payment             `gorm:"foreignKey:OrderID" json:"payment,omitempty"`            // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
