package repository

import (
	"errors"
	"time"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListForExport(filter OrderListFilter) ([]models.Order, error)
	ListStalePending(before time.Time, limit int) ([]models.Order, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	AppendHistory(history *models.OrderStatusHistory) error
	ListHistory(orderID uint) ([]models.OrderStatusHistory, error)
	ResolveReceiverEmailByOrderID(orderID uint) (string, error)
	CountOrders(sellerID uint) (int64, error)
	SumRevenue(sellerID uint, statuses []string) (models.Money, error)
	GroupCount(sellerID uint, column string) (map[string]int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// sellerScope 限定为包含指定卖家商品的订单
func sellerScope(query *gorm.DB, sellerID uint) *gorm.DB {
	if sellerID == 0 {
		return query
	}
	return query.Where(
		"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.seller_id = ?)",
		sellerID,
	)
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("User").Preload("Payment").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("order_status_histories.id desc") }).
		Preload("History.ChangedBy")
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("User").Preload("Payment")
	if err := query.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) applyListFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	query = sellerScope(query, filter.SellerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// List 分页查询订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.applyListFilter(r.db.Model(&models.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query.Preload("Items").Preload("User").Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListForExport 导出用全量查询（不分页）
func (r *GormOrderRepository) ListForExport(filter OrderListFilter) ([]models.Order, error) {
	query := r.applyListFilter(r.db.Model(&models.Order{}), filter)
	var orders []models.Order
	if err := query.Preload("User").Preload("CancelledBy").Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListStalePending 查询超时未处理的待支付订单
func (r *GormOrderRepository) ListStalePending(before time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.
		Where("status = ? AND payment_status = ? AND created_at < ?", "pending", "pending", before).
		Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateFields 按字段更新订单
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// AppendHistory 追加状态历史
func (r *GormOrderRepository) AppendHistory(history *models.OrderStatusHistory) error {
	return r.db.Create(history).Error
}

// ListHistory 获取订单状态历史（最新在前）
func (r *GormOrderRepository) ListHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	if err := r.db.Preload("ChangedBy").Where("order_id = ?", orderID).Order("id desc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// ResolveReceiverEmailByOrderID 根据订单 ID 解析状态通知的收件邮箱。
func (r *GormOrderRepository) ResolveReceiverEmailByOrderID(orderID uint) (string, error) {
	if orderID == 0 {
		return "", nil
	}
	var row struct {
		Email string
	}
	if err := r.db.Model(&models.Order{}).
		Select("users.email").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.id = ?", orderID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.Email, nil
}

// CountOrders 统计订单总数（卖家视角仅含其商品所在订单）
func (r *GormOrderRepository) CountOrders(sellerID uint) (int64, error) {
	var total int64
	query := sellerScope(r.db.Model(&models.Order{}), sellerID)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumRevenue 统计指定状态集合下的订单总额
func (r *GormOrderRepository) SumRevenue(sellerID uint, statuses []string) (models.Money, error) {
	var row struct {
		Total models.Money
	}
	query := sellerScope(r.db.Model(&models.Order{}), sellerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Select("COALESCE(SUM(total_amount), 0) AS total").Take(&row).Error; err != nil {
		return models.Money{}, err
	}
	return row.Total, nil
}

// GroupCount 按列分组统计订单数量（列名仅限内部白名单调用）
func (r *GormOrderRepository) GroupCount(sellerID uint, column string) (map[string]int64, error) {
	switch column {
	case "status", "payment_status", "cancelled_by_role", "cancellation_reason":
	default:
		return nil, errors.New("unsupported group column: " + column)
	}

	var rows []struct {
		Key   string
		Count int64
	}
	query := sellerScope(r.db.Model(&models.Order{}), sellerID)
	if column == "cancelled_by_role" || column == "cancellation_reason" {
		query = query.Where("status = ?", "cancelled")
	}
	if err := query.
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}
