package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// ShippingRepository 运费设置数据访问接口
type ShippingRepository interface {
	GetBySeller(sellerID uint) (*models.ShippingMethod, error)
	ListBySellers(sellerIDs []uint) (map[uint]models.ShippingMethod, error)
	Create(method *models.ShippingMethod) error
	Update(method *models.ShippingMethod) error
	GetOverrideByProduct(productID uint) (*models.ProductShippingOverride, error)
	ListOverridesByProducts(productIDs []uint) (map[uint]models.ProductShippingOverride, error)
	SaveOverride(override *models.ProductShippingOverride) error
	DeleteOverride(productID uint) error
}

// GormShippingRepository GORM 实现
type GormShippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository 创建运费设置仓库
func NewShippingRepository(db *gorm.DB) *GormShippingRepository {
	return &GormShippingRepository{db: db}
}

// GetBySeller 获取卖家运费设置
func (r *GormShippingRepository) GetBySeller(sellerID uint) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.Where("seller_id = ?", sellerID).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// ListBySellers 批量获取卖家运费设置
func (r *GormShippingRepository) ListBySellers(sellerIDs []uint) (map[uint]models.ShippingMethod, error) {
	result := make(map[uint]models.ShippingMethod)
	if len(sellerIDs) == 0 {
		return result, nil
	}
	var methods []models.ShippingMethod
	if err := r.db.Where("seller_id IN ?", sellerIDs).Find(&methods).Error; err != nil {
		return nil, err
	}
	for _, method := range methods {
		result[method.SellerID] = method
	}
	return result, nil
}

// Create 创建卖家运费设置
func (r *GormShippingRepository) Create(method *models.ShippingMethod) error {
	return r.db.Create(method).Error
}

// Update 更新卖家运费设置
func (r *GormShippingRepository) Update(method *models.ShippingMethod) error {
	return r.db.Save(method).Error
}

// GetOverrideByProduct 获取商品运费覆盖
func (r *GormShippingRepository) GetOverrideByProduct(productID uint) (*models.ProductShippingOverride, error) {
	var override models.ProductShippingOverride
	if err := r.db.Where("product_id = ?", productID).First(&override).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

// ListOverridesByProducts 批量获取商品运费覆盖
func (r *GormShippingRepository) ListOverridesByProducts(productIDs []uint) (map[uint]models.ProductShippingOverride, error) {
	result := make(map[uint]models.ProductShippingOverride)
	if len(productIDs) == 0 {
		return result, nil
	}
	var overrides []models.ProductShippingOverride
	if err := r.db.Where("product_id IN ?", productIDs).Find(&overrides).Error; err != nil {
		return nil, err
	}
	for _, override := range overrides {
		result[override.ProductID] = override
	}
	return result, nil
}

// SaveOverride 保存商品运费覆盖（存在则更新）
func (r *GormShippingRepository) SaveOverride(override *models.ProductShippingOverride) error {
	existing, err := r.GetOverrideByProduct(override.ProductID)
	if err != nil {
		return err
	}
	if existing != nil {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	}
	return r.db.Save(override).Error
}

// DeleteOverride 删除商品运费覆盖
func (r *GormShippingRepository) DeleteOverride(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.ProductShippingOverride{}).Error
}
