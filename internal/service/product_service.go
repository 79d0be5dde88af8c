package service

import (
	"strings"

	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, variantRepo: variantRepo, categoryRepo: categoryRepo}
}

// ListProducts 商品列表（公开列表只展示上架商品）
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct 按 ID 获取商品详情
func (s *ProductService) GetProduct(id uint, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || (onlyActive && !product.IsActive) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductBySlug 按 slug 获取商品详情
func (s *ProductService) GetProductBySlug(slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || (onlyActive && !product.IsActive) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// canManageProduct 管理员或商品归属卖家可管理
func canManageProduct(actor *models.User, product *models.Product) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || product.SellerID == actor.ID
}

// ProductInput 商品创建/更新参数
type ProductInput struct {
	CategoryID    uint               `json:"category_id" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	Slug          string             `json:"slug" binding:"required"`
	Description   string             `json:"description"`
	Price         models.Money       `json:"price" binding:"required"`
	DiscountPrice *models.Money      `json:"discount_price"`
	Stock         int                `json:"stock"`
	Weight        *decimal.Decimal   `json:"weight"`
	Images        models.StringArray `json:"images"`
	IsActive      *bool              `json:"is_active"`
	SortOrder     int                `json:"sort_order"`
}

// CreateProduct 卖家创建商品（slug 唯一，分类必须存在）
func (s *ProductService) CreateProduct(actor *models.User, input ProductInput) (*models.Product, error) {
	if actor == nil || (!actor.IsSeller() && !actor.IsAdmin()) {
		return nil, ErrPermissionDenied
	}
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	product := &models.Product{
		SellerID:      actor.ID,
		CategoryID:    input.CategoryID,
		Name:          strings.TrimSpace(input.Name),
		Slug:          slug,
		Description:   input.Description,
		PriceAmount:   input.Price,
		DiscountPrice: input.DiscountPrice,
		Stock:         input.Stock,
		Weight:        input.Weight,
		Images:        input.Images,
		IsActive:      true,
		SortOrder:     input.SortOrder,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(product.ID)
}

// UpdateProduct 更新商品（仅管理员或归属卖家）
func (s *ProductService) UpdateProduct(actor *models.User, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !canManageProduct(actor, product) {
		return nil, ErrPermissionDenied
	}
	slug := strings.TrimSpace(input.Slug)
	if slug != product.Slug {
		existing, err := s.productRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
	}
	if input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Slug = slug
	product.Description = input.Description
	product.PriceAmount = input.Price
	product.DiscountPrice = input.DiscountPrice
	product.Stock = input.Stock
	product.Weight = input.Weight
	product.Images = input.Images
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(product.ID)
}

// DeleteProduct 删除商品（软删除）
func (s *ProductService) DeleteProduct(actor *models.User, id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !canManageProduct(actor, product) {
		return ErrPermissionDenied
	}
	return s.productRepo.Delete(id)
}

// VariantInput 商品规格创建/更新参数
type VariantInput struct {
	Name            string           `json:"name" binding:"required"`
	SKU             string           `json:"sku" binding:"required"`
	PriceAdjustment models.Money     `json:"price_adjustment"`
	Stock           int              `json:"stock"`
	Weight          *decimal.Decimal `json:"weight"`
	Options         models.JSON      `json:"options"`
	IsActive        *bool            `json:"is_active"`
}

// CreateVariant 为商品创建规格（SKU 全局唯一）
func (s *ProductService) CreateVariant(actor *models.User, productID uint, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !canManageProduct(actor, product) {
		return nil, ErrPermissionDenied
	}
	sku := strings.TrimSpace(input.SKU)
	existing, err := s.variantRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSKUTaken
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	variant := &models.ProductVariant{
		ProductID:       productID,
		Name:            strings.TrimSpace(input.Name),
		SKU:             sku,
		PriceAdjustment: input.PriceAdjustment,
		Stock:           input.Stock,
		Weight:          input.Weight,
		Options:         input.Options,
		IsActive:        true,
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant 更新商品规格
func (s *ProductService) UpdateVariant(actor *models.User, productID, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !canManageProduct(actor, product) {
		return nil, ErrPermissionDenied
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != productID {
		return nil, ErrVariantNotFound
	}
	sku := strings.TrimSpace(input.SKU)
	if sku != variant.SKU {
		existing, err := s.variantRepo.GetBySKU(sku)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != variantID {
			return nil, ErrSKUTaken
		}
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	variant.Name = strings.TrimSpace(input.Name)
	variant.SKU = sku
	variant.PriceAdjustment = input.PriceAdjustment
	variant.Stock = input.Stock
	variant.Weight = input.Weight
	variant.Options = input.Options
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant 删除商品规格
func (s *ProductService) DeleteVariant(actor *models.User, productID, variantID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !canManageProduct(actor, product) {
		return ErrPermissionDenied
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil || variant.ProductID != productID {
		return ErrVariantNotFound
	}
	return s.variantRepo.Delete(variantID)
}
