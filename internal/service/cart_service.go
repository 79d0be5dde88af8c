package service

import (
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// CartService 购物车服务
type CartService struct {
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	variantRepo     repository.ProductVariantRepository
	shippingService *ShippingService
}

// NewCartService 创建购物车服务
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.ProductVariantRepository,
	shippingService *ShippingService,
) *CartService {
	return &CartService{
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		shippingService: shippingService,
	}
}

// CartItemResult 购物车项视图
type CartItemResult struct {
	ID          uint         `json:"id"`
	ProductID   uint         `json:"product_id"`
	VariantID   *uint        `json:"variant_id,omitempty"`
	ProductName string       `json:"product_name"`
	VariantName string       `json:"variant_name,omitempty"`
	SKU         string       `json:"sku,omitempty"`
	SellerID    uint         `json:"seller_id"`
	SellerName  string       `json:"seller_name"`
	UnitPrice   models.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	LineTotal   models.Money `json:"line_total"`
}

// CartResult 购物车视图
type CartResult struct {
	ID         uint             `json:"id"`
	Items      []CartItemResult `json:"items"`
	TotalPrice models.Money     `json:"total_price"`
	ItemCount  int              `json:"item_count"`
}

// GetCart 获取用户购物车（不存在则创建）
func (s *CartService) GetCart(userID uint) (*CartResult, error) {
	if _, err := s.cartRepo.GetOrCreateByUser(userID); err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return buildCartResult(cart), nil
}

func buildCartResult(cart *models.Cart) *CartResult {
	result := &CartResult{Items: []CartItemResult{}}
	if cart == nil {
		return result
	}
	result.ID = cart.ID
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		unitPrice := item.Product.EffectiveUnitPrice(item.Variant)
		lineTotal := unitPrice.MulInt(item.Quantity)
		view := CartItemResult{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.Product.Name,
			SellerID:    item.Product.SellerID,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
		}
		if item.Product.Seller != nil {
			view.SellerName = item.Product.Seller.Username
		}
		if item.Variant != nil {
			view.VariantName = item.Variant.Name
			view.SKU = item.Variant.SKU
		}
		result.Items = append(result.Items, view)
		result.TotalPrice = result.TotalPrice.AddMoney(lineTotal)
		result.ItemCount += item.Quantity
	}
	return result
}

// availableStock 取可售库存：有规格时取规格库存，否则取商品库存
func availableStock(product *models.Product, variant *models.ProductVariant) int {
	if variant != nil {
		return variant.Stock
	}
	return product.Stock
}

// resolveLine 校验 商品+规格 是否可购买
func (s *CartService) resolveLine(productID uint, variantID *uint) (*models.Product, *models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, nil, ErrProductNotAvailable
	}

	var variant *models.ProductVariant
	if variantID != nil {
		variant, err = s.variantRepo.GetByID(*variantID)
		if err != nil {
			return nil, nil, err
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, nil, ErrVariantNotFound
		}
		if !variant.IsActive {
			return nil, nil, ErrVariantNotAvailable
		}
	}
	return product, variant, nil
}

// AddCartItemInput 添加购物车项参数
type AddCartItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// AddItem 添加购物车项：同 商品+规格 已存在时合并数量，合并后数量仍需通过库存校验
func (s *CartService) AddItem(userID uint, input AddCartItemInput) (*CartResult, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, variant, err := s.resolveLine(input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, product.ID, input.VariantID)
	if err != nil {
		return nil, err
	}

	combined := input.Quantity
	if existing != nil {
		combined += existing.Quantity
	}
	if combined > availableStock(product, variant) {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, combined); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			VariantID: input.VariantID,
			Quantity:  combined,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}
	return s.GetCart(userID)
}

// UpdateItem 以新数量替换购物车项数量（同样执行库存校验）
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*CartResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItemByID(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, variant, err := s.resolveLine(item.ProductID, item.VariantID)
	if err != nil {
		return nil, err
	}
	if quantity > availableStock(product, variant) {
		return nil, ErrInsufficientStock
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) (*CartResult, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItemByID(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(cart.ID)
}

// ShippingPreviewResult 购物车运费预览
type ShippingPreviewResult struct {
	Breakdown     []SellerShippingBreakdown `json:"breakdown"`
	TotalShipping models.Money              `json:"total_shipping"`
	GrandTotal    models.Money              `json:"grand_total"`
}

// ShippingPreview 按卖家分组预览购物车运费
func (s *CartService) ShippingPreview(userID uint) (*ShippingPreviewResult, error) {
	cartResult, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	lines := make([]ShippingLine, 0, len(cartResult.Items))
	for _, item := range cartResult.Items {
		lines = append(lines, ShippingLine{
			ProductID:  item.ProductID,
			SellerID:   item.SellerID,
			SellerName: item.SellerName,
			LineTotal:  item.LineTotal,
		})
	}

	breakdown, totalShipping, err := s.shippingService.QuoteLines(lines)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []SellerShippingBreakdown{}
	}
	return &ShippingPreviewResult{
		Breakdown:     breakdown,
		TotalShipping: totalShipping,
		GrandTotal:    cartResult.TotalPrice.AddMoney(totalShipping),
	}, nil
}
