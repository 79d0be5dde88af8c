package service

import (
	"sort"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ShippingService 运费服务
type ShippingService struct {
	shippingRepo repository.ShippingRepository
	userRepo     repository.UserRepository
}

// NewShippingService 创建运费服务
func NewShippingService(shippingRepo repository.ShippingRepository, userRepo repository.UserRepository) *ShippingService {
	return &ShippingService{shippingRepo: shippingRepo, userRepo: userRepo}
}

// 默认卖家运费设置：固定运费 5.00，无包邮门槛
var defaultFlatRate = models.NewMoneyFromString("5.00")

// CalculateShippingCost 运费计算规则：
// 设置缺失 / 停用 / 包邮类型时为 0；固定运费启用门槛且小计达标时为 0；否则收固定运费。
func CalculateShippingCost(method *models.ShippingMethod, subtotal models.Money) models.Money {
	if method == nil || !method.IsActive || method.ShippingType == constants.ShippingTypeFree {
		return models.Money{}
	}
	if method.ShippingType != constants.ShippingTypeFlatRate {
		return models.Money{}
	}
	if method.FreeShippingThreshold.GreaterThan(decimal.Zero) &&
		subtotal.GreaterThanOrEqual(method.FreeShippingThreshold.Decimal) {
		return models.Money{}
	}
	return method.FlatRateAmount
}

// GetOrCreateMethod 获取卖家运费设置，不存在时创建默认设置
func (s *ShippingService) GetOrCreateMethod(sellerID uint) (*models.ShippingMethod, error) {
	method, err := s.shippingRepo.GetBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	if method != nil {
		return method, nil
	}
	created := &models.ShippingMethod{
		SellerID:       sellerID,
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: defaultFlatRate,
		IsActive:       true,
	}
	if err := s.shippingRepo.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateShippingMethodInput 运费设置更新参数
type UpdateShippingMethodInput struct {
	ShippingType          *string       `json:"shipping_type"`
	FlatRateAmount        *models.Money `json:"flat_rate_amount"`
	FreeShippingThreshold *models.Money `json:"free_shipping_threshold"`
	IsActive              *bool         `json:"is_active"`
}

// UpdateMethod 更新卖家运费设置
func (s *ShippingService) UpdateMethod(sellerID uint, input UpdateShippingMethodInput) (*models.ShippingMethod, error) {
	method, err := s.GetOrCreateMethod(sellerID)
	if err != nil {
		return nil, err
	}
	if input.ShippingType != nil {
		switch *input.ShippingType {
		case constants.ShippingTypeFree, constants.ShippingTypeFlatRate:
			method.ShippingType = *input.ShippingType
		default:
			return nil, ErrShippingInvalid
		}
	}
	if input.FlatRateAmount != nil {
		if input.FlatRateAmount.LessThan(decimal.Zero) {
			return nil, ErrShippingInvalid
		}
		method.FlatRateAmount = *input.FlatRateAmount
	}
	if input.FreeShippingThreshold != nil {
		if input.FreeShippingThreshold.LessThan(decimal.Zero) {
			return nil, ErrShippingInvalid
		}
		method.FreeShippingThreshold = *input.FreeShippingThreshold
	}
	if input.IsActive != nil {
		method.IsActive = *input.IsActive
	}
	if err := s.shippingRepo.Update(method); err != nil {
		return nil, err
	}
	return method, nil
}

// ShippingQuote 单卖家运费报价
type ShippingQuote struct {
	ShippingCost          models.Money `json:"shipping_cost"`
	ShippingType          string       `json:"shipping_type"`
	FreeShippingThreshold models.Money `json:"free_shipping_threshold"`
}

// CalculateForSeller 按卖家与金额计算运费（设置缺失视为包邮）
func (s *ShippingService) CalculateForSeller(sellerID uint, cartTotal models.Money) (*ShippingQuote, error) {
	method, err := s.shippingRepo.GetBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	quote := &ShippingQuote{
		ShippingCost: CalculateShippingCost(method, cartTotal),
		ShippingType: constants.ShippingTypeFree,
	}
	if method != nil {
		quote.ShippingType = method.ShippingType
		quote.FreeShippingThreshold = method.FreeShippingThreshold
	}
	return quote, nil
}

// ShippingLine 运费计算输入行（购物车或订单项）
type ShippingLine struct {
	ProductID  uint
	SellerID   uint
	SellerName string
	LineTotal  models.Money
}

// SellerShippingBreakdown 卖家维度运费明细
type SellerShippingBreakdown struct {
	SellerID                 uint         `json:"seller_id"`
	SellerName               string       `json:"seller_name"`
	Subtotal                 models.Money `json:"subtotal"`
	ShippingCost             models.Money `json:"shipping_cost"`
	ShippingType             string       `json:"shipping_type"`
	FreeShippingThreshold    models.Money `json:"free_shipping_threshold"`
	QualifiesForFreeShipping bool         `json:"qualifies_for_free_shipping"`
}

// QuoteLines 按卖家分组计算运费明细与总运费。
// 命中启用中的商品级覆盖（override_seller_settings=true）的行按覆盖规则计费，
// 且不计入卖家包邮门槛的小计池；同一商品的覆盖运费只收取一次。
func (s *ShippingService) QuoteLines(lines []ShippingLine) ([]SellerShippingBreakdown, models.Money, error) {
	if len(lines) == 0 {
		return nil, models.Money{}, nil
	}

	productIDs := make([]uint, 0, len(lines))
	sellerIDs := make([]uint, 0, len(lines))
	seenProduct := make(map[uint]bool)
	seenSeller := make(map[uint]bool)
	for _, line := range lines {
		if !seenProduct[line.ProductID] {
			seenProduct[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
		if !seenSeller[line.SellerID] {
			seenSeller[line.SellerID] = true
			sellerIDs = append(sellerIDs, line.SellerID)
		}
	}

	overrides, err := s.shippingRepo.ListOverridesByProducts(productIDs)
	if err != nil {
		return nil, models.Money{}, err
	}
	methods, err := s.shippingRepo.ListBySellers(sellerIDs)
	if err != nil {
		return nil, models.Money{}, err
	}

	type sellerGroup struct {
		name         string
		subtotal     models.Money
		pooled       models.Money
		overrideCost models.Money
		charged      map[uint]bool
	}
	groups := make(map[uint]*sellerGroup)
	for _, line := range lines {
		group, ok := groups[line.SellerID]
		if !ok {
			group = &sellerGroup{name: line.SellerName, charged: make(map[uint]bool)}
			groups[line.SellerID] = group
		}
		group.subtotal = group.subtotal.AddMoney(line.LineTotal)

		override, hasOverride := overrides[line.ProductID]
		if hasOverride && override.IsActive && override.OverrideSellerSettings {
			if override.ShippingType == constants.ShippingTypeFlatRate && !group.charged[line.ProductID] {
				group.overrideCost = group.overrideCost.AddMoney(override.FlatRateAmount)
				group.charged[line.ProductID] = true
			}
			continue
		}
		group.pooled = group.pooled.AddMoney(line.LineTotal)
	}

	// 调用方未预载卖家信息时补齐卖家名称
	missingNames := make([]uint, 0)
	for sellerID, group := range groups {
		if group.name == "" {
			missingNames = append(missingNames, sellerID)
		}
	}
	if len(missingNames) > 0 {
		sellers, err := s.userRepo.ListByIDs(missingNames)
		if err != nil {
			return nil, models.Money{}, err
		}
		for i := range sellers {
			if group, ok := groups[sellers[i].ID]; ok {
				group.name = sellers[i].Username
			}
		}
	}

	breakdowns := make([]SellerShippingBreakdown, 0, len(groups))
	var totalShipping models.Money
	for sellerID, group := range groups {
		var method *models.ShippingMethod
		if m, ok := methods[sellerID]; ok {
			copied := m
			method = &copied
		}
		sellerCost := CalculateShippingCost(method, group.pooled)
		cost := sellerCost.AddMoney(group.overrideCost)

		breakdown := SellerShippingBreakdown{
			SellerID:     sellerID,
			SellerName:   group.name,
			Subtotal:     group.subtotal,
			ShippingCost: cost,
			ShippingType: constants.ShippingTypeFree,
		}
		if method != nil {
			breakdown.ShippingType = method.ShippingType
			breakdown.FreeShippingThreshold = method.FreeShippingThreshold
			breakdown.QualifiesForFreeShipping = method.FreeShippingThreshold.GreaterThan(decimal.Zero) &&
				group.pooled.GreaterThanOrEqual(method.FreeShippingThreshold.Decimal)
		}
		breakdowns = append(breakdowns, breakdown)
		totalShipping = totalShipping.AddMoney(cost)
	}

	sort.Slice(breakdowns, func(i, j int) bool { return breakdowns[i].SellerID < breakdowns[j].SellerID })
	return breakdowns, totalShipping, nil
}

// GetOverride 获取商品运费覆盖
func (s *ShippingService) GetOverride(productID uint) (*models.ProductShippingOverride, error) {
	return s.shippingRepo.GetOverrideByProduct(productID)
}

// SaveOverrideInput 商品运费覆盖保存参数
type SaveOverrideInput struct {
	OverrideSellerSettings bool         `json:"override_seller_settings"`
	ShippingType           string       `json:"shipping_type" binding:"required"`
	FlatRateAmount         models.Money `json:"flat_rate_amount"`
	IsActive               bool         `json:"is_active"`
}

// SaveOverride 保存商品运费覆盖
func (s *ShippingService) SaveOverride(productID uint, input SaveOverrideInput) (*models.ProductShippingOverride, error) {
	switch input.ShippingType {
	case constants.ShippingTypeFree, constants.ShippingTypeFlatRate:
	default:
		return nil, ErrShippingInvalid
	}
	if input.FlatRateAmount.LessThan(decimal.Zero) {
		return nil, ErrShippingInvalid
	}
	override := &models.ProductShippingOverride{
		ProductID:              productID,
		OverrideSellerSettings: input.OverrideSellerSettings,
		ShippingType:           input.ShippingType,
		FlatRateAmount:         input.FlatRateAmount,
		IsActive:               input.IsActive,
	}
	if err := s.shippingRepo.SaveOverride(override); err != nil {
		return nil, err
	}
	return override, nil
}

// DeleteOverride 删除商品运费覆盖
func (s *ShippingService) DeleteOverride(productID uint) error {
	return s.shippingRepo.DeleteOverride(productID)
}
