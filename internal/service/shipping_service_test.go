package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupShippingServiceTest(t *testing.T) (*ShippingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:shipping_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.ShippingMethod{},
		&models.ProductShippingOverride{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewShippingService(repository.NewShippingRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func TestCalculateShippingCost(t *testing.T) {
	flat := &models.ShippingMethod{
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("8.00"),
		IsActive:       true,
	}
	if got := CalculateShippingCost(flat, models.NewMoneyFromString("50.00")); got.String() != "8.00" {
		t.Fatalf("flat rate cost want 8.00 got %s", got)
	}

	flat.FreeShippingThreshold = models.NewMoneyFromString("99.00")
	if got := CalculateShippingCost(flat, models.NewMoneyFromString("99.00")); got.String() != "0.00" {
		t.Fatalf("subtotal at threshold should be free, got %s", got)
	}
	if got := CalculateShippingCost(flat, models.NewMoneyFromString("98.99")); got.String() != "8.00" {
		t.Fatalf("subtotal below threshold should be charged, got %s", got)
	}

	thresholded := &models.ShippingMethod{
		ShippingType:          constants.ShippingTypeFlatRate,
		FlatRateAmount:        models.NewMoneyFromString("5.00"),
		FreeShippingThreshold: models.NewMoneyFromString("20.00"),
		IsActive:              true,
	}
	if got := CalculateShippingCost(thresholded, models.NewMoneyFromString("25.00")); got.String() != "0.00" {
		t.Fatalf("subtotal over threshold should be free, got %s", got)
	}
	if got := CalculateShippingCost(thresholded, models.NewMoneyFromString("10.00")); got.String() != "5.00" {
		t.Fatalf("subtotal under threshold want 5.00 got %s", got)
	}

	if got := CalculateShippingCost(nil, models.NewMoneyFromString("10.00")); got.String() != "0.00" {
		t.Fatalf("missing method should be free, got %s", got)
	}

	inactive := &models.ShippingMethod{
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("8.00"),
		IsActive:       false,
	}
	if got := CalculateShippingCost(inactive, models.NewMoneyFromString("10.00")); got.String() != "0.00" {
		t.Fatalf("inactive method should be free, got %s", got)
	}

	free := &models.ShippingMethod{ShippingType: constants.ShippingTypeFree, IsActive: true}
	if got := CalculateShippingCost(free, models.NewMoneyFromString("10.00")); got.String() != "0.00" {
		t.Fatalf("free method should be free, got %s", got)
	}
}

func TestGetOrCreateMethodDefaults(t *testing.T) {
	svc, db := setupShippingServiceTest(t)

	method, err := svc.GetOrCreateMethod(7)
	if err != nil {
		t.Fatalf("get or create method failed: %v", err)
	}
	if method.ShippingType != constants.ShippingTypeFlatRate {
		t.Fatalf("default shipping type want flat_rate got %s", method.ShippingType)
	}
	if method.FlatRateAmount.String() != "5.00" {
		t.Fatalf("default flat rate want 5.00 got %s", method.FlatRateAmount)
	}
	if !method.IsActive {
		t.Fatal("default method should be active")
	}

	again, err := svc.GetOrCreateMethod(7)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if again.ID != method.ID {
		t.Fatalf("expected same method row, got %d and %d", method.ID, again.ID)
	}

	var count int64
	if err := db.Model(&models.ShippingMethod{}).Where("seller_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count methods failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single method row, got %d", count)
	}
}

func TestUpdateMethodValidation(t *testing.T) {
	svc, _ := setupShippingServiceTest(t)

	badType := "express"
	if _, err := svc.UpdateMethod(1, UpdateShippingMethodInput{ShippingType: &badType}); err != ErrShippingInvalid {
		t.Fatalf("invalid shipping type want ErrShippingInvalid got %v", err)
	}

	negative := models.NewMoneyFromString("-1.00")
	if _, err := svc.UpdateMethod(1, UpdateShippingMethodInput{FlatRateAmount: &negative}); err != ErrShippingInvalid {
		t.Fatalf("negative flat rate want ErrShippingInvalid got %v", err)
	}

	freeType := constants.ShippingTypeFree
	active := false
	updated, err := svc.UpdateMethod(1, UpdateShippingMethodInput{ShippingType: &freeType, IsActive: &active})
	if err != nil {
		t.Fatalf("update method failed: %v", err)
	}
	if updated.ShippingType != constants.ShippingTypeFree || updated.IsActive {
		t.Fatalf("unexpected method after update: %+v", updated)
	}
}

func TestQuoteLinesPoolsBySeller(t *testing.T) {
	svc, db := setupShippingServiceTest(t)

	method := models.ShippingMethod{
		SellerID:              1,
		ShippingType:          constants.ShippingTypeFlatRate,
		FlatRateAmount:        models.NewMoneyFromString("10.00"),
		FreeShippingThreshold: models.NewMoneyFromString("99.00"),
		IsActive:              true,
	}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create method failed: %v", err)
	}

	// 两行同卖家小计合并后达到包邮门槛
	lines := []ShippingLine{
		{ProductID: 1, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("60.00")},
		{ProductID: 2, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("40.00")},
	}
	breakdown, total, err := svc.QuoteLines(lines)
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 seller breakdown, got %d", len(breakdown))
	}
	if breakdown[0].ShippingCost.String() != "0.00" || !breakdown[0].QualifiesForFreeShipping {
		t.Fatalf("pooled subtotal should qualify for free shipping: %+v", breakdown[0])
	}
	if total.String() != "0.00" {
		t.Fatalf("total shipping want 0.00 got %s", total)
	}

	// 单行未达门槛收固定运费
	breakdown, total, err = svc.QuoteLines(lines[:1])
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if breakdown[0].ShippingCost.String() != "10.00" || total.String() != "10.00" {
		t.Fatalf("below threshold should charge flat rate: %+v total=%s", breakdown[0], total)
	}
}

func TestQuoteLinesMultiSeller(t *testing.T) {
	svc, db := setupShippingServiceTest(t)

	methods := []models.ShippingMethod{
		{SellerID: 1, ShippingType: constants.ShippingTypeFlatRate, FlatRateAmount: models.NewMoneyFromString("10.00"), IsActive: true},
		{SellerID: 2, ShippingType: constants.ShippingTypeFree, IsActive: true},
	}
	for i := range methods {
		if err := db.Create(&methods[i]).Error; err != nil {
			t.Fatalf("create method failed: %v", err)
		}
	}

	lines := []ShippingLine{
		{ProductID: 1, SellerID: 2, SellerName: "bob", LineTotal: models.NewMoneyFromString("20.00")},
		{ProductID: 2, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("30.00")},
		{ProductID: 3, SellerID: 3, SellerName: "carol", LineTotal: models.NewMoneyFromString("15.00")},
	}
	breakdown, total, err := svc.QuoteLines(lines)
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if len(breakdown) != 3 {
		t.Fatalf("expected 3 seller breakdowns, got %d", len(breakdown))
	}
	// 按卖家 ID 排序
	if breakdown[0].SellerID != 1 || breakdown[1].SellerID != 2 || breakdown[2].SellerID != 3 {
		t.Fatalf("breakdowns not sorted by seller id: %+v", breakdown)
	}
	if breakdown[0].ShippingCost.String() != "10.00" {
		t.Fatalf("seller 1 cost want 10.00 got %s", breakdown[0].ShippingCost)
	}
	if breakdown[1].ShippingCost.String() != "0.00" {
		t.Fatalf("free shipping seller cost want 0.00 got %s", breakdown[1].ShippingCost)
	}
	// 无设置的卖家视为包邮
	if breakdown[2].ShippingCost.String() != "0.00" || breakdown[2].ShippingType != constants.ShippingTypeFree {
		t.Fatalf("seller without settings should be free: %+v", breakdown[2])
	}
	if total.String() != "10.00" {
		t.Fatalf("total shipping want 10.00 got %s", total)
	}
}

func TestQuoteLinesResolvesSellerName(t *testing.T) {
	svc, db := setupShippingServiceTest(t)

	seller := models.User{
		ID:           5,
		Email:        "dora@example.com",
		Username:     "dora",
		PasswordHash: "hash",
		Role:         constants.RoleSeller,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("create seller failed: %v", err)
	}

	lines := []ShippingLine{
		{ProductID: 1, SellerID: 5, LineTotal: models.NewMoneyFromString("20.00")},
	}
	breakdown, _, err := svc.QuoteLines(lines)
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if len(breakdown) != 1 || breakdown[0].SellerName != "dora" {
		t.Fatalf("seller name should be backfilled: %+v", breakdown)
	}
}

func TestQuoteLinesProductOverride(t *testing.T) {
	svc, db := setupShippingServiceTest(t)

	method := models.ShippingMethod{
		SellerID:              1,
		ShippingType:          constants.ShippingTypeFlatRate,
		FlatRateAmount:        models.NewMoneyFromString("10.00"),
		FreeShippingThreshold: models.NewMoneyFromString("50.00"),
		IsActive:              true,
	}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create method failed: %v", err)
	}
	override := models.ProductShippingOverride{
		ProductID:              1,
		OverrideSellerSettings: true,
		ShippingType:           constants.ShippingTypeFlatRate,
		FlatRateAmount:         models.NewMoneyFromString("3.00"),
		IsActive:               true,
	}
	if err := db.Create(&override).Error; err != nil {
		t.Fatalf("create override failed: %v", err)
	}

	// 覆盖行不计入门槛小计池：剩余 40.00 未达 50.00 门槛，卖家运费照收
	lines := []ShippingLine{
		{ProductID: 1, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("60.00")},
		{ProductID: 2, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("40.00")},
	}
	breakdown, total, err := svc.QuoteLines(lines)
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 breakdown, got %d", len(breakdown))
	}
	if total.String() != "13.00" {
		t.Fatalf("override + seller cost want 13.00 got %s", total)
	}
	if breakdown[0].Subtotal.String() != "100.00" {
		t.Fatalf("subtotal still counts all lines, got %s", breakdown[0].Subtotal)
	}

	// 同一覆盖商品重复出现只收一次覆盖运费
	repeated := append(lines, ShippingLine{ProductID: 1, SellerID: 1, SellerName: "alice", LineTotal: models.NewMoneyFromString("60.00")})
	_, total, err = svc.QuoteLines(repeated)
	if err != nil {
		t.Fatalf("quote lines failed: %v", err)
	}
	if total.String() != "13.00" {
		t.Fatalf("repeated override product should charge once, got %s", total)
	}
}

func TestSaveOverrideValidation(t *testing.T) {
	svc, _ := setupShippingServiceTest(t)

	if _, err := svc.SaveOverride(1, SaveOverrideInput{ShippingType: "express"}); err != ErrShippingInvalid {
		t.Fatalf("invalid type want ErrShippingInvalid got %v", err)
	}
	if _, err := svc.SaveOverride(1, SaveOverrideInput{
		ShippingType:   constants.ShippingTypeFlatRate,
		FlatRateAmount: models.NewMoneyFromString("-2.00"),
	}); err != ErrShippingInvalid {
		t.Fatalf("negative amount want ErrShippingInvalid got %v", err)
	}

	saved, err := svc.SaveOverride(1, SaveOverrideInput{
		OverrideSellerSettings: true,
		ShippingType:           constants.ShippingTypeFlatRate,
		FlatRateAmount:         models.NewMoneyFromString("4.00"),
		IsActive:               true,
	})
	if err != nil {
		t.Fatalf("save override failed: %v", err)
	}
	if saved.ProductID != 1 || saved.FlatRateAmount.String() != "4.00" {
		t.Fatalf("unexpected saved override: %+v", saved)
	}

	// 再次保存为 upsert
	updated, err := svc.SaveOverride(1, SaveOverrideInput{
		OverrideSellerSettings: true,
		ShippingType:           constants.ShippingTypeFree,
		IsActive:               true,
	})
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if updated.ShippingType != constants.ShippingTypeFree {
		t.Fatalf("override not updated: %+v", updated)
	}

	got, err := svc.GetOverride(1)
	if err != nil {
		t.Fatalf("get override failed: %v", err)
	}
	if got == nil || got.ShippingType != constants.ShippingTypeFree {
		t.Fatalf("unexpected override after upsert: %+v", got)
	}

	if err := svc.DeleteOverride(1); err != nil {
		t.Fatalf("delete override failed: %v", err)
	}
	got, err = svc.GetOverride(1)
	if err != nil {
		t.Fatalf("get override after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("override should be gone, got %+v", got)
	}
}
