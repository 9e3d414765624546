package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
)

type PriceNormalizationServiceTestSuite struct {
	suite.Suite
	mockResolver *MockRateResolver
	service      *services.PriceNormalizationService
}

func (suite *PriceNormalizationServiceTestSuite) SetupTest() {
	suite.mockResolver = new(MockRateResolver)
	suite.service = services.NewPriceNormalizationService(suite.mockResolver, "USD", 2)

	suite.mockResolver.On("ResolveRate", mock.Anything, "USD", "USD").
		Return(resolvedRate("USD", "USD", "1"), nil).Maybe()
	suite.mockResolver.On("ResolveRate", mock.Anything, "EUR", "USD").
		Return(resolvedRate("EUR", "USD", "1.18"), nil).Maybe()
}

func quote(id, productID, vendor, currency, unitPrice string) dto.PriceItemRequest {
	now := time.Now().UTC()
	return dto.PriceItemRequest{
		PriceItemID: id,
		ProductID:   productID,
		ProductName: "Widget",
		UnitPrice:   decimal.RequireFromString(unitPrice),
		Currency:    currency,
		MinQuantity: decimal.NewFromInt(1),
		ValidFrom:   now.AddDate(0, 0, -1),
		ValidTo:     now.AddDate(0, 0, 30),
		VendorID:    vendor,
		VendorName:  "Vendor " + vendor,
	}
}

func (suite *PriceNormalizationServiceTestSuite) TestComparison_NormalizesAndRanks() {
	ctx := context.Background()
	req := dto.PriceComparisonRequest{
		Items: []dto.PriceItemRequest{
			quote("p1", "widget-1", "v1", "USD", "10"),
			quote("p2", "widget-1", "v2", "EUR", "9"),
		},
	}

	comparisons, err := suite.service.CreatePriceComparison(ctx, req)

	suite.Require().NoError(err)
	suite.Require().Len(comparisons, 1)
	comparison := comparisons[0]
	suite.Equal("widget-1", comparison.ProductID)
	suite.Equal("USD", comparison.BaseCurrency)
	suite.Require().Len(comparison.Prices, 2)

	// 10 USD stays 10.00; 9 EUR at 1.18 becomes 10.62.
	cheapest := comparison.Prices[0]
	dearest := comparison.Prices[1]
	suite.Equal("v1", cheapest.VendorID)
	suite.True(cheapest.EffectivePrice.Equal(decimal.RequireFromString("10")), "got %s", cheapest.EffectivePrice)
	suite.Equal(1, cheapest.CompetitiveRank)
	suite.True(dearest.EffectivePrice.Equal(decimal.RequireFromString("10.62")), "got %s", dearest.EffectivePrice)
	suite.Equal(2, dearest.CompetitiveRank)

	// Variance is symmetric around the group mean of 10.31.
	suite.True(cheapest.PriceVariance.IsNegative())
	suite.True(dearest.PriceVariance.IsPositive())
	suite.True(cheapest.PriceVariance.Abs().Equal(dearest.PriceVariance.Abs()))

	market := comparison.Market
	suite.Equal("v1", market.LowestPrice.VendorID)
	suite.Equal("v2", market.HighestPrice.VendorID)
	suite.Equal("v1", market.RecommendedVendor.VendorID)
	suite.True(market.AveragePrice.Equal(decimal.RequireFromString("10.31")), "got %s", market.AveragePrice)
	suite.True(market.MedianPrice.Equal(decimal.RequireFromString("10.31")), "got %s", market.MedianPrice)
	suite.True(market.PriceSpread.Equal(decimal.RequireFromString("6.2")), "got %s", market.PriceSpread)
}

func (suite *PriceNormalizationServiceTestSuite) TestComparison_Deterministic() {
	ctx := context.Background()
	req := dto.PriceComparisonRequest{
		Items: []dto.PriceItemRequest{
			quote("p1", "widget-1", "v1", "USD", "10"),
			quote("p2", "widget-1", "v2", "EUR", "9"),
			quote("p3", "widget-2", "v1", "USD", "4"),
		},
	}

	first, err := suite.service.CreatePriceComparison(ctx, req)
	suite.Require().NoError(err)
	second, err := suite.service.CreatePriceComparison(ctx, req)
	suite.Require().NoError(err)

	suite.Require().Len(first, 2)
	suite.Equal(first[0].ProductID, second[0].ProductID)
	suite.Equal(first[1].ProductID, second[1].ProductID)
	for i := range first[0].Prices {
		suite.Equal(first[0].Prices[i].VendorID, second[0].Prices[i].VendorID)
		suite.Equal(first[0].Prices[i].CompetitiveRank, second[0].Prices[i].CompetitiveRank)
	}
}

func (suite *PriceNormalizationServiceTestSuite) TestComparison_MinimumQuantityWeightsRanking() {
	ctx := context.Background()
	bulkSeller := quote("p1", "widget-1", "v1", "USD", "10")
	bulkSeller.MinQuantity = decimal.NewFromInt(10)
	singleSeller := quote("p2", "widget-1", "v2", "USD", "11")

	comparisons, err := suite.service.CreatePriceComparison(ctx, dto.PriceComparisonRequest{
		Items: []dto.PriceItemRequest{bulkSeller, singleSeller},
	})

	suite.Require().NoError(err)
	suite.Require().Len(comparisons, 1)
	prices := comparisons[0].Prices
	suite.Require().Len(prices, 2)

	// v1's ten-unit minimum order costs 100 up front; v2 sells singles at 11.
	suite.Equal("v2", prices[0].VendorID)
	suite.True(prices[0].EffectivePrice.Equal(decimal.RequireFromString("11")), "got %s", prices[0].EffectivePrice)
	suite.Equal("v1", prices[1].VendorID)
	suite.True(prices[1].EffectivePrice.Equal(decimal.RequireFromString("100")), "got %s", prices[1].EffectivePrice)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_MinQuantityIgnoredWhenDisabled() {
	ctx := context.Background()
	item := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	item.MinQuantity = decimal.NewFromInt(10)

	options := suite.service.DefaultOptions()
	normalized, err := suite.service.NormalizePriceItem(ctx, item, options)
	suite.Require().NoError(err)
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("100")), "got %s", normalized.EffectivePrice)

	options.ConsiderMinQty = false
	normalized, err = suite.service.NormalizePriceItem(ctx, item, options)
	suite.Require().NoError(err)
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("10")), "got %s", normalized.EffectivePrice)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_WorthwhileBulkBeatsMinQuantity() {
	ctx := context.Background()
	item := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	item.MinQuantity = decimal.NewFromInt(10)
	item.BulkPrice = decimal.RequireFromString("9")
	item.BulkMinQuantity = decimal.NewFromInt(50)

	normalized, err := suite.service.NormalizePriceItem(ctx, item, suite.service.DefaultOptions())

	suite.Require().NoError(err)
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("9")), "got %s", normalized.EffectivePrice)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_ValidityWindowDefaultsToNinetyDays() {
	ctx := context.Background()
	options := suite.service.DefaultOptions()
	suite.Equal(90, options.PriceValidityDays)

	aged := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	aged.ValidFrom = time.Now().UTC().AddDate(0, 0, -60)
	normalized, err := suite.service.NormalizePriceItem(ctx, aged, options)
	suite.Require().NoError(err)
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("10")))

	stale := quote("p2", "widget-1", "v1", "USD", "10").ToDomain()
	stale.ValidFrom = time.Now().UTC().AddDate(0, 0, -91)
	_, err = suite.service.NormalizePriceItem(ctx, stale, options)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_BulkUsedWhenWorthwhile() {
	ctx := context.Background()
	item := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	item.BulkPrice = decimal.RequireFromString("9")
	item.BulkMinQuantity = decimal.NewFromInt(50)

	normalized, err := suite.service.NormalizePriceItem(ctx, item, suite.service.DefaultOptions())

	suite.Require().NoError(err)
	// 10% bulk savings clears the 5% bar.
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("9")), "got %s", normalized.EffectivePrice)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_BulkIgnoredUnderSavingsBar() {
	ctx := context.Background()
	item := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	item.BulkPrice = decimal.RequireFromString("9.60")
	item.BulkMinQuantity = decimal.NewFromInt(50)

	normalized, err := suite.service.NormalizePriceItem(ctx, item, suite.service.DefaultOptions())

	suite.Require().NoError(err)
	// 4% savings: unit price remains effective.
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("10")), "got %s", normalized.EffectivePrice)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_RejectsExpiredAndNonPositive() {
	ctx := context.Background()
	options := suite.service.DefaultOptions()

	expired := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	expired.ValidTo = time.Now().UTC().AddDate(0, 0, -1)
	_, err := suite.service.NormalizePriceItem(ctx, expired, options)
	suite.ErrorIs(err, apperrors.ErrValidation)

	free := quote("p2", "widget-1", "v1", "USD", "10").ToDomain()
	free.UnitPrice = decimal.Zero
	_, err = suite.service.NormalizePriceItem(ctx, free, options)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PriceNormalizationServiceTestSuite) TestNormalize_IncludeExpiredOverride() {
	ctx := context.Background()
	options := suite.service.DefaultOptions()
	options.IncludeExpired = true

	expired := quote("p1", "widget-1", "v1", "USD", "10").ToDomain()
	expired.ValidTo = time.Now().UTC().AddDate(0, 0, -1)

	normalized, err := suite.service.NormalizePriceItem(ctx, expired, options)
	suite.Require().NoError(err)
	suite.True(normalized.EffectivePrice.Equal(decimal.RequireFromString("10")))
}

func (suite *PriceNormalizationServiceTestSuite) TestComparison_SkipsGroupWithNoValidItems() {
	ctx := context.Background()
	expired := quote("p1", "widget-1", "v1", "USD", "10")
	expired.ValidTo = time.Now().UTC().AddDate(0, 0, -1)
	valid := quote("p2", "widget-2", "v1", "USD", "5")

	comparisons, err := suite.service.CreatePriceComparison(ctx, dto.PriceComparisonRequest{
		Items: []dto.PriceItemRequest{expired, valid},
	})

	suite.Require().NoError(err)
	suite.Require().Len(comparisons, 1)
	suite.Equal("widget-2", comparisons[0].ProductID)
}

func (suite *PriceNormalizationServiceTestSuite) TestComparison_MedianAveragesEvenGroups() {
	ctx := context.Background()
	req := dto.PriceComparisonRequest{
		Items: []dto.PriceItemRequest{
			quote("p1", "widget-1", "v1", "USD", "8"),
			quote("p2", "widget-1", "v2", "USD", "10"),
			quote("p3", "widget-1", "v3", "USD", "14"),
			quote("p4", "widget-1", "v4", "USD", "20"),
		},
	}

	comparisons, err := suite.service.CreatePriceComparison(ctx, req)

	suite.Require().NoError(err)
	suite.Require().Len(comparisons, 1)
	suite.True(comparisons[0].Market.MedianPrice.Equal(decimal.RequireFromString("12")), "got %s", comparisons[0].Market.MedianPrice)
}

func TestPriceNormalizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PriceNormalizationServiceTestSuite))
}
