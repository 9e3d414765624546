package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	"github.com/vendorbridge/currency_engine_app/internal/core/services"
)

type RateResolverServiceTestSuite struct {
	suite.Suite
	mockStore *MockRateStore
	service   *services.RateResolverService
}

func (suite *RateResolverServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockRateStore)
	suite.service = services.NewRateResolverService(suite.mockStore, "USD")
}

func storedRate(from, to, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		ExchangeRateID: "rate-" + from + to,
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           decimal.RequireFromString(rate),
		RateDate:       time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Source:         "frankfurter",
		CreatedAt:      time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC),
	}
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_Identity() {
	ctx := context.Background()

	rate, err := suite.service.ResolveRate(ctx, "usd", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.NewFromInt(1)))
	suite.True(rate.Derived)
	suite.Equal(domain.RateSourceSystem, rate.Source)
	suite.mockStore.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_Direct() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "EUR").Return(storedRate("USD", "EUR", "0.85"), nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "USD", "EUR")

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("0.85")))
	suite.False(rate.Derived)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_InverseFallback() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, "EUR", "USD").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "EUR").Return(storedRate("USD", "EUR", "0.85"), nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "EUR", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Derived)
	// 1 / 0.85 at 12 decimal places
	expected := decimal.NewFromInt(1).DivRound(decimal.RequireFromString("0.85"), 12)
	suite.True(rate.Rate.Equal(expected), "got %s want %s", rate.Rate, expected)
	suite.Equal("frankfurter", rate.Source)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_CrossThroughBase() {
	ctx := context.Background()
	// No direct or inverse GBP/JPY.
	suite.mockStore.On("FindCurrentRate", ctx, "GBP", "JPY").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStore.On("FindCurrentRate", ctx, "JPY", "GBP").Return(nil, apperrors.ErrNotFound).Once()
	// Legs through USD.
	suite.mockStore.On("FindCurrentRate", ctx, "GBP", "USD").Return(storedRate("GBP", "USD", "1.25"), nil).Once()
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "JPY").Return(storedRate("USD", "JPY", "150"), nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "GBP", "JPY")

	suite.Require().NoError(err)
	suite.True(rate.Derived)
	suite.Equal(domain.RateSourceCalculated, rate.Source)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("187.5")), "got %s", rate.Rate)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_NotFound() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)

	rate, err := suite.service.ResolveRate(ctx, "GBP", "JPY")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_InvalidCode() {
	ctx := context.Background()

	_, err := suite.service.ResolveRate(ctx, "US", "EUR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStore.AssertNotCalled(suite.T(), "FindCurrentRate")
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_ZeroInverseNotUsed() {
	ctx := context.Background()
	suite.mockStore.On("FindCurrentRate", ctx, "EUR", "USD").Return(nil, apperrors.ErrNotFound)
	suite.mockStore.On("FindCurrentRate", ctx, "USD", "EUR").Return(storedRate("USD", "EUR", "0"), nil)

	_, err := suite.service.ResolveRate(ctx, "EUR", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RateResolverServiceTestSuite) TestGetRateHistory_DefaultsDays() {
	ctx := context.Background()
	points := []domain.RateHistoryPoint{{Date: time.Now(), Rate: decimal.RequireFromString("0.85"), Source: "frankfurter"}}
	suite.mockStore.On("ListRateHistory", ctx, "USD", "EUR", 30).Return(points, nil).Once()

	history, err := suite.service.GetRateHistory(ctx, "usd", "eur", 0)

	suite.Require().NoError(err)
	suite.Len(history, 1)
	suite.mockStore.AssertExpectations(suite.T())
}

func TestRateResolverServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateResolverServiceTestSuite))
}
