package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// ExchangeRateResponse defines the structure for API responses containing a
// resolved exchange rate.
type ExchangeRateResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	RateDate     time.Time       `json:"rateDate"`
	Source       string          `json:"source"`
	Derived      bool            `json:"derived"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its response DTO.
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate,
		RateDate:     rate.RateDate,
		Source:       rate.Source,
		Derived:      rate.Derived,
	}
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	IsBase        bool   `json:"isBase"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO.
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:          curr.Code,
		Name:          curr.Name,
		Symbol:        curr.Symbol,
		DecimalPlaces: curr.DecimalPlaces,
		IsBase:        curr.IsBase,
	}
}

// ToListCurrencyResponse converts a slice of domain currencies to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}

// SetRateThresholdRequest overrides the alert threshold for one pair.
type SetRateThresholdRequest struct {
	FromCurrency string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currency"`
	Threshold    decimal.Decimal `json:"threshold" binding:"required"`
}
