package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// ConvertRequest defines the data needed for a single currency conversion.
// Zero and negative amounts are allowed and convert linearly.
type ConvertRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currency"`
}

// BatchConvertItem is one entry of a batch conversion request.
type BatchConvertItem struct {
	RequestID    string          `json:"requestID"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,currency"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currency"`
}

// BatchConvertRequest defines a list of independent conversion requests.
type BatchConvertRequest struct {
	Requests []BatchConvertItem `json:"requests" binding:"required,min=1,dive"`
}

// ToConversionRequests converts the batch DTO into domain requests.
func (r BatchConvertRequest) ToConversionRequests() []domain.ConversionRequest {
	reqs := make([]domain.ConversionRequest, len(r.Requests))
	for i, item := range r.Requests {
		reqs[i] = domain.ConversionRequest{
			RequestID:    item.RequestID,
			Amount:       item.Amount,
			FromCurrency: item.FromCurrency,
			ToCurrency:   item.ToCurrency,
		}
	}
	return reqs
}

// ConversionResponse defines the data returned for a conversion.
type ConversionResponse struct {
	ConversionID string          `json:"conversionID"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	FromCurrency string          `json:"fromCurrency"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	ConvertedAt  string          `json:"convertedAt"`
}

// ToConversionResponse converts a domain.CurrencyConversion to its DTO.
func ToConversionResponse(conv *domain.CurrencyConversion) ConversionResponse {
	return ConversionResponse{
		ConversionID: conv.ConversionID,
		FromAmount:   conv.FromAmount,
		FromCurrency: conv.FromCurrency,
		ToAmount:     conv.ToAmount,
		ToCurrency:   conv.ToCurrency,
		Rate:         conv.Rate,
		Source:       conv.Source,
		ConvertedAt:  conv.ConvertedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// BatchConvertResult is the per-request outcome returned for batch
// conversions, correlated by the caller-supplied request ID.
type BatchConvertResult struct {
	RequestID  string              `json:"requestID,omitempty"`
	Success    bool                `json:"success"`
	Conversion *ConversionResponse `json:"conversion,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// ToBatchConvertResults converts domain batch results to DTOs.
func ToBatchConvertResults(results []domain.ConversionResult) []BatchConvertResult {
	out := make([]BatchConvertResult, len(results))
	for i, res := range results {
		item := BatchConvertResult{
			RequestID: res.RequestID,
			Success:   res.Success,
			Error:     res.Error,
		}
		if res.Conversion != nil {
			conv := ToConversionResponse(res.Conversion)
			item.Conversion = &conv
		}
		out[i] = item
	}
	return out
}
