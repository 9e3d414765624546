package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyConversion is the result of converting an amount between two
// currencies. It is retained in the bounded conversion history but is not a
// persisted fact. Invariant: ToAmount == round(FromAmount * Rate).
type CurrencyConversion struct {
	ConversionID string          `json:"conversionID"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	FromCurrency string          `json:"fromCurrency"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	ConvertedAt  time.Time       `json:"convertedAt"`
}

// ConversionRequest is a single entry in a batch conversion. RequestID is an
// optional caller-supplied correlation identifier echoed back in the result.
type ConversionRequest struct {
	RequestID    string          `json:"requestID,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
}

// ConversionResult records the per-request outcome of a batch conversion.
// A failed request carries Error and a nil Conversion; it never aborts the
// rest of the batch.
type ConversionResult struct {
	RequestID  string              `json:"requestID,omitempty"`
	Success    bool                `json:"success"`
	Conversion *CurrencyConversion `json:"conversion,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// HourlyConversionCount is one bucket of the 24h conversion histogram.
type HourlyConversionCount struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// ConversionStatistics aggregates the retained conversion history.
type ConversionStatistics struct {
	TotalConversions int                     `json:"totalConversions"`
	TotalAmount      decimal.Decimal         `json:"totalAmount"`
	AverageAmount    decimal.Decimal         `json:"averageAmount"`
	MostFrequentPair string                  `json:"mostFrequentPair"`
	HourlyHistogram  []HourlyConversionCount `json:"hourlyHistogram"`
}
