package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// RateResolverSvc resolves exchange rates between any two supported
// currencies via direct, inverse or two-hop cross lookup.
type RateResolverSvc interface {
	// ResolveRate returns the effective rate for a pair. Returns a rate
	// wrapped around apperrors.ErrNotFound when no path exists; it never
	// fabricates a rate.
	ResolveRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// GetRateHistory returns historical observations for a pair over the
	// trailing number of days.
	GetRateHistory(ctx context.Context, fromCode, toCode string, days int) ([]domain.RateHistoryPoint, error)
}

// CurrencyReaderSvc defines read operations for currency reference data.
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// RateSvcFacade combines rate resolution and currency reference reads.
type RateSvcFacade interface {
	RateResolverSvc
	CurrencyReaderSvc
}

// ConversionSvc converts monetary amounts and exposes the retained
// conversion history and its statistics.
type ConversionSvc interface {
	// Convert converts amount from one currency to another, rounding at the
	// conversion boundary, and records the result in the history.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.CurrencyConversion, error)

	// ConvertBatch processes each request independently; a failed request
	// never aborts the batch.
	ConvertBatch(ctx context.Context, requests []domain.ConversionRequest) []domain.ConversionResult

	// GetConversionHistory returns retained conversions, newest first,
	// optionally filtered by currency, capped at limit.
	GetConversionHistory(ctx context.Context, fromCode, toCode string, limit int) ([]domain.CurrencyConversion, error)

	// GetConversionStatistics aggregates the retained history, optionally
	// restricted to one "FROM/TO" pair.
	GetConversionStatistics(ctx context.Context, currencyPair string) (*domain.ConversionStatistics, error)
}
