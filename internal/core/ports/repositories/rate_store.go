package repositories

import (
	"context"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// RateStoreReader defines the read path to the external rate store.
type RateStoreReader interface {
	// FindCurrentRate retrieves the effective directly observed rate for a
	// pair. Returns apperrors.ErrNotFound when no direct rate exists.
	FindCurrentRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// ListCurrentRates retrieves all effective directly observed rates.
	ListCurrentRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// ListRateHistory retrieves historical observations for a pair over the
	// trailing number of days, oldest first.
	ListRateHistory(ctx context.Context, fromCode, toCode string, days int) ([]domain.RateHistoryPoint, error)
}

// CurrencyReader defines read operations for currency reference data.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// RateStoreWriter defines the write path used by the automation scheduler to
// land freshly fetched observations. Saving a rate both replaces the current
// rate for the pair and appends a history row.
type RateStoreWriter interface {
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateStoreFacade combines the rate store read interfaces. Resolution and
// conversion only ever need this; the writer stays with the scheduler.
type RateStoreFacade interface {
	RateStoreReader
	CurrencyReader
}

// RateStore is the full contract a rate store adapter implements.
type RateStore interface {
	RateStoreFacade
	RateStoreWriter
}
