package repositories

import (
	"context"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

// RateProvider fetches a fresh exchange rate observation from an external
// source during scheduled and manual updates. Implementations should apply
// their own request timeout; a timeout is a normal per-pair failure, wrapped
// as apperrors.ErrTransientFetch.
type RateProvider interface {
	// FetchRate obtains a new rate for the pair from the external source.
	FetchRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// Name identifies the provider in run results and notifications.
	Name() string
}
