package services

import (
	"context"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
)

// PriceComparisonSvc normalizes heterogeneous vendor quotes into the base
// currency and ranks them competitively.
type PriceComparisonSvc interface {
	// NormalizePriceItem converts one quote to the base currency and computes
	// its effective price. Returns an apperrors.ErrValidation wrapped error
	// for items excluded by the validity filter.
	NormalizePriceItem(ctx context.Context, item domain.PriceItem, options domain.NormalizationOptions) (*domain.NormalizedPriceItem, error)

	// CreatePriceComparison groups the submitted quotes by product,
	// normalizes, ranks and analyses each group. Groups with zero valid
	// items are skipped, not reported as errors.
	CreatePriceComparison(ctx context.Context, req dto.PriceComparisonRequest) ([]domain.PriceComparison, error)
}
