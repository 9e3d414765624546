package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
)

// bulkSavingsThreshold is the minimum percentage a bulk tier must undercut
// the unit price by before it becomes the effective price.
var bulkSavingsThreshold = decimal.NewFromInt(5)

// defaultPriceValidityDays bounds how old a quote may be before it is
// excluded from comparison.
const defaultPriceValidityDays = 90

// PriceNormalizationService converts vendor quotes into a single base
// currency and ranks them within their product group. It holds no state of
// its own; every comparison is computed from the submitted quotes and the
// current rate store.
type PriceNormalizationService struct {
	resolver       portssvc.RateResolverSvc
	baseCurrency   string
	roundingPlaces int32
}

// NewPriceNormalizationService creates a new PriceNormalizationService.
func NewPriceNormalizationService(resolver portssvc.RateResolverSvc, baseCurrency string, roundingPlaces int32) *PriceNormalizationService {
	if roundingPlaces < 0 {
		roundingPlaces = 2
	}
	return &PriceNormalizationService{
		resolver:       resolver,
		baseCurrency:   strings.ToUpper(baseCurrency),
		roundingPlaces: roundingPlaces,
	}
}

// DefaultOptions returns the normalization options applied when a request
// carries no overrides.
func (s *PriceNormalizationService) DefaultOptions() domain.NormalizationOptions {
	return domain.NormalizationOptions{
		BaseCurrency:      s.baseCurrency,
		IncludeExpired:    false,
		ConsiderMinQty:    true,
		WeightBulkPricing: true,
		PriceValidityDays: defaultPriceValidityDays,
	}
}

// NormalizePriceItem converts one quote to the base currency and determines
// its effective price, weighting minimum order quantities and bulk tiers per
// the options. Items excluded by the validity filter return a wrapped
// apperrors.ErrValidation.
func (s *PriceNormalizationService) NormalizePriceItem(ctx context.Context, item domain.PriceItem, options domain.NormalizationOptions) (*domain.NormalizedPriceItem, error) {
	if err := validatePriceItem(item, options); err != nil {
		return nil, err
	}

	rate, err := s.resolver.ResolveRate(ctx, item.Currency, options.BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rate for quote %s: %w", item.PriceItemID, err)
	}

	normalized := &domain.NormalizedPriceItem{
		PriceItem:           item,
		NormalizedUnitPrice: item.UnitPrice.Mul(rate.Rate).Round(s.roundingPlaces),
		RateUsed:            rate.Rate,
	}

	normalized.EffectivePrice = normalized.NormalizedUnitPrice
	if options.ConsiderMinQty && item.MinQuantity.GreaterThan(decimal.NewFromInt(1)) {
		// A minimum order requirement scales the real cost of buying from
		// this vendor. A worthwhile bulk tier still takes precedence below.
		normalized.EffectivePrice = normalized.NormalizedUnitPrice.Mul(item.MinQuantity)
	}
	if item.HasBulkPricing() {
		normalized.NormalizedBulkPrice = item.BulkPrice.Mul(rate.Rate).Round(s.roundingPlaces)
		if options.WeightBulkPricing && bulkIsWorthwhile(normalized.NormalizedUnitPrice, normalized.NormalizedBulkPrice) {
			normalized.EffectivePrice = normalized.NormalizedBulkPrice
		}
	}

	return normalized, nil
}

// CreatePriceComparison groups quotes by product, normalizes each group into
// the base currency, ranks by effective price and derives the market
// analysis. Invalid quotes are dropped from their group; a group with no
// valid quotes is skipped entirely.
func (s *PriceNormalizationService) CreatePriceComparison(ctx context.Context, req dto.PriceComparisonRequest) ([]domain.PriceComparison, error) {
	options := req.Options.Apply(s.DefaultOptions())
	options.BaseCurrency = strings.ToUpper(options.BaseCurrency)
	if len(options.BaseCurrency) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	// Group by product, preserving first-seen order so output is stable
	// across identical requests.
	groups := make(map[string][]domain.PriceItem)
	productOrder := make([]string, 0)
	productNames := make(map[string]string)
	for _, item := range req.ToDomainItems() {
		if _, seen := groups[item.ProductID]; !seen {
			productOrder = append(productOrder, item.ProductID)
			productNames[item.ProductID] = item.ProductName
		}
		groups[item.ProductID] = append(groups[item.ProductID], item)
	}

	comparisons := make([]domain.PriceComparison, 0, len(productOrder))
	for _, productID := range productOrder {
		normalized := make([]domain.NormalizedPriceItem, 0, len(groups[productID]))
		for _, item := range groups[productID] {
			norm, err := s.NormalizePriceItem(ctx, item, options)
			if err != nil {
				slog.DebugContext(ctx, "Excluding quote from comparison",
					slog.String("price_item_id", item.PriceItemID),
					slog.String("product_id", productID),
					slog.String("reason", err.Error()))
				continue
			}
			normalized = append(normalized, *norm)
		}
		if len(normalized) == 0 {
			continue
		}

		s.rankGroup(normalized)

		comparisons = append(comparisons, domain.PriceComparison{
			ProductID:    productID,
			ProductName:  productNames[productID],
			BaseCurrency: options.BaseCurrency,
			Prices:       normalized,
			Market:       s.analyzeGroup(normalized),
			LastUpdated:  time.Now().UTC(),
		})
	}

	return comparisons, nil
}

// rankGroup sorts a product group by effective price, assigns competitive
// ranks and computes each quote's variance from the group mean.
func (s *PriceNormalizationService) rankGroup(group []domain.NormalizedPriceItem) {
	sort.SliceStable(group, func(i, j int) bool {
		if !group[i].EffectivePrice.Equal(group[j].EffectivePrice) {
			return group[i].EffectivePrice.LessThan(group[j].EffectivePrice)
		}
		return group[i].VendorName < group[j].VendorName
	})

	mean := groupMean(group)
	for i := range group {
		group[i].CompetitiveRank = i + 1
		if mean.IsPositive() {
			group[i].PriceVariance = group[i].EffectivePrice.Sub(mean).
				DivRound(mean, divisionPrecision).Mul(oneHundred).Round(s.roundingPlaces)
		}
	}
}

// analyzeGroup derives the market analysis of an already ranked group.
func (s *PriceNormalizationService) analyzeGroup(group []domain.NormalizedPriceItem) domain.MarketAnalysis {
	lowest := group[0]
	highest := group[len(group)-1]

	analysis := domain.MarketAnalysis{
		LowestPrice:       lowest,
		HighestPrice:      highest,
		AveragePrice:      groupMean(group).Round(s.roundingPlaces),
		MedianPrice:       groupMedian(group).Round(s.roundingPlaces),
		RecommendedVendor: lowest,
	}
	if lowest.EffectivePrice.IsPositive() {
		analysis.PriceSpread = highest.EffectivePrice.Sub(lowest.EffectivePrice).
			DivRound(lowest.EffectivePrice, divisionPrecision).Mul(oneHundred).Round(s.roundingPlaces)
	}
	return analysis
}

// validatePriceItem applies the validity filter.
func validatePriceItem(item domain.PriceItem, options domain.NormalizationOptions) error {
	if !item.UnitPrice.IsPositive() {
		return fmt.Errorf("%w: quote %s has a non-positive unit price", apperrors.ErrValidation, item.PriceItemID)
	}
	if options.ConsiderMinQty && item.MinQuantity.IsNegative() {
		return fmt.Errorf("%w: quote %s has a negative minimum quantity", apperrors.ErrValidation, item.PriceItemID)
	}

	now := time.Now().UTC()
	if item.ValidFrom.After(now) {
		return fmt.Errorf("%w: quote %s is not yet valid", apperrors.ErrValidation, item.PriceItemID)
	}
	if options.IncludeExpired {
		return nil
	}
	if item.ValidTo.Before(now) {
		return fmt.Errorf("%w: quote %s has expired", apperrors.ErrValidation, item.PriceItemID)
	}
	if options.PriceValidityDays > 0 {
		oldest := now.AddDate(0, 0, -options.PriceValidityDays)
		if item.ValidFrom.Before(oldest) {
			return fmt.Errorf("%w: quote %s is older than %d days", apperrors.ErrValidation, item.PriceItemID, options.PriceValidityDays)
		}
	}
	return nil
}

// bulkIsWorthwhile reports whether the bulk tier undercuts the unit price by
// at least the savings threshold.
func bulkIsWorthwhile(unitPrice, bulkPrice decimal.Decimal) bool {
	if !unitPrice.IsPositive() || !bulkPrice.IsPositive() {
		return false
	}
	savings := unitPrice.Sub(bulkPrice).DivRound(unitPrice, divisionPrecision).Mul(oneHundred)
	return savings.GreaterThanOrEqual(bulkSavingsThreshold)
}

func groupMean(group []domain.NormalizedPriceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range group {
		sum = sum.Add(item.EffectivePrice)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(group))), divisionPrecision)
}

// groupMedian expects the group sorted by effective price. An even-sized
// group averages the two middle quotes.
func groupMedian(group []domain.NormalizedPriceItem) decimal.Decimal {
	mid := len(group) / 2
	if len(group)%2 == 1 {
		return group[mid].EffectivePrice
	}
	return group[mid-1].EffectivePrice.Add(group[mid].EffectivePrice).DivRound(decimal.NewFromInt(2), divisionPrecision)
}
