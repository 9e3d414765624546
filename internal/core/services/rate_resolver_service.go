package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

// RateResolverService resolves exchange rates via direct lookup, inverse
// lookup or a two-hop path through the configured base currency. It performs
// no mutation of shared state and is safe for concurrent use.
type RateResolverService struct {
	store        portsrepo.RateStoreFacade
	baseCurrency string
}

// NewRateResolverService creates a new RateResolverService.
func NewRateResolverService(store portsrepo.RateStoreFacade, baseCurrency string) *RateResolverService {
	return &RateResolverService{
		store:        store,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

// BaseCurrency returns the configured pivot currency code.
func (s *RateResolverService) BaseCurrency() string {
	return s.baseCurrency
}

// ResolveRate resolves the effective rate for a pair. Same-currency pairs
// yield a synthetic identity rate without a store lookup. Resolution failure
// is a typed not-found condition; a rate is never fabricated.
func (s *RateResolverService) ResolveRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	fromCode, toCode, err := normalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}

	if fromCode == toCode {
		return &domain.ExchangeRate{
			FromCurrency: fromCode,
			ToCurrency:   toCode,
			Rate:         decimal.NewFromInt(1),
			RateDate:     time.Now().UTC(),
			Source:       domain.RateSourceSystem,
			Derived:      true,
			CreatedAt:    time.Now().UTC(),
		}, nil
	}

	rate, err := s.resolveDirectOrInverse(ctx, fromCode, toCode)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Two-hop path through the base currency, attempted at most once. If
	// either leg fails, resolution fails.
	if fromCode != s.baseCurrency && toCode != s.baseCurrency {
		fromLeg, errFrom := s.resolveDirectOrInverse(ctx, fromCode, s.baseCurrency)
		if errFrom == nil {
			toLeg, errTo := s.resolveDirectOrInverse(ctx, s.baseCurrency, toCode)
			if errTo == nil {
				now := time.Now().UTC()
				return &domain.ExchangeRate{
					FromCurrency: fromCode,
					ToCurrency:   toCode,
					Rate:         fromLeg.Rate.Mul(toLeg.Rate),
					RateDate:     now,
					Source:       domain.RateSourceCalculated,
					Derived:      true,
					CreatedAt:    now,
				}, nil
			}
			if !errors.Is(errTo, apperrors.ErrNotFound) {
				return nil, errTo
			}
		} else if !errors.Is(errFrom, apperrors.ErrNotFound) {
			return nil, errFrom
		}
	}

	return nil, fmt.Errorf("%w: no exchange rate for %s", apperrors.ErrNotFound, domain.PairKey(fromCode, toCode))
}

// resolveDirectOrInverse tries the stored rate for (from,to), falling back to
// the reciprocal of a stored (to,from) rate tagged as derived.
func (s *RateResolverService) resolveDirectOrInverse(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	direct, err := s.store.FindCurrentRate(ctx, fromCode, toCode)
	if err == nil {
		return direct, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up rate %s: %w", domain.PairKey(fromCode, toCode), err)
	}

	inverse, err := s.store.FindCurrentRate(ctx, toCode, fromCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no exchange rate for %s", apperrors.ErrNotFound, domain.PairKey(fromCode, toCode))
		}
		return nil, fmt.Errorf("failed to look up inverse rate %s: %w", domain.PairKey(toCode, fromCode), err)
	}
	if inverse.Rate.IsZero() {
		return nil, fmt.Errorf("%w: stored inverse rate for %s is zero", apperrors.ErrNotFound, domain.PairKey(toCode, fromCode))
	}

	return &domain.ExchangeRate{
		FromCurrency: fromCode,
		ToCurrency:   toCode,
		Rate:         decimal.NewFromInt(1).DivRound(inverse.Rate, divisionPrecision),
		RateDate:     inverse.RateDate,
		Source:       inverse.Source,
		Derived:      true,
		CreatedAt:    inverse.CreatedAt,
	}, nil
}

// GetRateHistory returns historical observations for a pair over the
// trailing number of days. A non-positive days defaults to 30.
func (s *RateResolverService) GetRateHistory(ctx context.Context, fromCode, toCode string, days int) ([]domain.RateHistoryPoint, error) {
	fromCode, toCode, err := normalizeCurrencyPair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	history, err := s.store.ListRateHistory(ctx, fromCode, toCode, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate history: %w", err)
	}
	return history, nil
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *RateResolverService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	currency, err := s.store.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency in service: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all supported currencies.
func (s *RateResolverService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.store.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	return currencies, nil
}

// normalizeCurrencyPair uppercases and validates a pair of currency codes.
func normalizeCurrencyPair(fromCode, toCode string) (string, string, error) {
	fromCode = strings.ToUpper(strings.TrimSpace(fromCode))
	toCode = strings.ToUpper(strings.TrimSpace(toCode))
	if len(fromCode) != 3 || len(toCode) != 3 {
		return "", "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return fromCode, toCode, nil
}
