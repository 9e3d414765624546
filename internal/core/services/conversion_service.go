package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
)

// defaultHistoryQueryLimit caps conversion history reads when the caller
// does not specify a limit.
const defaultHistoryQueryLimit = 100

// ConversionService converts monetary amounts through the rate resolver and
// retains every successful conversion in a bounded history.
//
// Rounding is applied once, at the conversion boundary, to a fixed number of
// decimal places regardless of the target currency's declared precision.
// This matches store-level monetary rounding and is configurable rather than
// hard-coded.
type ConversionService struct {
	resolver       portssvc.RateResolverSvc
	history        portsrepo.ConversionHistoryStore
	roundingPlaces int32
}

// NewConversionService creates a new ConversionService.
func NewConversionService(resolver portssvc.RateResolverSvc, history portsrepo.ConversionHistoryStore, roundingPlaces int32) *ConversionService {
	if roundingPlaces < 0 {
		roundingPlaces = 2
	}
	return &ConversionService{
		resolver:       resolver,
		history:        history,
		roundingPlaces: roundingPlaces,
	}
}

// Convert converts amount from one currency to another. Zero and negative
// amounts convert linearly. The result is recorded in the conversion
// history; a history write failure is logged, not escalated.
func (s *ConversionService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.CurrencyConversion, error) {
	rate, err := s.resolver.ResolveRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, err
	}

	conversion := &domain.CurrencyConversion{
		ConversionID: uuid.NewString(),
		FromAmount:   amount,
		FromCurrency: rate.FromCurrency,
		ToAmount:     amount.Mul(rate.Rate).Round(s.roundingPlaces),
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate,
		Source:       rate.Source,
		ConvertedAt:  time.Now().UTC(),
	}

	if err := s.history.Append(ctx, *conversion); err != nil {
		slog.Warn("Failed to append conversion to history",
			slog.String("conversion_id", conversion.ConversionID),
			slog.String("error", err.Error()))
	}

	return conversion, nil
}

// ConvertBatch processes each request independently. A failed request is
// reported in its result slot with the original request ID for correlation
// and never aborts the remaining requests.
func (s *ConversionService) ConvertBatch(ctx context.Context, requests []domain.ConversionRequest) []domain.ConversionResult {
	results := make([]domain.ConversionResult, len(requests))
	for i, req := range requests {
		conversion, err := s.Convert(ctx, req.Amount, req.FromCurrency, req.ToCurrency)
		if err != nil {
			results[i] = domain.ConversionResult{
				RequestID: req.RequestID,
				Success:   false,
				Error:     err.Error(),
			}
			continue
		}
		results[i] = domain.ConversionResult{
			RequestID:  req.RequestID,
			Success:    true,
			Conversion: conversion,
		}
	}
	return results
}

// GetConversionHistory returns retained conversions, newest first. Either
// currency code may be empty to skip that filter.
func (s *ConversionService) GetConversionHistory(ctx context.Context, fromCode, toCode string, limit int) ([]domain.CurrencyConversion, error) {
	if limit <= 0 {
		limit = defaultHistoryQueryLimit
	}

	conversions, err := s.history.List(ctx, strings.ToUpper(fromCode), strings.ToUpper(toCode), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion history: %w", err)
	}
	return conversions, nil
}

// GetConversionStatistics aggregates the retained history. currencyPair may
// be a "FROM/TO" key to restrict the aggregation, or empty for all pairs.
// Amount totals are computed over the converted (target) amounts.
func (s *ConversionService) GetConversionStatistics(ctx context.Context, currencyPair string) (*domain.ConversionStatistics, error) {
	conversions, err := s.history.List(ctx, "", "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion history: %w", err)
	}

	currencyPair = strings.ToUpper(currencyPair)
	stats := &domain.ConversionStatistics{
		TotalAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
	}

	pairCounts := make(map[string]int)
	hourCounts := make(map[time.Time]int)
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	for _, conv := range conversions {
		pairKey := domain.PairKey(conv.FromCurrency, conv.ToCurrency)
		if currencyPair != "" && pairKey != currencyPair {
			continue
		}

		stats.TotalConversions++
		stats.TotalAmount = stats.TotalAmount.Add(conv.ToAmount)
		pairCounts[pairKey]++

		if conv.ConvertedAt.After(cutoff) {
			hourCounts[conv.ConvertedAt.UTC().Truncate(time.Hour)]++
		}
	}

	if stats.TotalConversions > 0 {
		stats.AverageAmount = stats.TotalAmount.DivRound(decimal.NewFromInt(int64(stats.TotalConversions)), s.roundingPlaces)
	}

	maxCount := 0
	for pair, count := range pairCounts {
		if count > maxCount || (count == maxCount && pair < stats.MostFrequentPair) {
			maxCount = count
			stats.MostFrequentPair = pair
		}
	}

	// Hourly histogram over the trailing 24 hours, oldest bucket first.
	start := time.Now().UTC().Truncate(time.Hour).Add(-23 * time.Hour)
	stats.HourlyHistogram = make([]domain.HourlyConversionCount, 0, 24)
	for i := 0; i < 24; i++ {
		hour := start.Add(time.Duration(i) * time.Hour)
		stats.HourlyHistogram = append(stats.HourlyHistogram, domain.HourlyConversionCount{
			Hour:  hour,
			Count: hourCounts[hour],
		})
	}

	return stats, nil
}
