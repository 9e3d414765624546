package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

const conversionHistoryKey = "fx:conversions"

var _ portsrepo.ConversionHistoryStore = (*RedisConversionHistory)(nil)

// RedisConversionHistory retains conversions in a capped Redis list so the
// history survives restarts and is shared across replicas. Newest entries sit
// at the head; LTRIM enforces the capacity on every append.
type RedisConversionHistory struct {
	client   *redis.Client
	capacity int64
}

// NewRedisConversionHistory creates a history over client, bounded at
// capacity entries.
func NewRedisConversionHistory(client *redis.Client, capacity int) *RedisConversionHistory {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RedisConversionHistory{client: client, capacity: int64(capacity)}
}

// Append pushes the conversion to the head of the list and trims to capacity.
func (h *RedisConversionHistory) Append(ctx context.Context, conversion domain.CurrencyConversion) error {
	payload, err := json.Marshal(conversion)
	if err != nil {
		return fmt.Errorf("failed to marshal conversion: %w", err)
	}

	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, conversionHistoryKey, payload)
	pipe.LTrim(ctx, conversionHistoryKey, 0, h.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append conversion to redis: %w", err)
	}
	return nil
}

// List returns retained conversions, newest first, optionally filtered by
// either currency code. A non-positive limit returns everything retained.
func (h *RedisConversionHistory) List(ctx context.Context, fromCode, toCode string, limit int) ([]domain.CurrencyConversion, error) {
	entries, err := h.client.LRange(ctx, conversionHistoryKey, 0, h.capacity-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion history from redis: %w", err)
	}

	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	conversions := make([]domain.CurrencyConversion, 0, limit)
	for _, entry := range entries {
		if len(conversions) >= limit {
			break
		}
		var conversion domain.CurrencyConversion
		if err := json.Unmarshal([]byte(entry), &conversion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversion: %w", err)
		}
		if fromCode != "" && conversion.FromCurrency != fromCode {
			continue
		}
		if toCode != "" && conversion.ToCurrency != toCode {
			continue
		}
		conversions = append(conversions, conversion)
	}
	return conversions, nil
}
