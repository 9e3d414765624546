package memory

import (
	"context"
	"sync"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

// DefaultConversionHistoryCap bounds the in-memory conversion history.
const DefaultConversionHistoryCap = 1000

var _ portsrepo.ConversionHistoryStore = (*ConversionHistory)(nil)

// ConversionHistory is a bounded in-process conversion log. Appending past
// capacity evicts the oldest entry.
type ConversionHistory struct {
	mu       sync.RWMutex
	capacity int
	items    []domain.CurrencyConversion
}

// NewConversionHistory creates a history bounded at capacity. A non-positive
// capacity uses the default.
func NewConversionHistory(capacity int) *ConversionHistory {
	if capacity <= 0 {
		capacity = DefaultConversionHistoryCap
	}
	return &ConversionHistory{
		capacity: capacity,
		items:    make([]domain.CurrencyConversion, 0, capacity),
	}
}

// Append records a conversion, evicting the oldest entry at capacity.
func (h *ConversionHistory) Append(ctx context.Context, conversion domain.CurrencyConversion) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) >= h.capacity {
		h.items = h.items[1:]
	}
	h.items = append(h.items, conversion)
	return nil
}

// List returns retained conversions, newest first, optionally filtered by
// either currency code. A non-positive limit returns everything retained.
func (h *ConversionHistory) List(ctx context.Context, fromCode, toCode string, limit int) ([]domain.CurrencyConversion, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}

	result := make([]domain.CurrencyConversion, 0, limit)
	for i := len(h.items) - 1; i >= 0 && len(result) < limit; i-- {
		item := h.items[i]
		if fromCode != "" && item.FromCurrency != fromCode {
			continue
		}
		if toCode != "" && item.ToCurrency != toCode {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}
