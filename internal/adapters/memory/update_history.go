package memory

import (
	"context"
	"sync"

	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

// DefaultUpdateHistoryCap bounds the in-memory update run history.
const DefaultUpdateHistoryCap = 50

var _ portsrepo.UpdateHistoryStore = (*UpdateHistory)(nil)

// UpdateHistory is a bounded in-process log of update runs.
type UpdateHistory struct {
	mu       sync.RWMutex
	capacity int
	items    []domain.UpdateRunResult
}

// NewUpdateHistory creates a run history bounded at capacity. A non-positive
// capacity uses the default.
func NewUpdateHistory(capacity int) *UpdateHistory {
	if capacity <= 0 {
		capacity = DefaultUpdateHistoryCap
	}
	return &UpdateHistory{
		capacity: capacity,
		items:    make([]domain.UpdateRunResult, 0, capacity),
	}
}

// Append records a run, evicting the oldest at capacity.
func (h *UpdateHistory) Append(ctx context.Context, run domain.UpdateRunResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) >= h.capacity {
		h.items = h.items[1:]
	}
	h.items = append(h.items, run)
	return nil
}

// List returns retained runs, newest first, capped at limit. A non-positive
// limit returns everything retained.
func (h *UpdateHistory) List(ctx context.Context, limit int) ([]domain.UpdateRunResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}

	result := make([]domain.UpdateRunResult, 0, limit)
	for i := len(h.items) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, h.items[i])
	}
	return result, nil
}
