package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
)

// DefaultNotificationCap bounds the in-memory notification store.
const DefaultNotificationCap = 500

var _ portsrepo.NotificationStore = (*NotificationStore)(nil)

// NotificationStore is a bounded in-process notification log.
type NotificationStore struct {
	mu       sync.RWMutex
	capacity int
	items    []domain.Notification
}

// NewNotificationStore creates a store bounded at capacity. A non-positive
// capacity uses the default.
func NewNotificationStore(capacity int) *NotificationStore {
	if capacity <= 0 {
		capacity = DefaultNotificationCap
	}
	return &NotificationStore{
		capacity: capacity,
		items:    make([]domain.Notification, 0, capacity),
	}
}

// Append records a notification, evicting the oldest at capacity.
func (s *NotificationStore) Append(ctx context.Context, notification domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) >= s.capacity {
		s.items = s.items[1:]
	}
	s.items = append(s.items, notification)
	return nil
}

// List returns notifications, newest first.
func (s *NotificationStore) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Notification, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		if unreadOnly && s.items[i].IsRead {
			continue
		}
		result = append(result, s.items[i])
	}
	return result, nil
}

// MarkRead flips the read flag of a notification.
func (s *NotificationStore) MarkRead(ctx context.Context, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].NotificationID == notificationID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %s", apperrors.ErrNotFound, notificationID)
}
