package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/memory"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
)

func conversionFixture(i int, from, to string) domain.CurrencyConversion {
	return domain.CurrencyConversion{
		ConversionID: fmt.Sprintf("conv-%d", i),
		FromAmount:   decimal.NewFromInt(int64(i)),
		FromCurrency: from,
		ToAmount:     decimal.NewFromInt(int64(i)),
		ToCurrency:   to,
		Rate:         decimal.NewFromInt(1),
		ConvertedAt:  time.Now().UTC(),
	}
}

func TestConversionHistory_EvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	history := memory.NewConversionHistory(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, history.Append(ctx, conversionFixture(i, "USD", "EUR")))
	}

	retained, err := history.List(ctx, "", "", 0)
	require.NoError(t, err)
	require.Len(t, retained, 3)
	assert.Equal(t, "conv-5", retained[0].ConversionID, "newest first")
	assert.Equal(t, "conv-3", retained[2].ConversionID, "oldest two evicted")
}

func TestConversionHistory_FiltersAndLimits(t *testing.T) {
	ctx := context.Background()
	history := memory.NewConversionHistory(10)

	require.NoError(t, history.Append(ctx, conversionFixture(1, "USD", "EUR")))
	require.NoError(t, history.Append(ctx, conversionFixture(2, "USD", "GBP")))
	require.NoError(t, history.Append(ctx, conversionFixture(3, "EUR", "GBP")))

	byFrom, err := history.List(ctx, "USD", "", 0)
	require.NoError(t, err)
	assert.Len(t, byFrom, 2)

	byBoth, err := history.List(ctx, "USD", "GBP", 0)
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "conv-2", byBoth[0].ConversionID)

	limited, err := history.List(ctx, "", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateHistory_NewestFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	history := memory.NewUpdateHistory(2)

	for i := 1; i <= 3; i++ {
		require.NoError(t, history.Append(ctx, domain.UpdateRunResult{UpdateID: fmt.Sprintf("run-%d", i)}))
	}

	runs, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].UpdateID)
	assert.Equal(t, "run-2", runs[1].UpdateID)
}

func TestNotificationStore_UnreadFilterAndMarkRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewNotificationStore(10)

	require.NoError(t, store.Append(ctx, domain.Notification{NotificationID: "n1", Type: domain.NotificationSuccess}))
	require.NoError(t, store.Append(ctx, domain.Notification{NotificationID: "n2", Type: domain.NotificationAlert}))

	unread, err := store.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	require.NoError(t, store.MarkRead(ctx, "n1"))

	unread, err = store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].NotificationID)

	all, err := store.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = store.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
