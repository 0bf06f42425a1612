package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

func testQuote() *models.PriceQuote {
	return &models.PriceQuote{Destination: "london", Amount: 799, Currency: "USD"}
}

func TestCreateBookingDeliversConfirmation(t *testing.T) {
	store := newMemBookingStore()
	sender := &stubSender{}
	recorder := services.NewBookingRecorder(store, sender, nil, zap.NewNop())

	booking, err := recorder.Create(context.Background(), "Jane Doe", "jane@example.com", "london", testQuote())
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.ConfirmationConfirmed, booking.ConfirmationStatus)
	assert.Equal(t, "london", booking.Destination)
	assert.Equal(t, float64(799), booking.Amount)

	stored, err := store.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationConfirmed, stored.ConfirmationStatus)
}

func TestCreateBookingSurvivesDeliveryFailure(t *testing.T) {
	store := newMemBookingStore()
	sender := &stubSender{fail: true}
	recorder := services.NewBookingRecorder(store, sender, nil, zap.NewNop())

	booking, err := recorder.Create(context.Background(), "Jane Doe", "jane@example.com", "london", testQuote())
	require.NoError(t, err, "delivery failure must not fail booking creation")

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.ConfirmationFailedRetryable, booking.ConfirmationStatus)

	stored, err := store.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationFailedRetryable, stored.ConfirmationStatus)
}

func TestRetryConfirmation(t *testing.T) {
	store := newMemBookingStore()
	sender := &stubSender{fail: true}
	recorder := services.NewBookingRecorder(store, sender, nil, zap.NewNop())

	booking, err := recorder.Create(context.Background(), "Jane Doe", "jane@example.com", "london", testQuote())
	require.NoError(t, err)
	require.Equal(t, models.ConfirmationFailedRetryable, booking.ConfirmationStatus)

	// Still failing: booking unaffected, typed delivery error.
	retried, err := recorder.RetryConfirmation(context.Background(), booking.ID)
	var deliveryErr *services.ConfirmationDeliveryError
	require.True(t, errors.As(err, &deliveryErr))
	assert.Equal(t, booking.ID, deliveryErr.BookingID)
	assert.Equal(t, models.ConfirmationFailedRetryable, retried.ConfirmationStatus)

	// Delivery recovers.
	sender.setFail(false)
	retried, err = recorder.RetryConfirmation(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationConfirmed, retried.ConfirmationStatus)

	// Idempotent once confirmed: no further sends.
	sends := sender.sendCount()
	retried, err = recorder.RetryConfirmation(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationConfirmed, retried.ConfirmationStatus)
	assert.Equal(t, sends, sender.sendCount())
}

func TestCreateBookingRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		passenger string
		email     string
		dest      string
		quote     *models.PriceQuote
		field     string
	}{
		{"missing name", "", "jane@example.com", "london", testQuote(), "name"},
		{"single-word name", "Jane", "jane@example.com", "london", testQuote(), "name"},
		{"missing email", "Jane Doe", "", "london", testQuote(), "email"},
		{"malformed email", "Jane Doe", "not-an-email", "london", testQuote(), "email"},
		{"missing destination", "Jane Doe", "jane@example.com", "", testQuote(), "destination"},
		{"missing quote", "Jane Doe", "jane@example.com", "london", nil, "quote"},
		{"zero amount quote", "Jane Doe", "jane@example.com", "london", &models.PriceQuote{Destination: "london"}, "quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemBookingStore()
			recorder := services.NewBookingRecorder(store, &stubSender{}, nil, zap.NewNop())

			booking, err := recorder.Create(context.Background(), tt.passenger, tt.email, tt.dest, tt.quote)
			assert.Nil(t, booking)

			var verr *services.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, store.count(), "no record may exist for a rejected booking")
		})
	}
}

func TestConcurrentCreatesGetUniqueIDs(t *testing.T) {
	store := newMemBookingStore()
	recorder := services.NewBookingRecorder(store, &stubSender{}, nil, zap.NewNop())

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, err := recorder.Create(context.Background(), "Jane Doe", "jane@example.com", "london", testQuote())
			require.NoError(t, err)
			ids <- booking.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate booking id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, store.count())
}
