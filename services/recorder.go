package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
)

// BookingStore persists booking records keyed by booking id. Insert must
// reject duplicate ids so uniqueness holds under concurrent creation.
type BookingStore interface {
	Insert(ctx context.Context, booking *models.BookingRecord) error
	Get(ctx context.Context, id string) (*models.BookingRecord, error)
	UpdateConfirmationStatus(ctx context.Context, id string, status models.ConfirmationStatus) error
}

// RetryEnqueuer schedules a later confirmation delivery attempt. Satisfied
// by AsynqRetryEnqueuer; nil disables background retries.
type RetryEnqueuer interface {
	EnqueueConfirmationRetry(bookingID string, delay time.Duration) error
}

// BookingRecorder creates booking records and handles confirmation delivery.
// Delivery failure never rolls a booking back: the record commitment is
// separate from notification.
type BookingRecorder struct {
	store    BookingStore
	sender   ConfirmationSender
	enqueuer RetryEnqueuer
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingRecorder(store BookingStore, sender ConfirmationSender, enqueuer RetryEnqueuer, log *zap.Logger) *BookingRecorder {
	return &BookingRecorder{
		store:    store,
		sender:   sender,
		enqueuer: enqueuer,
		log:      log,
		now:      time.Now,
	}
}

// Create persists a new booking and attempts confirmation delivery. The
// record is created with FAILED_RETRYABLE and promoted to CONFIRMED when
// delivery succeeds, so a crash mid-delivery still leaves a retryable
// booking behind.
func (r *BookingRecorder) Create(ctx context.Context, passengerName, passengerEmail, destination string, quote *models.PriceQuote) (*models.BookingRecord, error) {
	if err := validateBookingInput(passengerName, passengerEmail, destination, quote); err != nil {
		return nil, err
	}

	booking := &models.BookingRecord{
		ID:                 uuid.New().String(),
		PassengerName:      strings.TrimSpace(passengerName),
		PassengerEmail:     strings.TrimSpace(passengerEmail),
		Destination:        NormalizeDestination(destination),
		Amount:             quote.Amount,
		Currency:           quote.Currency,
		ConfirmationStatus: models.ConfirmationFailedRetryable,
		CreatedAt:          r.now(),
	}

	if err := r.store.Insert(ctx, booking); err != nil {
		return nil, err
	}
	r.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("destination", booking.Destination))

	r.deliver(ctx, booking)
	return booking, nil
}

// RetryConfirmation re-attempts confirmation delivery only. Idempotent: an
// already-confirmed booking is returned unchanged.
func (r *BookingRecorder) RetryConfirmation(ctx context.Context, bookingID string) (*models.BookingRecord, error) {
	booking, err := r.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ConfirmationStatus == models.ConfirmationConfirmed {
		return booking, nil
	}

	if err := r.sender.Send(ctx, booking); err != nil {
		return booking, &ConfirmationDeliveryError{BookingID: booking.ID, Err: err}
	}

	booking.ConfirmationStatus = models.ConfirmationConfirmed
	if err := r.store.UpdateConfirmationStatus(ctx, booking.ID, models.ConfirmationConfirmed); err != nil {
		return booking, err
	}
	r.log.Info("confirmation delivered on retry", zap.String("booking_id", booking.ID))
	return booking, nil
}

// Get returns a booking record by id.
func (r *BookingRecorder) Get(ctx context.Context, bookingID string) (*models.BookingRecord, error) {
	return r.store.Get(ctx, bookingID)
}

func (r *BookingRecorder) deliver(ctx context.Context, booking *models.BookingRecord) {
	if err := r.sender.Send(ctx, booking); err != nil {
		r.log.Warn("confirmation delivery failed, booking stands",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
		if r.enqueuer != nil {
			if enqErr := r.enqueuer.EnqueueConfirmationRetry(booking.ID, time.Minute); enqErr != nil {
				r.log.Error("failed to enqueue confirmation retry",
					zap.String("booking_id", booking.ID),
					zap.Error(enqErr))
			}
		}
		return
	}

	booking.ConfirmationStatus = models.ConfirmationConfirmed
	if err := r.store.UpdateConfirmationStatus(ctx, booking.ID, models.ConfirmationConfirmed); err != nil {
		// The stored record stays FAILED_RETRYABLE; a retry will fix it up.
		booking.ConfirmationStatus = models.ConfirmationFailedRetryable
		r.log.Error("failed to persist confirmation status",
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}

func validateBookingInput(passengerName, passengerEmail, destination string, quote *models.PriceQuote) error {
	name := strings.TrimSpace(passengerName)
	if name == "" || len(strings.Fields(name)) < 2 {
		return NewValidationError("name", "must include first and last name")
	}
	if err := validate.Var(strings.TrimSpace(passengerEmail), "required,email"); err != nil {
		return NewValidationError("email", "must be a valid address like name@example.com")
	}
	if strings.TrimSpace(destination) == "" {
		return NewValidationError("destination", "must not be empty")
	}
	if quote == nil || quote.Amount <= 0 {
		return NewValidationError("quote", "a price quote is required")
	}
	return nil
}
