package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeConfirmationRetry = "confirmation:retry"

// ConfirmationRetryPayload is the task body for a delivery retry.
type ConfirmationRetryPayload struct {
	BookingID string `json:"booking_id"`
}

// AsynqRetryEnqueuer schedules confirmation retries on an asynq queue.
type AsynqRetryEnqueuer struct {
	client *asynq.Client
}

func NewAsynqRetryEnqueuer(client *asynq.Client) *AsynqRetryEnqueuer {
	return &AsynqRetryEnqueuer{client: client}
}

func (e *AsynqRetryEnqueuer) EnqueueConfirmationRetry(bookingID string, delay time.Duration) error {
	payload, err := json.Marshal(ConfirmationRetryPayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeConfirmationRetry, payload)
	_, err = e.client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(5))
	return err
}

// NewConfirmationRetryHandler returns the asynq handler that re-attempts
// delivery for a failed booking confirmation. Returning an error lets asynq
// apply its own retry/backoff policy.
func NewConfirmationRetryHandler(recorder *BookingRecorder, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ConfirmationRetryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid confirmation retry payload", zap.Error(err))
			return err
		}

		booking, err := recorder.RetryConfirmation(ctx, p.BookingID)
		if err != nil {
			var deliveryErr *ConfirmationDeliveryError
			if errors.As(err, &deliveryErr) {
				log.Warn("confirmation retry failed, will retry",
					zap.String("booking_id", p.BookingID),
					zap.Error(err))
				return err
			}
			log.Error("confirmation retry aborted",
				zap.String("booking_id", p.BookingID),
				zap.Error(err))
			return err
		}

		log.Info("confirmation retry succeeded",
			zap.String("booking_id", booking.ID),
			zap.String("status", string(booking.ConfirmationStatus)))
		return nil
	}
}
