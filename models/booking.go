package models

import "time"

// ConfirmationStatus tracks delivery of the booking confirmation email.
type ConfirmationStatus string

const (
	// ConfirmationConfirmed means the confirmation email was delivered.
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED"
	// ConfirmationFailedRetryable means delivery failed; the booking itself
	// stands and delivery can be retried.
	ConfirmationFailedRetryable ConfirmationStatus = "FAILED_RETRYABLE"
)

// BookingRecord represents a completed flight booking. Immutable after
// creation except ConfirmationStatus, which a delivery retry may update.
type BookingRecord struct {
	ID                 string             `json:"id"`
	PassengerName      string             `json:"passenger_name"`
	PassengerEmail     string             `json:"passenger_email"`
	Destination        string             `json:"destination"`
	Amount             float64            `json:"amount"`
	Currency           string             `json:"currency"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status"`
	CreatedAt          time.Time          `json:"created_at"`
}

// BookingResponse represents a booking lookup or retry response
type BookingResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Booking *BookingRecord `json:"booking,omitempty"`
}
