package services

import "fmt"

// ValidationError reports a slot value that failed its field rules. It is
// recovered locally: the user is re-prompted and the prior value kept.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UnknownDestinationError carries the rejected input so the dialogue can ask
// a clarifying question instead of silently proceeding.
type UnknownDestinationError struct {
	Input string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown destination: %q", e.Input)
}

// ModelAdapterError wraps a failed or timed-out model call. Timeout and
// transport errors are retryable; the orchestrator retries up to a bound.
type ModelAdapterError struct {
	Timeout bool
	Err     error
}

func (e *ModelAdapterError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("model adapter timeout: %v", e.Err)
	}
	return fmt.Sprintf("model adapter failure: %v", e.Err)
}

func (e *ModelAdapterError) Unwrap() error { return e.Err }

// ConfirmationDeliveryError reports a failed confirmation email. The booking
// itself is never rolled back on this error.
type ConfirmationDeliveryError struct {
	BookingID string
	Err       error
}

func (e *ConfirmationDeliveryError) Error() string {
	return fmt.Sprintf("confirmation delivery failed for booking %s: %v", e.BookingID, e.Err)
}

func (e *ConfirmationDeliveryError) Unwrap() error { return e.Err }
