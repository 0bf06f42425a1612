package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mridulja/flightbookingagent/models"
)

// BookingStore persists booking records in Postgres. The primary key on the
// id column guarantees uniqueness under concurrent creation.
type BookingStore struct {
	db *sql.DB
}

func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) Insert(ctx context.Context, booking *models.BookingRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, passenger_name, passenger_email, destination, amount, currency, confirmation_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, booking.ID, booking.PassengerName, booking.PassengerEmail, booking.Destination,
		booking.Amount, booking.Currency, booking.ConfirmationStatus, booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *BookingStore) Get(ctx context.Context, id string) (*models.BookingRecord, error) {
	var booking models.BookingRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, passenger_name, passenger_email, destination, amount, currency, confirmation_status, created_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(
		&booking.ID, &booking.PassengerName, &booking.PassengerEmail, &booking.Destination,
		&booking.Amount, &booking.Currency, &booking.ConfirmationStatus, &booking.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingStore) UpdateConfirmationStatus(ctx context.Context, id string, status models.ConfirmationStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET confirmation_status = $1
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update confirmation status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}
