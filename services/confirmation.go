package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/mridulja/flightbookingagent/models"
)

// ConfirmationSender delivers the booking confirmation to the passenger.
// Delivery is distinct from booking creation and may fail independently.
type ConfirmationSender interface {
	Send(ctx context.Context, booking *models.BookingRecord) error
}

// SimulatedSender pretends to deliver confirmations, failing a configurable
// fraction of the time. This is the original demo behavior: no real email
// ever leaves the process.
type SimulatedSender struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedSender(failureRate float64, seed int64) *SimulatedSender {
	return &SimulatedSender{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *SimulatedSender) Send(ctx context.Context, booking *models.BookingRecord) error {
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll < s.failureRate {
		return fmt.Errorf("simulated delivery failure for %s", booking.PassengerEmail)
	}
	return nil
}

const smtpSendTimeout = 15 * time.Second

// SMTPSender delivers confirmations over SMTP.
type SMTPSender struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer:  gomail.NewDialer(host, port, user, password),
		from:    from,
		timeout: smtpSendTimeout,
	}
}

// Send delivers the confirmation email. gomail has no context support, so the
// dial+send runs in a goroutine and the call is bounded by ctx and the send
// timeout; on expiry the delivery counts as failed and the retry path takes
// over while the booking stands.
func (s *SMTPSender) Send(ctx context.Context, booking *models.BookingRecord) error {
	quote := models.PriceQuote{Destination: booking.Destination, Amount: booking.Amount, Currency: booking.Currency}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", booking.PassengerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your flight booking %s", booking.ID))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour flight to %s is booked.\nPrice: %s\nBooking reference: %s\n\nSafe travels,\nSonya",
		booking.PassengerName, booking.Destination, quote.Display(), booking.ID,
	))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp delivery failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp delivery timed out: %w", ctx.Err())
	}
}
