package services_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

func TestSimulatedSenderFailureRate(t *testing.T) {
	booking := &models.BookingRecord{ID: "b1", PassengerEmail: "jane@example.com"}

	never := services.NewSimulatedSender(0, 1)
	for i := 0; i < 20; i++ {
		assert.NoError(t, never.Send(context.Background(), booking))
	}

	always := services.NewSimulatedSender(1, 1)
	for i := 0; i < 20; i++ {
		assert.Error(t, always.Send(context.Background(), booking))
	}
}

func TestSMTPSenderHonorsContextDeadline(t *testing.T) {
	// An SMTP server that accepts the connection and then never sends its
	// greeting, so the client would wait forever without a bound.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		t.Cleanup(func() { conn.Close() })
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	sender := services.NewSMTPSender("127.0.0.1", port, "", "", "bookings@crewair.example")

	booking := &models.BookingRecord{
		ID:             "b1",
		PassengerName:  "Jane Doe",
		PassengerEmail: "jane@example.com",
		Destination:    "london",
		Amount:         799,
		Currency:       "USD",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = sender.Send(ctx, booking)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second, "a stalled server must not block delivery past the deadline")
}
