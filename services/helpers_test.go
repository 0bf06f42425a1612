package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

// scriptedAdapter replays one prepared ModelResult per call, letting tests
// drive the state machine with exact intent sequences.
type scriptedAdapter struct {
	mu      sync.Mutex
	results []*services.ModelResult
	err     error
	calls   int
}

func (a *scriptedAdapter) Complete(ctx context.Context, history []models.Turn, tools []services.ToolDefinition) (*services.ModelResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	if len(a.results) == 0 {
		return &services.ModelResult{}, nil
	}
	result := a.results[0]
	a.results = a.results[1:]
	return result, nil
}

func (a *scriptedAdapter) push(results ...*services.ModelResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, results...)
}

func toolCall(name models.IntentName, args map[string]interface{}) models.ToolCall {
	if args == nil {
		args = map[string]interface{}{}
	}
	return models.ToolCall{Name: string(name), Arguments: args}
}

func result(calls ...models.ToolCall) *services.ModelResult {
	return &services.ModelResult{ToolCalls: calls}
}

// memBookingStore is an in-memory BookingStore double.
type memBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.BookingRecord
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[string]*models.BookingRecord)}
}

func (s *memBookingStore) Insert(ctx context.Context, booking *models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[booking.ID]; exists {
		return fmt.Errorf("duplicate booking id %s", booking.ID)
	}
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *memBookingStore) Get(ctx context.Context, id string) (*models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found")
	}
	cp := *booking
	return &cp, nil
}

func (s *memBookingStore) UpdateConfirmationStatus(ctx context.Context, id string, status models.ConfirmationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}
	booking.ConfirmationStatus = status
	return nil
}

func (s *memBookingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// stubSender fails delivery while fail is set.
type stubSender struct {
	mu    sync.Mutex
	fail  bool
	sends int
}

func (s *stubSender) Send(ctx context.Context, booking *models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends++
	if s.fail {
		return fmt.Errorf("delivery refused")
	}
	return nil
}

func (s *stubSender) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *stubSender) sendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends
}

type fixture struct {
	adapter  *scriptedAdapter
	store    *memBookingStore
	sender   *stubSender
	sessions *services.MemorySessionStore
	recorder *services.BookingRecorder
	dialogue *services.DialogueService
}

func newFixture() *fixture {
	adapter := &scriptedAdapter{}
	store := newMemBookingStore()
	sender := &stubSender{}
	sessions := services.NewMemorySessionStore(30 * time.Minute)
	catalog := services.NewPriceCatalog()
	logger := zap.NewNop()

	recorder := services.NewBookingRecorder(store, sender, nil, logger)
	dialogue := services.NewDialogueService(adapter, catalog, recorder, sessions, logger, services.DialogueConfig{
		ModelTimeout: time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	})

	return &fixture{
		adapter:  adapter,
		store:    store,
		sender:   sender,
		sessions: sessions,
		recorder: recorder,
		dialogue: dialogue,
	}
}
