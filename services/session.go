package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mridulja/flightbookingagent/models"
)

const maxPassengerNameLength = 120

var validate = validator.New()

// Session wraps one conversation's state and is its only mutator: turn
// appends and slot writes go through these methods so the field rules and
// the append-only history guarantee hold everywhere.
type Session struct {
	state *models.ConversationState
	now   func() time.Time
}

// NewSession initializes state for a fresh session id: GREETING, no slots.
func NewSession(sessionID string) *Session {
	now := time.Now()
	return &Session{
		state: &models.ConversationState{
			SessionID: sessionID,
			State:     models.StateGreeting,
			CreatedAt: now,
			UpdatedAt: now,
		},
		now: time.Now,
	}
}

// ResumeSession wraps previously stored state.
func ResumeSession(state *models.ConversationState) *Session {
	return &Session{state: state, now: time.Now}
}

// AppendUserTurn appends the user's message to the history.
func (s *Session) AppendUserTurn(text string) {
	s.state.Turns = append(s.state.Turns, models.Turn{
		Role:      models.RoleUser,
		Text:      text,
		Timestamp: s.now(),
	})
	s.state.UpdatedAt = s.now()
}

// AppendAssistantTurn appends the assistant's reply, with the tool calls the
// model produced for this turn if any.
func (s *Session) AppendAssistantTurn(text string, toolCalls []models.ToolCall) {
	s.state.Turns = append(s.state.Turns, models.Turn{
		Role:      models.RoleAssistant,
		Text:      text,
		ToolCalls: toolCalls,
		Timestamp: s.now(),
	})
	s.state.UpdatedAt = s.now()
}

// SetDestination stores a resolved destination with its quote. A previously
// quoted destination is cleared first, never overwritten in place, and the
// confirmation slot resets because it applied to the old quote.
func (s *Session) SetDestination(quote *models.PriceQuote) error {
	if quote == nil || strings.TrimSpace(quote.Destination) == "" {
		return NewValidationError("destination", "must not be empty")
	}
	s.state.Slots.Destination = ""
	s.state.Slots.QuotedPrice = nil
	s.state.Slots.Confirmed = false

	s.state.Slots.Destination = quote.Destination
	s.state.Slots.QuotedPrice = quote
	s.state.UpdatedAt = s.now()
	return nil
}

// SetConfirmed records the user's answer to the quote confirmation prompt.
func (s *Session) SetConfirmed(confirmed bool) {
	s.state.Slots.Confirmed = confirmed
	s.state.UpdatedAt = s.now()
}

// SetPassengerName validates and stores the passenger name. On failure the
// prior value is left untouched.
func (s *Session) SetPassengerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return NewValidationError("name", "must not be empty")
	}
	if len(trimmed) > maxPassengerNameLength {
		return NewValidationError("name", "is too long")
	}
	if len(strings.Fields(trimmed)) < 2 {
		return NewValidationError("name", "must include first and last name")
	}
	s.state.Slots.PassengerName = trimmed
	s.state.UpdatedAt = s.now()
	return nil
}

// SetPassengerEmail validates and stores the contact email. On failure the
// prior value is left untouched.
func (s *Session) SetPassengerEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if err := validate.Var(trimmed, "required,email"); err != nil {
		return NewValidationError("email", "must be a valid address like name@example.com")
	}
	s.state.Slots.PassengerEmail = trimmed
	s.state.UpdatedAt = s.now()
	return nil
}

// SetState moves the dialogue machine.
func (s *Session) SetState(state models.DialogueState) {
	s.state.State = state
	s.state.UpdatedAt = s.now()
}

// SetBookingID links the session to its created booking record.
func (s *Session) SetBookingID(id string) {
	s.state.BookingID = id
	s.state.UpdatedAt = s.now()
}

// State returns the current dialogue state.
func (s *Session) State() models.DialogueState {
	return s.state.State
}

// Slots returns the currently filled slots.
func (s *Session) Slots() models.Slots {
	return s.state.Slots
}

// Snapshot returns a read-only deep copy for branching and model calls.
func (s *Session) Snapshot() *models.ConversationState {
	return s.state.Clone()
}

// Unwrap exposes the underlying state for persistence.
func (s *Session) Unwrap() *models.ConversationState {
	return s.state
}
