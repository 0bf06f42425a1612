package models

import "time"

// DialogueState is the dialogue machine's position for one session.
type DialogueState string

const (
	StateGreeting         DialogueState = "GREETING"
	StateAwaitDestination DialogueState = "AWAIT_DESTINATION"
	StateQuoteGiven       DialogueState = "QUOTE_GIVEN"
	StateAwaitName        DialogueState = "AWAIT_NAME"
	StateAwaitEmail       DialogueState = "AWAIT_EMAIL"
	StateBookingComplete  DialogueState = "BOOKING_COMPLETE"
	StateCancelled        DialogueState = "CANCELLED"
)

// Terminal reports whether no further transitions are possible from s.
func (s DialogueState) Terminal() bool {
	return s == StateBookingComplete || s == StateCancelled
}

// Slots holds the information the conversation has collected so far.
type Slots struct {
	Destination    string      `json:"destination,omitempty"`
	QuotedPrice    *PriceQuote `json:"quoted_price,omitempty"`
	Confirmed      bool        `json:"confirmed"`
	PassengerName  string      `json:"passenger_name,omitempty"`
	PassengerEmail string      `json:"passenger_email,omitempty"`
}

// ConversationState is the full per-session state: append-only turn history,
// filled slots and the current dialogue state. The session id is supplied by
// the caller and is the storage key.
type ConversationState struct {
	SessionID string        `json:"session_id"`
	State     DialogueState `json:"state"`
	Turns     []Turn        `json:"turns"`
	Slots     Slots         `json:"slots"`
	BookingID string        `json:"booking_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate freely and commit the
// result with a store Put, leaving the stored state untouched on failure.
func (c *ConversationState) Clone() *ConversationState {
	cp := *c
	cp.Turns = make([]Turn, len(c.Turns))
	copy(cp.Turns, c.Turns)
	for i, t := range c.Turns {
		if len(t.ToolCalls) > 0 {
			calls := make([]ToolCall, len(t.ToolCalls))
			copy(calls, t.ToolCalls)
			cp.Turns[i].ToolCalls = calls
		}
	}
	if c.Slots.QuotedPrice != nil {
		quote := *c.Slots.QuotedPrice
		cp.Slots.QuotedPrice = &quote
	}
	return &cp
}
