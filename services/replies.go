package services

import (
	"fmt"
	"strings"

	"github.com/mridulja/flightbookingagent/models"
)

// Replies are state-determined templates: on bad or unrecognized input the
// assistant re-prompts for what the current state still needs instead of
// improvising.

const genericErrorReply = "I apologize, but I encountered an error. Please try again."

func (d *DialogueService) statePrompt(state models.DialogueState, slots models.Slots) string {
	switch state {
	case models.StateGreeting:
		return fmt.Sprintf("Hi, I'm Sonya, your flight booking assistant. Where would you like to fly? We currently fly to %s.",
			destinationList(d.catalog.Destinations()))
	case models.StateAwaitDestination:
		return fmt.Sprintf("Which destination would you like to fly to? We currently fly to %s.",
			destinationList(d.catalog.Destinations()))
	case models.StateQuoteGiven:
		return fmt.Sprintf("A flight to %s is %s. Would you like me to book it?",
			titleCase(slots.Destination), slots.QuotedPrice.Display())
	case models.StateAwaitName:
		return "Could you give me the passenger's full name?"
	case models.StateAwaitEmail:
		return "And what email address should the booking confirmation go to?"
	case models.StateBookingComplete:
		return "Your booking is all set. Is there anything else I can help you with?"
	case models.StateCancelled:
		return "This booking was cancelled. Send a new message in a fresh session to start over."
	default:
		return genericErrorReply
	}
}

func quoteReply(quote *models.PriceQuote) string {
	return fmt.Sprintf("A flight to %s is %s. Shall I book it for you?",
		titleCase(quote.Destination), quote.Display())
}

func unknownDestinationReply(input string, destinations []string) string {
	return fmt.Sprintf("I'm sorry, we don't fly to %s yet. We currently fly to %s - which would you like?",
		strings.TrimSpace(input), destinationList(destinations))
}

func askNameReply() string {
	return "Great! Could you give me the passenger's full name?"
}

func askEmailReply() string {
	return "Thanks! And what email address should the booking confirmation go to?"
}

func cancelledReply() string {
	return "No problem, I've cancelled this booking. Feel free to come back any time."
}

func validationReply(err error) string {
	if verr, ok := err.(*ValidationError); ok {
		return fmt.Sprintf("That %s doesn't look right: it %s. Could you try again?", verr.Field, verr.Reason)
	}
	return genericErrorReply
}

func bookedReply(booking *models.BookingRecord) string {
	quote := models.PriceQuote{Destination: booking.Destination, Amount: booking.Amount, Currency: booking.Currency}
	msg := fmt.Sprintf("Booking confirmed! Your flight to %s for %s is booked at %s. Booking reference: %s.",
		titleCase(booking.Destination), booking.PassengerName, quote.Display(), booking.ID)
	if booking.ConfirmationStatus == models.ConfirmationFailedRetryable {
		msg += " Your confirmation email may be delayed; we'll keep trying to deliver it."
	} else {
		msg += fmt.Sprintf(" A confirmation email is on its way to %s.", booking.PassengerEmail)
	}
	return msg
}

func bookingFailedReply() string {
	return "I'm sorry, I couldn't finalize the booking just now. Please send your email address again in a moment."
}

func destinationList(destinations []string) string {
	titled := make([]string, len(destinations))
	for i, d := range destinations {
		titled[i] = titleCase(d)
	}
	if len(titled) <= 1 {
		return strings.Join(titled, "")
	}
	return strings.Join(titled[:len(titled)-1], ", ") + " and " + titled[len(titled)-1]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
