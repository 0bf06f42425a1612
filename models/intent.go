package models

// IntentName is the closed set of tagged meanings the model may extract
// from a user turn. Anything else maps to IntentUnrecognized.
type IntentName string

const (
	IntentProvideDestination IntentName = "provide_destination"
	IntentConfirm            IntentName = "confirm"
	IntentProvideName        IntentName = "provide_name"
	IntentProvideEmail       IntentName = "provide_email"
	IntentCancel             IntentName = "cancel"
	IntentUnrecognized       IntentName = "unrecognized"
)

// Intent is one validated, tagged meaning extracted from a user turn.
// Only the field matching Name carries data.
type Intent struct {
	Name           IntentName
	Destination    string
	Confirmed      bool
	PassengerName  string
	PassengerEmail string
}
