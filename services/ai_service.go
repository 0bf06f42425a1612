package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mridulja/flightbookingagent/models"
)

// ModelResult is one model completion: a natural-language reply and/or an
// ordered sequence of tool calls.
type ModelResult struct {
	Text      string
	ToolCalls []models.ToolCall
}

// ModelAdapter turns conversation history plus the tool schema into either a
// natural-language reply or structured tool invocations. The dialogue layer
// treats it as an opaque capability.
type ModelAdapter interface {
	Complete(ctx context.Context, history []models.Turn, tools []ToolDefinition) (*ModelResult, error)
}

// ToolDefinition describes one function the model may call.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// BookingToolSchema is the closed set of intents the assistant extracts.
func BookingToolSchema() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        string(models.IntentProvideDestination),
			Description: "The user named or asked about a destination city for their flight",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"destination": map[string]interface{}{
						"type":        "string",
						"description": "The destination city, e.g. 'London' (case-insensitive)",
					},
				},
				"required": []string{"destination"},
			},
		},
		{
			Name:        string(models.IntentConfirm),
			Description: "The user answered yes or no to the quoted price confirmation prompt",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"confirmed": map[string]interface{}{
						"type":        "boolean",
						"description": "true if the user accepted the quote, false if they declined",
					},
				},
				"required": []string{"confirmed"},
			},
		},
		{
			Name:        string(models.IntentProvideName),
			Description: "The user provided the passenger's full name",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Full passenger name (first and last name required)",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        string(models.IntentProvideEmail),
			Description: "The user provided a contact email for the booking confirmation",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"email": map[string]interface{}{
						"type":        "string",
						"description": "Email address for the booking confirmation",
					},
				},
				"required": []string{"email"},
			},
		},
		{
			Name:        string(models.IntentCancel),
			Description: "The user wants to abandon the booking",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// SystemPrompt builds the assistant's system message. The destination list
// keeps the model from inventing unsupported routes.
func SystemPrompt(destinations []string) string {
	return fmt.Sprintf(`You are Sonya, a helpful flight booking assistant. Guide users through the booking process naturally.

Supported destinations: %s

Follow these steps in order:
1. Determine the destination the user wants to fly to
2. Quote the ticket price and ask for an explicit yes/no confirmation
3. After confirmation, collect the passenger's full name, then their email
4. Complete the booking

Always report what the user said through the provided tools; one message may carry several tools in order (for example a destination and an immediate confirmation). Never invent prices or booking references yourself.
Maintain a friendly and helpful tone throughout the conversation.
Handle user frustration professionally and offer clear solutions.`, strings.Join(destinations, ", "))
}

// ParseIntents validates raw tool calls against the tagged intent schema.
// Unknown names or malformed arguments become unrecognized intents rather
// than being trusted.
func ParseIntents(toolCalls []models.ToolCall) []models.Intent {
	intents := make([]models.Intent, 0, len(toolCalls))
	for _, call := range toolCalls {
		intents = append(intents, parseIntent(call))
	}
	return intents
}

func parseIntent(call models.ToolCall) models.Intent {
	switch models.IntentName(call.Name) {
	case models.IntentProvideDestination:
		dest, ok := stringArg(call.Arguments, "destination")
		if !ok {
			return models.Intent{Name: models.IntentUnrecognized}
		}
		return models.Intent{Name: models.IntentProvideDestination, Destination: dest}
	case models.IntentConfirm:
		confirmed, ok := boolArg(call.Arguments, "confirmed")
		if !ok {
			return models.Intent{Name: models.IntentUnrecognized}
		}
		return models.Intent{Name: models.IntentConfirm, Confirmed: confirmed}
	case models.IntentProvideName:
		name, ok := stringArg(call.Arguments, "name")
		if !ok {
			return models.Intent{Name: models.IntentUnrecognized}
		}
		return models.Intent{Name: models.IntentProvideName, PassengerName: name}
	case models.IntentProvideEmail:
		email, ok := stringArg(call.Arguments, "email")
		if !ok {
			return models.Intent{Name: models.IntentUnrecognized}
		}
		return models.Intent{Name: models.IntentProvideEmail, PassengerEmail: email}
	case models.IntentCancel:
		return models.Intent{Name: models.IntentCancel}
	default:
		return models.Intent{Name: models.IntentUnrecognized}
	}
}

func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func boolArg(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}
