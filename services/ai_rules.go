package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/mridulja/flightbookingagent/models"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

var yesWords = map[string]bool{"yes": true, "yeah": true, "yep": true, "sure": true, "confirm": true, "ok": true, "okay": true}
var noWords = map[string]bool{"no": true, "nope": true, "decline": true}
var cancelWords = map[string]bool{"cancel": true, "stop": true, "quit": true, "nevermind": true}

// RulesAdapter is a deterministic ModelAdapter for offline development and
// tests. It extracts intents from the latest user turn with keyword rules,
// using the previous assistant prompt to disambiguate free-text answers.
type RulesAdapter struct {
	destinations []string
}

func NewRulesAdapter(destinations []string) *RulesAdapter {
	return &RulesAdapter{destinations: destinations}
}

func (a *RulesAdapter) Complete(ctx context.Context, history []models.Turn, tools []ToolDefinition) (*ModelResult, error) {
	userText := lastTurnText(history, models.RoleUser)
	assistantText := strings.ToLower(lastTurnText(history, models.RoleAssistant))

	lowered := strings.ToLower(userText)
	tokens := tokenize(lowered)

	result := &ModelResult{}
	addCall := func(name models.IntentName, args map[string]interface{}) {
		result.ToolCalls = append(result.ToolCalls, models.ToolCall{Name: string(name), Arguments: args})
	}

	if hasAny(tokens, cancelWords) {
		addCall(models.IntentCancel, map[string]interface{}{})
		return result, nil
	}

	for _, dest := range a.destinations {
		if strings.Contains(lowered, dest) {
			addCall(models.IntentProvideDestination, map[string]interface{}{"destination": dest})
			break
		}
	}

	switch {
	case hasAny(tokens, yesWords):
		addCall(models.IntentConfirm, map[string]interface{}{"confirmed": true})
	case hasAny(tokens, noWords):
		addCall(models.IntentConfirm, map[string]interface{}{"confirmed": false})
	}

	if len(result.ToolCalls) > 0 {
		return result, nil
	}

	if match := emailPattern.FindString(userText); match != "" {
		addCall(models.IntentProvideEmail, map[string]interface{}{"email": match})
		return result, nil
	}

	// Free-text answers take their meaning from what was just asked.
	switch {
	case strings.Contains(assistantText, "email"):
		addCall(models.IntentProvideEmail, map[string]interface{}{"email": strings.TrimSpace(userText)})
	case strings.Contains(assistantText, "name"):
		addCall(models.IntentProvideName, map[string]interface{}{"name": strings.TrimSpace(userText)})
	}

	return result, nil
}

func lastTurnText(history []models.Turn, role models.Role) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == role {
			return history[i].Text
		}
	}
	return ""
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

func hasAny(tokens []string, words map[string]bool) bool {
	for _, tok := range tokens {
		if words[tok] {
			return true
		}
	}
	return false
}
