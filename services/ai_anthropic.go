package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mridulja/flightbookingagent/models"
)

// AnthropicAdapter calls the Anthropic Messages API with tool use.
type AnthropicAdapter struct {
	apiKey       string
	model        string
	systemPrompt string
	client       *http.Client
}

func NewAnthropicAdapter(apiKey, model, systemPrompt string) *AnthropicAdapter {
	return &AnthropicAdapter{
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
		client:       &http.Client{},
	}
}

type anthropicResponse struct {
	Content []struct {
		Type  string                 `json:"type"`
		Text  string                 `json:"text,omitempty"`
		Name  string                 `json:"name,omitempty"`
		Input map[string]interface{} `json:"input,omitempty"`
	} `json:"content"`
}

func (a *AnthropicAdapter) Complete(ctx context.Context, history []models.Turn, tools []ToolDefinition) (*ModelResult, error) {
	messages := make([]map[string]interface{}, 0, len(history))
	for _, turn := range history {
		messages = append(messages, map[string]interface{}{
			"role":    string(turn.Role),
			"content": turn.Text,
		})
	}

	toolDefs := make([]map[string]interface{}, 0, len(tools))
	for _, tool := range tools {
		toolDefs = append(toolDefs, map[string]interface{}{
			"name":         tool.Name,
			"description":  tool.Description,
			"input_schema": tool.Parameters,
		})
	}

	reqBody := map[string]interface{}{
		"model":      a.model,
		"max_tokens": 1024,
		"system":     a.systemPrompt,
		"messages":   messages,
		"tools":      toolDefs,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ModelAdapterError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return nil, &ModelAdapterError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &ModelAdapterError{Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &ModelAdapterError{Err: fmt.Errorf("anthropic API error: %s", string(bodyBytes))}
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ModelAdapterError{Err: err}
	}
	if len(result.Content) == 0 {
		return nil, &ModelAdapterError{Err: errors.New("no response from Anthropic")}
	}

	out := &ModelResult{}
	for _, block := range result.Content {
		switch block.Type {
		case "text":
			out.Text += block.Text
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, models.ToolCall{
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}

	return out, nil
}
