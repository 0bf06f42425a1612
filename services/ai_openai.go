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

// OpenAIAdapter calls an OpenAI-compatible chat completions API with
// function calling.
type OpenAIAdapter struct {
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
	client       *http.Client
}

func NewOpenAIAdapter(baseURL, apiKey, model, systemPrompt string) *OpenAIAdapter {
	return &OpenAIAdapter{
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
		// Per-call deadlines come from the request context.
		client: &http.Client{},
	}
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAIAdapter) Complete(ctx context.Context, history []models.Turn, tools []ToolDefinition) (*ModelResult, error) {
	messages := []map[string]interface{}{
		{"role": "system", "content": a.systemPrompt},
	}
	for _, turn := range history {
		messages = append(messages, map[string]interface{}{
			"role":    string(turn.Role),
			"content": turn.Text,
		})
	}

	toolDefs := make([]map[string]interface{}, 0, len(tools))
	for _, tool := range tools {
		toolDefs = append(toolDefs, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			},
		})
	}

	reqBody := map[string]interface{}{
		"model":       a.model,
		"messages":    messages,
		"tools":       toolDefs,
		"tool_choice": "auto",
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ModelAdapterError{Err: err}
	}

	apiURL := a.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, &ModelAdapterError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &ModelAdapterError{Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &ModelAdapterError{Err: fmt.Errorf("openAI API error: %s", string(bodyBytes))}
	}

	var result openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ModelAdapterError{Err: err}
	}
	if len(result.Choices) == 0 {
		return nil, &ModelAdapterError{Err: errors.New("no response from OpenAI")}
	}

	message := result.Choices[0].Message
	out := &ModelResult{Text: message.Content}
	for _, call := range message.ToolCalls {
		arguments := map[string]interface{}{}
		// Malformed arguments stay empty and fall through to unrecognized.
		_ = json.Unmarshal([]byte(call.Function.Arguments), &arguments)
		out.ToolCalls = append(out.ToolCalls, models.ToolCall{
			Name:      call.Function.Name,
			Arguments: arguments,
		})
	}

	return out, nil
}
