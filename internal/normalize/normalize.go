// Package normalize turns the request bodies accepted by each entry point
// into a canonical message list and generation options.
package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

var (
	ErrPromptRequired        = middleware.NewValidationError("Prompt is required")
	ErrMessagesRequired      = middleware.NewValidationError("Messages array is required and must not be empty")
	ErrInvalidMessage        = middleware.NewValidationError("Each message must have a role and content")
	ErrRequestDataRequired   = middleware.NewValidationError("Request data is required")
	ErrModelRequired         = middleware.NewValidationError("Model parameter is required")
	ErrPromptOrMessagesEmpty = middleware.NewValidationError("Either a prompt string or messages array is required")
)

// Prompt normalizes the completion entry point body.
func Prompt(req models.PromptRequest) (models.Generation, error) {
	if req.Prompt == "" {
		return models.Generation{}, ErrPromptRequired
	}

	return models.Generation{
		EntryPoint: models.EntryPointCompletion,
		Messages:   userMessage(req.Prompt),
		Options: models.GenerationOptions{
			Model:       req.Model,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	}, nil
}

// SimplePrompt validates like Prompt but drops every option so the adapter
// defaults apply.
func SimplePrompt(req models.PromptRequest) (models.Generation, error) {
	if req.Prompt == "" {
		return models.Generation{}, ErrPromptRequired
	}

	return models.Generation{
		EntryPoint: models.EntryPointSimplePrompt,
		Messages:   userMessage(req.Prompt),
	}, nil
}

// Messages normalizes the chat entry point body. The list is passed through
// unchanged once every element has a non-empty string role and content.
func Messages(req models.ChatRequest) (models.Generation, error) {
	messages, err := decodeMessages(req.Messages)
	if err != nil {
		return models.Generation{}, err
	}

	return models.Generation{
		EntryPoint: models.EntryPointChat,
		Messages:   messages,
		Options: models.GenerationOptions{
			Model:       req.Model,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	}, nil
}

// FullPrompt normalizes the passthrough entry point body. A non-empty prompt
// string wins over messages; max_tokens wins over maxTokens.
func FullPrompt(req *models.FullPromptRequest) (models.Generation, error) {
	if req == nil {
		return models.Generation{}, ErrRequestDataRequired
	}
	if req.Model == "" {
		return models.Generation{}, ErrModelRequired
	}

	var messages []models.Message
	if prompt, ok := stringValue(req.Prompt); ok && prompt != "" {
		messages = userMessage(prompt)
	} else if isNonEmptyArray(req.Messages) {
		decoded, err := decodeMessages(req.Messages)
		if err != nil {
			return models.Generation{}, err
		}
		messages = decoded
	} else {
		return models.Generation{}, ErrPromptOrMessagesEmpty
	}

	model := req.Model
	return models.Generation{
		EntryPoint: models.EntryPointFullPrompt,
		Messages:   messages,
		Options: models.GenerationOptions{
			Model:       &model,
			Temperature: req.Temperature,
			MaxTokens:   firstNonZero(req.MaxTokens, req.MaxTokensCamel),
		},
	}, nil
}

func userMessage(prompt string) []models.Message {
	return []models.Message{{Role: models.RoleUser, Content: prompt}}
}

func decodeMessages(raw json.RawMessage) ([]models.Message, error) {
	if isNull(raw) {
		return nil, ErrMessagesRequired
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, ErrMessagesRequired
	}

	messages := make([]models.Message, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, ErrInvalidMessage
		}

		role, ok := stringValue(fields["role"])
		if !ok || role == "" {
			return nil, ErrInvalidMessage
		}
		content, ok := stringValue(fields["content"])
		if !ok || content == "" {
			return nil, ErrInvalidMessage
		}

		messages = append(messages, models.Message{Role: role, Content: content})
	}

	return messages, nil
}

func stringValue(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNonEmptyArray(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// firstNonZero treats zero like an absent field. Negative values are kept so
// the provider reports them.
func firstNonZero(values ...*int) *int {
	for _, v := range values {
		if v != nil && *v != 0 {
			return v
		}
	}
	return nil
}
