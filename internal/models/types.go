package models

import (
	"encoding/json"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type EntryPoint string

const (
	EntryPointCompletion   EntryPoint = "completion"
	EntryPointChat         EntryPoint = "chat"
	EntryPointSimplePrompt EntryPoint = "simple-prompt"
	EntryPointFullPrompt   EntryPoint = "full-prompt"
)

type Message struct {
	Role    string `json:"role" description:"Message author role (system, user, assistant)"`
	Content string `json:"content" description:"Message text"`
}

// GenerationOptions holds the caller supplied overrides. Nil fields fall back
// to the adapter defaults.
type GenerationOptions struct {
	Model       *string
	Temperature *float64
	MaxTokens   *int
}

// Input messages

type PromptRequest struct {
	Prompt      string   `json:"prompt" description:"The prompt to send to the model"`
	Model       *string  `json:"model,omitempty" description:"Model ID (default: gpt-3.5-turbo)"`
	Temperature *float64 `json:"temperature,omitempty" description:"Sampling temperature (default: 0.7)"`
	MaxTokens   *int     `json:"maxTokens,omitempty" description:"Maximum tokens to generate (default: 500)"`
}

// ChatRequest keeps messages raw so that malformed entries can be reported
// with a validation message instead of a decode failure.
type ChatRequest struct {
	Messages    json.RawMessage `json:"messages" description:"Array of {role, content} messages"`
	Model       *string         `json:"model,omitempty" description:"Model ID (default: gpt-3.5-turbo)"`
	Temperature *float64        `json:"temperature,omitempty" description:"Sampling temperature (default: 0.7)"`
	MaxTokens   *int            `json:"maxTokens,omitempty" description:"Maximum tokens to generate (default: 500)"`
}

type FullPromptRequest struct {
	Model          string          `json:"model" description:"Model ID (required)"`
	Prompt         json.RawMessage `json:"prompt,omitempty" description:"Prompt string, takes precedence over messages"`
	Messages       json.RawMessage `json:"messages,omitempty" description:"Array of {role, content} messages"`
	Temperature    *float64        `json:"temperature,omitempty" description:"Sampling temperature"`
	MaxTokens      *int            `json:"max_tokens,omitempty" description:"Maximum tokens to generate"`
	MaxTokensCamel *int            `json:"maxTokens,omitempty" description:"Alias of max_tokens"`
}

// Normalized internal object
type Generation struct {
	EntryPoint EntryPoint
	Messages   []Message
	Options    GenerationOptions
}

// GenerationResult is either Success or Failure.
type GenerationResult interface {
	isGenerationResult()
}

type Success struct {
	Text  string
	Model string
	Raw   json.RawMessage
}

type Failure struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (Success) isGenerationResult() {}
func (Failure) isGenerationResult() {}

// InteractionEvent is published after a successful generation when the
// event stream is enabled.
type InteractionEvent struct {
	ID         string     `json:"id"`
	EntryPoint EntryPoint `json:"entry_point"`
	Model      string     `json:"model"`
	Messages   []Message  `json:"messages"`
	Completion string     `json:"completion"`
	CreatedAt  time.Time  `json:"created_at"`
}
