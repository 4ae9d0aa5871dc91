package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/gateway"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/normalize"
)

// CompleteInput is the MCP tool input schema for a single prompt.
type CompleteInput struct {
	Prompt      string   `json:"prompt" jsonschema:"the prompt to send to the model"`
	Model       string   `json:"model,omitempty" jsonschema:"model ID, defaults to the gateway default"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature"`
	MaxTokens   int      `json:"max_tokens,omitempty" jsonschema:"maximum tokens to generate"`
}

// ChatInput is the MCP tool input schema for a message list.
type ChatInput struct {
	Messages    []models.Message `json:"messages" jsonschema:"conversation as role/content pairs"`
	Model       string           `json:"model,omitempty" jsonschema:"model ID, defaults to the gateway default"`
	Temperature *float64         `json:"temperature,omitempty" jsonschema:"sampling temperature"`
	MaxTokens   int              `json:"max_tokens,omitempty" jsonschema:"maximum tokens to generate"`
}

type CompletionOutput struct {
	Completion string `json:"completion" jsonschema:"generated text"`
	Model      string `json:"model,omitempty" jsonschema:"model that produced the completion"`
}

// NewCompleteHandler returns a tool handler backed by service.
// Pass the returned function to mcp.AddTool.
func NewCompleteHandler(service *gateway.Service) func(context.Context, *mcp.CallToolRequest, CompleteInput) (*mcp.CallToolResult, CompletionOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompleteInput) (*mcp.CallToolResult, CompletionOutput, error) {
		gen, err := normalize.Prompt(models.PromptRequest{
			Prompt:      input.Prompt,
			Model:       optionalString(input.Model),
			Temperature: input.Temperature,
			MaxTokens:   optionalInt(input.MaxTokens),
		})
		if err != nil {
			return nil, CompletionOutput{}, err
		}
		return generate(ctx, service, gen)
	}
}

// NewChatHandler returns a tool handler backed by service.
// Pass the returned function to mcp.AddTool.
func NewChatHandler(service *gateway.Service) func(context.Context, *mcp.CallToolRequest, ChatInput) (*mcp.CallToolResult, CompletionOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, CompletionOutput, error) {
		raw, err := json.Marshal(input.Messages)
		if err != nil {
			return nil, CompletionOutput{}, fmt.Errorf("failed to encode messages: %w", err)
		}

		gen, err := normalize.Messages(models.ChatRequest{
			Messages:    raw,
			Model:       optionalString(input.Model),
			Temperature: input.Temperature,
			MaxTokens:   optionalInt(input.MaxTokens),
		})
		if err != nil {
			return nil, CompletionOutput{}, err
		}
		return generate(ctx, service, gen)
	}
}

func generate(ctx context.Context, service *gateway.Service, gen models.Generation) (*mcp.CallToolResult, CompletionOutput, error) {
	success, err := service.Generate(ctx, gen)
	if err != nil {
		return nil, CompletionOutput{}, err
	}
	return nil, CompletionOutput{Completion: success.Text, Model: success.Model}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
