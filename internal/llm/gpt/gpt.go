package gpt

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

func (c *Client) Generate(ctx context.Context, messages []models.Message, opts models.GenerationOptions) models.GenerationResult {
	settings := c.Defaults.Merge(opts)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(settings.Model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(settings.Temperature),
		MaxTokens:   openai.Int(int64(settings.MaxTokens)),
	}

	output, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		failure := toFailure(err)
		c.logger.Error().
			Err(err).
			Str("model", settings.Model).
			Str("code", failure.Code).
			Msg("OpenAI API error")
		return failure
	}

	text := ""
	if len(output.Choices) > 0 {
		text = output.Choices[0].Message.Content
	}

	var raw json.RawMessage
	if rawJSON := output.RawJSON(); rawJSON != "" {
		raw = json.RawMessage(rawJSON)
	}

	return models.Success{
		Text:  text,
		Model: output.Model,
		Raw:   raw,
	}
}

func toFailure(err error) models.Failure {
	failure := models.Failure{
		Message: err.Error(),
		Code:    llm.UnknownErrorCode,
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			failure.Message = apiErr.Message
		}
		if apiErr.Code != "" {
			failure.Code = apiErr.Code
		}
	}

	return failure
}

// toOpenAIMessages maps roles onto the SDK union. Roles the SDK has no
// constructor for are sent verbatim so the provider decides whether to
// accept them.
func toOpenAIMessages(msgs []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case models.RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case models.RoleUser:
			out[i] = openai.UserMessage(m.Content)
		case models.RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		case "developer":
			out[i] = openai.DeveloperMessage(m.Content)
		default:
			out[i] = param.Override[openai.ChatCompletionMessageParamUnion](map[string]string{
				"role":    m.Role,
				"content": m.Content,
			})
		}
	}
	return out
}
