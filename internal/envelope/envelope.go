// Package envelope renders generation results into the response shapes the
// different entry points have always returned. Every renderer is a pure
// function of its input.
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

type Shape int

const (
	// ShapeCompletion: {success, completion, result: {text, choices: [{text}]}}
	ShapeCompletion Shape = iota
	// ShapeChat: {success, completion, result: {choices: [{message: {content}}]}}
	ShapeChat
	// ShapePassthrough: ShapeChat plus result.raw_response
	ShapePassthrough
)

func (s Shape) String() string {
	switch s {
	case ShapeCompletion:
		return "completion"
	case ShapeChat:
		return "chat"
	case ShapePassthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

type Response struct {
	Success    bool   `json:"success" description:"true when the provider call succeeded"`
	Completion string `json:"completion" description:"Generated text"`
	Result     any    `json:"result" description:"Entry point specific result"`
}

type TextChoice struct {
	Text string `json:"text"`
}

type ChoiceMessage struct {
	Content string `json:"content"`
}

type MessageChoice struct {
	Message ChoiceMessage `json:"message"`
}

type CompletionResult struct {
	Text    string       `json:"text"`
	Choices []TextChoice `json:"choices"`
}

type ChatResult struct {
	Choices []MessageChoice `json:"choices"`
}

type PassthroughResult struct {
	Choices     []MessageChoice `json:"choices"`
	RawResponse json.RawMessage `json:"raw_response"`
}

var renderers = map[Shape]func(models.Success) any{
	ShapeCompletion: func(s models.Success) any {
		return CompletionResult{Text: s.Text, Choices: []TextChoice{{Text: s.Text}}}
	},
	ShapeChat: func(s models.Success) any {
		return ChatResult{Choices: messageChoices(s.Text)}
	},
	ShapePassthrough: func(s models.Success) any {
		raw := s.Raw
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		return PassthroughResult{Choices: messageChoices(s.Text), RawResponse: raw}
	},
}

// Render builds the success body for shape.
func Render(shape Shape, s models.Success) (Response, error) {
	render, ok := renderers[shape]
	if !ok {
		return Response{}, fmt.Errorf("unknown envelope shape: %s", shape)
	}
	return Response{Success: true, Completion: s.Text, Result: render(s)}, nil
}

// Reconcile maps any generation result onto either a success body or an
// UpstreamError carrying failureMessage.
func Reconcile(shape Shape, result models.GenerationResult, failureMessage string) (Response, error) {
	switch r := result.(type) {
	case models.Success:
		return Render(shape, r)
	case models.Failure:
		return Response{}, &middleware.UpstreamError{Message: failureMessage, Failure: r}
	default:
		return Response{}, fmt.Errorf("unexpected generation result %T", result)
	}
}

func messageChoices(text string) []MessageChoice {
	return []MessageChoice{{Message: ChoiceMessage{Content: text}}}
}
