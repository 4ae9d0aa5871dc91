package llm

import (
	"context"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

//go:generate mockgen -destination=mocks/generator_mock.go -package=mocks . Generator

// Generator is the single outbound capability of the gateway.
// Implementations never return an error: provider failures come back as
// models.Failure.
type Generator interface {
	Generate(ctx context.Context, messages []models.Message, opts models.GenerationOptions) models.GenerationResult
}
