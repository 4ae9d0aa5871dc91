package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/envelope"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/middleware"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/normalize"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/stream"
	"github.com/rs/zerolog"
)

type route struct {
	shape          envelope.Shape
	failureMessage string
}

// Each entry point keeps the envelope and failure message its callers
// already depend on.
var routes = map[models.EntryPoint]route{
	models.EntryPointCompletion:   {envelope.ShapeCompletion, "Error generating completion"},
	models.EntryPointSimplePrompt: {envelope.ShapeCompletion, "Error generating completion"},
	models.EntryPointChat:         {envelope.ShapeChat, "Error generating chat completion"},
	models.EntryPointFullPrompt:   {envelope.ShapePassthrough, "Error generating completion with full prompt"},
}

type Service struct {
	generator llm.Generator
	publisher stream.Publisher
	logger    *zerolog.Logger
}

func NewService(generator llm.Generator, publisher stream.Publisher, logger *zerolog.Logger) *Service {
	if publisher == nil {
		publisher = stream.NopPublisher{}
	}
	return &Service{
		generator: generator,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Completion(ctx context.Context, req models.PromptRequest) (envelope.Response, error) {
	gen, err := normalize.Prompt(req)
	if err != nil {
		return envelope.Response{}, err
	}
	return s.Respond(ctx, gen)
}

func (s *Service) SimplePrompt(ctx context.Context, req models.PromptRequest) (envelope.Response, error) {
	gen, err := normalize.SimplePrompt(req)
	if err != nil {
		return envelope.Response{}, err
	}
	return s.Respond(ctx, gen)
}

func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (envelope.Response, error) {
	gen, err := normalize.Messages(req)
	if err != nil {
		return envelope.Response{}, err
	}
	return s.Respond(ctx, gen)
}

func (s *Service) FullPrompt(ctx context.Context, req *models.FullPromptRequest) (envelope.Response, error) {
	gen, err := normalize.FullPrompt(req)
	if err != nil {
		return envelope.Response{}, err
	}
	return s.Respond(ctx, gen)
}

// Respond performs the single provider call for gen and shapes the result
// for its entry point.
func (s *Service) Respond(ctx context.Context, gen models.Generation) (envelope.Response, error) {
	r := routeFor(gen.EntryPoint)
	return envelope.Reconcile(r.shape, s.generate(ctx, gen), r.failureMessage)
}

// Generate is Respond without the envelope: callers that are not bound to a
// legacy response shape get the provider success directly.
func (s *Service) Generate(ctx context.Context, gen models.Generation) (models.Success, error) {
	switch result := s.generate(ctx, gen).(type) {
	case models.Success:
		return result, nil
	case models.Failure:
		return models.Success{}, &middleware.UpstreamError{Message: routeFor(gen.EntryPoint).failureMessage, Failure: result}
	default:
		return models.Success{}, fmt.Errorf("unexpected generation result %T", result)
	}
}

func routeFor(entryPoint models.EntryPoint) route {
	if r, ok := routes[entryPoint]; ok {
		return r
	}
	return routes[models.EntryPointCompletion]
}

func (s *Service) generate(ctx context.Context, gen models.Generation) models.GenerationResult {
	start := time.Now()
	result := s.generator.Generate(ctx, gen.Messages, gen.Options)

	event := s.logger.Info()
	if _, failed := result.(models.Failure); failed {
		event = s.logger.Warn()
	}
	event.
		Str("entry_point", string(gen.EntryPoint)).
		Int("messages", len(gen.Messages)).
		Dur("duration", time.Since(start)).
		Msg("Generation complete")

	if success, ok := result.(models.Success); ok {
		s.publish(ctx, gen, success)
	}

	return result
}

// publish is best effort: the caller's response never depends on it.
func (s *Service) publish(ctx context.Context, gen models.Generation, success models.Success) {
	event := models.InteractionEvent{
		ID:         uuid.New().String(),
		EntryPoint: gen.EntryPoint,
		Model:      success.Model,
		Messages:   gen.Messages,
		Completion: success.Text,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to publish interaction event")
	}
}
