package setup

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/auth"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/gateway"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/redis"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/stream"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisMaxRetries = 3

type Dependencies struct {
	Generator llm.Generator
	Service   *gateway.Service
	Guard     *auth.APIKeyGuard
	Logger    *zerolog.Logger

	redisClient *goredis.Client
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	if cfg.APIKey == "" {
		logger.Warn().Msg("API_KEY is not set, every LLM request will be rejected")
	}

	generator, err := gpt.NewClient(cfg.OpenAIKey,
		gpt.WithBaseURL(cfg.OpenAIBaseURL),
		gpt.WithTimeout(cfg.UpstreamTimeout),
		gpt.WithDefaults(cfg.Defaults),
		gpt.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	logger.Info().
		Str("model", cfg.Defaults.Model).
		Float64("temperature", cfg.Defaults.Temperature).
		Int("max_tokens", cfg.Defaults.MaxTokens).
		Dur("timeout", cfg.UpstreamTimeout).
		Msg("OpenAI client initialized")

	deps := &Dependencies{
		Generator: generator,
		Guard:     auth.NewAPIKeyGuard(cfg.APIKey, logger),
		Logger:    logger,
	}

	var publisher stream.Publisher = stream.NopPublisher{}
	if cfg.EventsEnabled() {
		client, err := redis.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, redisMaxRetries, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to events stream: %w", err)
		}
		deps.redisClient = client
		publisher = stream.NewRedisPublisher(client, cfg.EventsStream)

		logger.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.EventsStream).Msg("Interaction events enabled")
	}

	deps.Service = gateway.NewService(generator, publisher, logger)
	return deps, nil
}

// Close releases the connections opened by Wire.
func (d *Dependencies) Close() error {
	if d.redisClient == nil {
		return nil
	}
	return d.redisClient.Close()
}
