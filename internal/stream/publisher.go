package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/publisher_mock.go -package=mocks . Publisher

const DefaultStream = "llm-events"

// Publisher records successful generations for downstream consumers such as
// an offline evaluator.
type Publisher interface {
	Publish(ctx context.Context, event models.InteractionEvent) error
}

// StreamAdder is the subset of *redis.Client used by RedisPublisher.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type RedisPublisher struct {
	client StreamAdder
	stream string
}

func NewRedisPublisher(client StreamAdder, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{
		client: client,
		stream: stream,
	}
}

// Publish appends the JSON encoded event under the "payload" field.
func (p *RedisPublisher) Publish(ctx context.Context, event models.InteractionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode interaction event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}

	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.InteractionEvent) error { return nil }
