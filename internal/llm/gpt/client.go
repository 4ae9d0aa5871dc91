package gpt

import (
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Client calls the OpenAI chat completion API. A single instance is shared
// by all requests.
type Client struct {
	Client   openai.Client
	Defaults llm.Settings
	Timeout  time.Duration
	logger   *zerolog.Logger
}

type Option func(*clientConfig)

type clientConfig struct {
	baseURL  string
	timeout  time.Duration
	defaults llm.Settings
	logger   *zerolog.Logger
}

// WithBaseURL points the client at any OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithTimeout bounds every provider call (default: 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

func WithDefaults(s llm.Settings) Option {
	return func(c *clientConfig) { c.defaults = s }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	nop := zerolog.Nop()
	cfg := clientConfig{
		timeout:  defaultTimeout,
		defaults: llm.DefaultSettings(),
		logger:   &nop,
	}
	for _, o := range opts {
		o(&cfg)
	}

	// The gateway never retries: one inbound request is one provider call.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Client{
		Client:   openai.NewClient(clientOpts...),
		Defaults: cfg.defaults,
		Timeout:  cfg.timeout,
		logger:   cfg.logger,
	}, nil
}
