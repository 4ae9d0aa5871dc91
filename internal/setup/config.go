package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/gateway.yaml"

type Config struct {
	APIKey          string
	OpenAIKey       string
	OpenAIBaseURL   string
	Port            string
	Environment     string
	LogLevel        string
	LogFormat       string
	Defaults        llm.Settings
	UpstreamTimeout time.Duration
	RedisAddr       string
	RedisPassword   string
	EventsStream    string
}

// FileConfig is the optional YAML overlay. Environment variables win over
// anything set here.
type FileConfig struct {
	Defaults        llm.Settings `yaml:"defaults"`
	UpstreamTimeout string       `yaml:"upstream_timeout"`
	Events          struct {
		Stream string `yaml:"stream"`
	} `yaml:"events"`
}

// IsDevelopment controls whether internal error detail reaches clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// EventsEnabled reports whether interaction events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RedisAddr != ""
}

func LoadConfig() (*Config, error) {
	file, err := LoadFileConfig(getEnv("GATEWAY_CONFIG_PATH", defaultConfigPath))
	if err != nil {
		return nil, err
	}

	timeout := 30 * time.Second
	if file.UpstreamTimeout != "" {
		d, err := time.ParseDuration(file.UpstreamTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream_timeout %q: %w", file.UpstreamTimeout, err)
		}
		timeout = d
	}

	return &Config{
		APIKey:        getEnv("API_KEY", ""),
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		Port:          getEnv("PORT", "3000"),
		Environment:   getEnv("APP_ENV", getEnv("NODE_ENV", "production")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		Defaults: llm.Settings{
			Model:       getEnv("LLM_DEFAULT_MODEL", file.Defaults.Model),
			Temperature: getEnvFloat("LLM_DEFAULT_TEMPERATURE", file.Defaults.Temperature),
			MaxTokens:   getEnvInt("LLM_DEFAULT_MAX_TOKENS", file.Defaults.MaxTokens),
		},
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", timeout),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		EventsStream:    getEnv("EVENTS_STREAM", file.Events.Stream),
	}, nil
}

// LoadFileConfig reads the YAML overlay at path. A missing file yields the
// built-in defaults.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{Defaults: llm.DefaultSettings()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.Defaults.Model == "" {
		cfg.Defaults.Model = llm.DefaultModel
	}
	if cfg.Defaults.MaxTokens <= 0 {
		cfg.Defaults.MaxTokens = llm.DefaultMaxTokens
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		value = defaultValue
	}

	return value
}
