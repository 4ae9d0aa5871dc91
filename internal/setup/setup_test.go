package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/rs/zerolog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "PORT", "APP_ENV", "NODE_ENV",
		"LOG_LEVEL", "LOG_FORMAT", "LLM_DEFAULT_MODEL", "LLM_DEFAULT_TEMPERATURE",
		"LLM_DEFAULT_MAX_TOKENS", "UPSTREAM_TIMEOUT", "REDIS_ADDR", "REDIS_PASSWORD", "EVENTS_STREAM",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("GATEWAY_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Port)
	}
	if cfg.Defaults != llm.DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", cfg.Defaults)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected production by default")
	}
	if cfg.EventsEnabled() {
		t.Error("Expected events disabled without REDIS_ADDR")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "development")
	t.Setenv("LLM_DEFAULT_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_DEFAULT_TEMPERATURE", "0")
	t.Setenv("LLM_DEFAULT_MAX_TOKENS", "128")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.APIKey != "secret" || cfg.Port != "8080" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected NODE_ENV to select development mode")
	}
	want := llm.Settings{Model: "gpt-4o-mini", Temperature: 0, MaxTokens: 128}
	if cfg.Defaults != want {
		t.Errorf("Expected %+v, got %+v", want, cfg.Defaults)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.UpstreamTimeout)
	}
}

func TestLoadConfig_AppEnvWinsOverNodeEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("NODE_ENV", "development")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected APP_ENV to take precedence")
	}
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := `defaults:
  model: gpt-4o
  temperature: 0.2
upstream_timeout: 10s
events:
  stream: gateway-events
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("GATEWAY_CONFIG_PATH", path)
	t.Setenv("LLM_DEFAULT_TEMPERATURE", "0.9")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Defaults.Model != "gpt-4o" {
		t.Errorf("Expected model from file, got %s", cfg.Defaults.Model)
	}
	if cfg.Defaults.Temperature != 0.9 {
		t.Errorf("Expected env to override file temperature, got %v", cfg.Defaults.Temperature)
	}
	if cfg.Defaults.MaxTokens != llm.DefaultMaxTokens {
		t.Errorf("Expected default max tokens, got %d", cfg.Defaults.MaxTokens)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.EventsStream != "gateway-events" {
		t.Errorf("Expected stream from file, got %s", cfg.EventsStream)
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte("defaults: [not, a, map"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadFileConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoadConfig_InvalidFileTimeout(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte("upstream_timeout: soon\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("GATEWAY_CONFIG_PATH", path)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for invalid upstream_timeout")
	}
}

func TestWire_RequiresOpenAIKey(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &Config{APIKey: "secret", Defaults: llm.DefaultSettings(), UpstreamTimeout: time.Second}

	if _, err := Wire(context.Background(), cfg, &logger); err == nil {
		t.Error("Expected error without OPENAI_API_KEY")
	}
}

func TestWire_WithoutEvents(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &Config{
		APIKey:          "secret",
		OpenAIKey:       "sk-test",
		Defaults:        llm.DefaultSettings(),
		UpstreamTimeout: time.Second,
	}

	deps, err := Wire(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("Wire() failed: %v", err)
	}
	defer deps.Close()

	if deps.Service == nil || deps.Guard == nil || deps.Generator == nil {
		t.Fatalf("Expected all dependencies, got %+v", deps)
	}
	if !deps.Guard.Allow("secret") {
		t.Error("Expected guard to accept the configured key")
	}
}
