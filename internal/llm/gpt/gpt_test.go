package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/llm-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/llm-gateway/internal/models"
)

func ptr[T any](v T) *T { return &v }

func completionResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-3.5-turbo-0125",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
					"refusal": "",
				},
				"logprobs": nil,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 1,
			"total_tokens":      13,
		},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient("test-key", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("Expected error for empty API key")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("sk-test")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Defaults != llm.DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", client.Defaults)
	}
	if client.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", client.Timeout)
	}
}

func TestClient_ImplementsGenerator(t *testing.T) {
	var _ llm.Generator = (*Client)(nil)
}

func TestGenerate_Success(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header '%s'", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("4"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	result := client.Generate(context.Background(), []models.Message{
		{Role: "system", Content: "Answer briefly."},
		{Role: "user", Content: "2+2?"},
	}, models.GenerationOptions{})

	success, ok := result.(models.Success)
	if !ok {
		t.Fatalf("Expected Success, got %#v", result)
	}
	if success.Text != "4" {
		t.Errorf("Expected text '4', got '%s'", success.Text)
	}
	if success.Model != "gpt-3.5-turbo-0125" {
		t.Errorf("Expected provider model echo, got '%s'", success.Model)
	}

	var raw map[string]any
	if err := json.Unmarshal(success.Raw, &raw); err != nil {
		t.Fatalf("Raw response is not JSON: %v", err)
	}
	if raw["id"] != "chatcmpl-test" {
		t.Errorf("Expected raw response id, got %v", raw["id"])
	}

	// Defaults are applied when no options are given.
	if captured["model"] != "gpt-3.5-turbo" {
		t.Errorf("Expected default model, got %v", captured["model"])
	}
	if captured["temperature"] != 0.7 {
		t.Errorf("Expected default temperature, got %v", captured["temperature"])
	}
	if captured["max_tokens"] != float64(500) {
		t.Errorf("Expected default max_tokens, got %v", captured["max_tokens"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages sent, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("Expected first role system, got %v", first["role"])
	}
}

func TestGenerate_OptionsOverrideDefaults(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	client.Generate(context.Background(), []models.Message{{Role: "user", Content: "hi"}}, models.GenerationOptions{
		Model:       ptr("gpt-4o-mini"),
		Temperature: ptr(0.0),
		MaxTokens:   ptr(64),
	})

	if captured["model"] != "gpt-4o-mini" {
		t.Errorf("Expected model override, got %v", captured["model"])
	}
	if captured["temperature"] != 0.0 {
		t.Errorf("Expected temperature 0, got %v", captured["temperature"])
	}
	if captured["max_tokens"] != float64(64) {
		t.Errorf("Expected max_tokens 64, got %v", captured["max_tokens"])
	}
}

func TestGenerate_NoChoicesYieldsEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := completionResponse("")
		resp["choices"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	result := newTestClient(t, srv).Generate(context.Background(), []models.Message{{Role: "user", Content: "hi"}}, models.GenerationOptions{})

	success, ok := result.(models.Success)
	if !ok {
		t.Fatalf("Expected Success, got %#v", result)
	}
	if success.Text != "" {
		t.Errorf("Expected empty text, got '%s'", success.Text)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limited",
				"type":    "requests",
				"code":    "rate_limit_exceeded",
			},
			"message": "rate limited",
			"type":    "requests",
			"code":    "rate_limit_exceeded",
		})
	}))
	defer srv.Close()

	result := newTestClient(t, srv).Generate(context.Background(), []models.Message{{Role: "user", Content: "hi"}}, models.GenerationOptions{})

	failure, ok := result.(models.Failure)
	if !ok {
		t.Fatalf("Expected Failure, got %#v", result)
	}
	if failure.Code != "rate_limit_exceeded" {
		t.Errorf("Expected provider code, got '%s'", failure.Code)
	}
	if failure.Message == "" {
		t.Error("Expected failure message")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected exactly one provider call, got %d", got)
	}
}

func TestGenerate_NetworkErrorIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient("test-key", WithBaseURL(url))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	result := client.Generate(context.Background(), []models.Message{{Role: "user", Content: "hi"}}, models.GenerationOptions{})

	failure, ok := result.(models.Failure)
	if !ok {
		t.Fatalf("Expected Failure, got %#v", result)
	}
	if failure.Code != llm.UnknownErrorCode {
		t.Errorf("Expected code %s, got '%s'", llm.UnknownErrorCode, failure.Code)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv, WithTimeout(50*time.Millisecond))

	start := time.Now()
	result := client.Generate(context.Background(), []models.Message{{Role: "user", Content: "hi"}}, models.GenerationOptions{})

	if _, ok := result.(models.Failure); !ok {
		t.Fatalf("Expected Failure, got %#v", result)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected timeout to bound the call, took %s", elapsed)
	}
}

func TestToOpenAIMessages(t *testing.T) {
	messages := []models.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi"},
		{Role: "developer", Content: "Be terse"},
		{Role: "narrator", Content: "Once upon a time."},
	}

	result := toOpenAIMessages(messages)
	if len(result) != len(messages) {
		t.Fatalf("Expected %d messages, got %d", len(messages), len(result))
	}

	for i, want := range messages {
		data, err := json.Marshal(result[i])
		if err != nil {
			t.Fatalf("marshal %s: %v", want.Role, err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", want.Role, err)
		}
		if decoded["role"] != want.Role {
			t.Errorf("Expected role %s, got %v", want.Role, decoded["role"])
		}
		if decoded["content"] != want.Content {
			t.Errorf("Expected content '%s', got %v", want.Content, decoded["content"])
		}
	}
}

func TestGenerate_UnknownRoleSentVerbatim(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	result := client.Generate(context.Background(), []models.Message{
		{Role: "narrator", Content: "Once upon a time."},
	}, models.GenerationOptions{})

	if _, ok := result.(models.Success); !ok {
		t.Fatalf("Expected Success, got %#v", result)
	}

	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message sent, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "narrator" {
		t.Errorf("Expected role narrator, got %v", first["role"])
	}
	if first["content"] != "Once upon a time." {
		t.Errorf("Unexpected content %v", first["content"])
	}
}

func TestGenerate_NegativeMaxTokensForwarded(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"max_tokens must be at least 1","type":"invalid_request_error","code":"integer_below_min_value"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	result := client.Generate(context.Background(), []models.Message{
		{Role: "user", Content: "hi"},
	}, models.GenerationOptions{MaxTokens: ptr(-5)})

	if captured["max_tokens"] != float64(-5) {
		t.Errorf("Expected max_tokens -5 sent, got %v", captured["max_tokens"])
	}
	failure, ok := result.(models.Failure)
	if !ok {
		t.Fatalf("Expected Failure, got %#v", result)
	}
	if failure.Message != "max_tokens must be at least 1" {
		t.Errorf("Unexpected failure message '%s'", failure.Message)
	}
}

func TestToOpenAIMessages_Empty(t *testing.T) {
	if result := toOpenAIMessages(nil); len(result) != 0 {
		t.Fatalf("Expected 0 messages, got %d", len(result))
	}
}
