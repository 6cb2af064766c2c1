package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentflow-api/internal/llm"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4.1",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"score\": 87.5, \"explanation\": \"Strong match\"}"}}],
  "usage": {"prompt_tokens": 120, "completion_tokens": 14, "total_tokens": 134}
}`

func TestAzureClientRequestShape(t *testing.T) {
	var (
		gotPath    string
		gotVersion string
		gotKey     string
		gotAuth    string
		gotBody    map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, err := NewAzureClient(AzureConfig{
		Endpoint:   srv.URL + "/",
		APIKey:     "azure-key",
		APIVersion: "2025-01-01-preview",
		Deployment: "gpt-4.1",
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewAzureClient: %v", err)
	}

	out, err := client.Complete(context.Background(), llm.Request{
		Operation:   "score",
		Prompt:      "rate this resume",
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotPath != "/openai/deployments/gpt-4.1/chat/completions" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotVersion != "2025-01-01-preview" {
		t.Fatalf("unexpected api-version %q", gotVersion)
	}
	if gotKey != "azure-key" {
		t.Fatalf("unexpected api-key header %q", gotKey)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
	if gotBody["temperature"] != 0.7 || gotBody["max_tokens"] != float64(1000) {
		t.Fatalf("unexpected sampling settings: %v %v", gotBody["temperature"], gotBody["max_tokens"])
	}
	if out.Text != `{"score": 87.5, "explanation": "Strong match"}` {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if out.PromptTokens != 120 || out.CompletionTokens != 14 {
		t.Fatalf("unexpected usage %+v", out)
	}
}

func TestClientWrapsHTTPFailureAsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", Model: "gpt-4.1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Complete(context.Background(), llm.Request{Prompt: "hi", Temperature: 0.7})
	if !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	var te *llm.TransportError
	if !errors.As(err, &te) || te.Provider != "openai" {
		t.Fatalf("expected openai provider, got %v", err)
	}
}

func TestConstructorsValidateConfig(t *testing.T) {
	if _, err := NewClient(Config{Model: "gpt-4.1"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewAzureClient(AzureConfig{APIKey: "k", Deployment: "d"}); err == nil {
		t.Fatalf("expected missing endpoint error")
	}
	if _, err := NewAzureClient(AzureConfig{Endpoint: "https://x", APIKey: "k"}); err == nil {
		t.Fatalf("expected missing deployment error")
	}
}
