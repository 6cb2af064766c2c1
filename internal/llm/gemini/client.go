// Package gemini implements llm.Completer on the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"talentflow-api/internal/llm"
	"talentflow-api/internal/shared/metrics"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client wraps the GenAI models service.
type Client struct {
	models  generator
	model   string
	timeout time.Duration
}

// NewClient creates a client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(client.Models, model, timeout), nil
}

func newClient(models generator, model string, timeout time.Duration) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{models: models, model: model, timeout: timeout}
}

// Complete sends the prompt and concatenates the text parts of every candidate.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	started := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	metrics.ObserveModelCall(req.Operation, started)
	if err != nil {
		return llm.Completion{}, &llm.TransportError{Provider: "gemini", Err: fmt.Errorf("generate content: %w", err)}
	}
	if resp == nil {
		return llm.Completion{}, &llm.TransportError{Provider: "gemini", Err: errors.New("empty response")}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	out := llm.Completion{Text: builder.String(), Model: c.model}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

var _ llm.Completer = (*Client)(nil)
