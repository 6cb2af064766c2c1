// Package openai implements llm.Completer for OpenAI and Azure OpenAI deployments.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"talentflow-api/internal/llm"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/telemetry"
)

const defaultTimeout = 60 * time.Second

// Client implements llm.Completer using Chat Completions.
type Client struct {
	client   *openai.Client
	model    string
	provider string
	timeout  time.Duration
}

// Config configures a plain OpenAI client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// AzureConfig configures a client bound to one Azure OpenAI deployment.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Model      string
	Timeout    time.Duration
}

// NewClient constructs an OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	return &Client{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		provider: "openai",
		timeout:  timeoutOrDefault(cfg.Timeout),
	}, nil
}

// NewAzureClient constructs a client for an Azure OpenAI deployment.
// Requests go to <endpoint>/openai/deployments/<deployment>/chat/completions?api-version=<v>.
func NewAzureClient(cfg AzureConfig) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("AZURE_ENDPOINT is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("AZURE_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Deployment) == "" {
		return nil, fmt.Errorf("AZURE_DEPLOYMENT is required")
	}
	model := cfg.Model
	if strings.TrimSpace(model) == "" {
		model = cfg.Deployment
	}
	baseURL := fmt.Sprintf("%s/openai/deployments/%s/", endpoint, cfg.Deployment)
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithQuery("api-version", cfg.APIVersion),
		option.WithHeaderDel("authorization"),
		option.WithHeader("api-key", cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return &Client{
		client:   client,
		model:    model,
		provider: "azure",
		timeout:  timeoutOrDefault(cfg.Timeout),
	}, nil
}

// Complete sends the prompt as a single user message.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		}),
		Model:       openai.F(c.model),
		Temperature: openai.F(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.F(int64(req.MaxTokens))
	}

	started := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithRequestTimeout(c.timeout))
	metrics.ObserveModelCall(req.Operation, started)
	if err != nil {
		return llm.Completion{}, c.transportError(err)
	}
	if len(resp.Choices) == 0 {
		return llm.Completion{}, &llm.TransportError{Provider: c.provider, Err: errors.New("response missing choices")}
	}

	out := llm.Completion{
		Text:             resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	telemetry.Info("llm.response", map[string]any{
		"provider":          c.provider,
		"operation":         req.Operation,
		"model":             out.Model,
		"prompt_tokens":     out.PromptTokens,
		"completion_tokens": out.CompletionTokens,
		"duration_ms":       time.Since(started).Milliseconds(),
	})
	return out, nil
}

func (c *Client) transportError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.TransportError{Provider: c.provider, Err: fmt.Errorf("status %d: %w", apiErr.StatusCode, err)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &llm.TransportError{Provider: c.provider, Err: fmt.Errorf("request timeout: %w", err)}
	}
	return &llm.TransportError{Provider: c.provider, Err: err}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

var _ llm.Completer = (*Client)(nil)
