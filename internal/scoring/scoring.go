// Package scoring rates a resume against a job description with a chat model.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talentflow-api/internal/llm"
	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/shared/util"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// ErrModelResponseMalformed is returned when the model output does not match {score, explanation}.
var ErrModelResponseMalformed = errors.New("LLM returned a non-JSON response")

// Result is the parsed model verdict. Score is nominally 0-100 but is not clamped.
type Result struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Engine builds the scoring prompt and parses the reply.
type Engine struct {
	LLM         llm.Completer
	Temperature float64
	MaxTokens   int
}

// NewEngine returns an Engine. Zero sampling values fall back to the defaults.
func NewEngine(completer llm.Completer, temperature float64, maxTokens int) *Engine {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Engine{LLM: completer, Temperature: temperature, MaxTokens: maxTokens}
}

// Score asks the model for a verdict. Each call is independent and never retried.
func (e *Engine) Score(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	started := time.Now()
	completion, err := e.LLM.Complete(ctx, llm.Request{
		Operation:   "score",
		Prompt:      BuildPrompt(resumeText, jobDescription),
		Temperature: e.Temperature,
		MaxTokens:   e.MaxTokens,
	})
	if err != nil {
		metrics.IncScoring("failed")
		if !errors.Is(err, llm.ErrTransport) {
			err = &llm.TransportError{Provider: "llm", Err: err}
		}
		telemetry.Warn("scoring.transport_failed", map[string]any{"error": err.Error()})
		return Result{}, err
	}

	result, err := ParseResult(completion.Text)
	if err != nil {
		metrics.IncScoring("malformed")
		telemetry.Warn("scoring.malformed_response", map[string]any{
			"output_chars": len(completion.Text),
			"output_hash":  util.HashKey(completion.Text),
			"error":        err.Error(),
		})
		return Result{}, err
	}

	metrics.IncScoring("completed")
	telemetry.Info("scoring.completed", map[string]any{
		"score":        result.Score,
		"resume_chars": len(resumeText),
		"jd_chars":     len(jobDescription),
		"resume_hash":  util.HashKey(resumeText),
		"duration_ms":  time.Since(started).Milliseconds(),
	})
	return result, nil
}

type rawResult struct {
	Score       *float64 `json:"score"`
	Explanation *string  `json:"explanation"`
}

// ParseResult decodes a model reply. Both fields must be present with the right JSON types.
func ParseResult(raw string) (Result, error) {
	var parsed rawResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrModelResponseMalformed, err)
	}
	if parsed.Score == nil {
		return Result{}, fmt.Errorf("%w: missing score", ErrModelResponseMalformed)
	}
	if parsed.Explanation == nil {
		return Result{}, fmt.Errorf("%w: missing explanation", ErrModelResponseMalformed)
	}
	return Result{Score: *parsed.Score, Explanation: *parsed.Explanation}, nil
}
