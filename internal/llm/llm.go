// Package llm defines the chat-completion contract shared by every model provider.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single-turn completion request.
type Request struct {
	// Operation names the caller for metrics and logs, e.g. "score" or "job_description".
	Operation   string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completion is the raw model output.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Completer abstracts chat-completion providers.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("model transport failure")
	// ErrNotConfigured is returned when no provider credentials are set.
	ErrNotConfigured = errors.New("model provider not configured")
)

// TransportError wraps any failure to obtain a completion: network, auth, quota, timeout.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Unconfigured is used when no provider has credentials. Every call fails.
type Unconfigured struct {
	Provider string
}

// Complete returns a TransportError wrapping ErrNotConfigured.
func (u Unconfigured) Complete(ctx context.Context, req Request) (Completion, error) {
	return Completion{}, &TransportError{Provider: u.Provider, Err: ErrNotConfigured}
}
