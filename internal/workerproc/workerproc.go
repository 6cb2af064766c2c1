package workerproc

import (
	"context"
	"errors"
	"strings"

	"talentflow-api/internal/queue"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/shared/util"
)

// Processor screens one job application.
type Processor interface {
	ProcessApplication(ctx context.Context, applicationID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	return MessageMeta{BodyLen: len(body), BodySHA: util.HashKey(body)}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingApplicationID indicates a message without an application id.
type ErrMissingApplicationID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingApplicationID) Error() string { return "missing application id" }

// ErrProcess indicates screening failed after successful parsing.
type ErrProcess struct {
	ApplicationID string
	RequestID     string
	Err           error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process application"
	}
	return "process application: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Poison reports whether err can never succeed on redelivery.
func Poison(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingApplicationID
	)
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &missing)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ApplicationID) == "" {
		return msg, meta, ErrMissingApplicationID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates and processes a message payload.
func HandleMessage(ctx context.Context, p Processor, body string) error {
	if p == nil {
		return errors.New("screening processor not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}
	return Process(ctx, p, msg)
}

// Process runs a decoded message through p.
func Process(ctx context.Context, p Processor, msg queue.Message) error {
	if strings.TrimSpace(msg.ApplicationID) == "" {
		return ErrMissingApplicationID{RequestID: msg.RequestID}
	}
	if msg.RequestID != "" {
		ctx = telemetry.WithRequestID(ctx, msg.RequestID)
	}
	if err := p.ProcessApplication(ctx, msg.ApplicationID); err != nil {
		return ErrProcess{ApplicationID: msg.ApplicationID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
