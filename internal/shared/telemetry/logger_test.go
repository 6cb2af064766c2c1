package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoAndErrorCarryFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	Info("scoring.completed", map[string]any{"request_id": "req-1", "score": 87.5})
	Error("scoring.failed", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "scoring.completed" || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	ctx := entries[0].ContextMap()
	if ctx["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", ctx["request_id"])
	}
	if ctx["score"] != 87.5 {
		t.Fatalf("unexpected score: %v", ctx["score"])
	}
	if got := entries[1].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected error string, got %v", got)
	}
}

func TestSetLoggerRestore(t *testing.T) {
	before := Logger()
	restore := SetLogger(zap.NewNop())
	if Logger() == before {
		t.Fatalf("expected logger to be replaced")
	}
	restore()
	if Logger() != before {
		t.Fatalf("expected logger to be restored")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if WithRequestID(ctx, "") != ctx {
		t.Fatalf("empty id must not wrap the context")
	}
}
