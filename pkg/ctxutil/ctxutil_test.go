package ctxutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")

	got := RequestIDFromCtx(ctx)
	if got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestRequestIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), requestIDKey, 42)

	if got := RequestIDFromCtx(ctx); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestLogHandler_AddsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(LogHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(WithRequestID(context.Background(), "req-7"), "application submitted")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["request_id"] != "req-7" {
		t.Fatalf("expected request_id req-7, got %v", m["request_id"])
	}
}

func TestLogHandler_NoDuplicate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(LogHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-7")
	logger.InfoContext(ctx, "request", slog.String("request_id", "req-7"))

	if n := strings.Count(buf.String(), "request_id="); n != 1 {
		t.Fatalf("expected one request_id attribute, got %d in %q", n, buf.String())
	}
}

func TestLogHandler_WithoutRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(LogHandler(slog.NewTextHandler(&buf, nil))).With("service", "application")

	logger.InfoContext(context.Background(), "hello")

	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("unexpected request_id in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "service=application") {
		t.Fatalf("WithAttrs lost: %q", buf.String())
	}
}
