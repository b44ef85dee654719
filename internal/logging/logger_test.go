package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  level,
		Format: "json",
		Output: &buf,
	})
	return logger, &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	logger.Debug("invisible")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "invisible") {
		t.Error("debug message emitted at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info message missing")
	}
}

func TestLogger_DebugEnabled(t *testing.T) {
	debugLogger, _ := newTestLogger(LevelDebug)
	infoLogger, _ := newTestLogger(LevelInfo)

	if !debugLogger.DebugEnabled() {
		t.Error("expected DebugEnabled at debug level")
	}
	if infoLogger.DebugEnabled() {
		t.Error("expected DebugEnabled false at info level")
	}
}

func TestLogger_MasksSensitiveFields(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	logger.WithField("password", "hunter2").Info("login attempt")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("sensitive value leaked into logs")
	}
	if !strings.Contains(out, RedactedPlaceholder) {
		t.Error("expected redaction placeholder in output")
	}
}

func TestLogger_MaskingIsCaseInsensitive(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	logger.WithFields(map[string]any{"Password": "hunter2", "user": "alice"}).Info("attempt")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Error("sensitive value leaked via mixed-case key")
	}
	if !strings.Contains(out, "alice") {
		t.Error("non-sensitive field should pass through")
	}
}

func TestLogger_CustomSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:           LevelInfo,
		Format:          "json",
		Output:          &buf,
		SensitiveFields: []string{"account_key"},
	})

	logger.WithField("account_key", "abc123").Info("configured")

	if strings.Contains(buf.String(), "abc123") {
		t.Error("configured sensitive field leaked")
	}
}

func TestLogger_ServiceName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:       LevelInfo,
		Format:      "json",
		Output:      &buf,
		ServiceName: "dbspec",
	})

	logger.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["service"] != "dbspec" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
}

func TestRequestIDContext(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected a non-empty request id")
	}

	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id from bare context, got %s", got)
	}

	logger, buf := newTestLogger(LevelInfo)
	logger.WithContext(ctx).Info("traced")
	if !strings.Contains(buf.String(), id) {
		t.Error("expected request id in log output")
	}
}

func TestNop(t *testing.T) {
	// Must be safe to use everywhere a logger is required.
	logger := Nop()
	logger.Info("discarded")
	logger.WithField("password", "x").Debug("discarded")
	if logger.DebugEnabled() {
		t.Error("nop logger should not report debug enabled")
	}
}
