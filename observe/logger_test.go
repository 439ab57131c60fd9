package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not valid JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLogger_StructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)
	ctx := context.Background()

	logger.Info(ctx, "entry cached",
		Field{Key: "definition", Value: "number"},
		Field{Key: "store", Value: "memory"})

	entries := decodeLogLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	entry := entries[0]

	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["msg"] != "entry cached" {
		t.Errorf("msg = %v, want entry cached", entry["msg"])
	}
	if entry["definition"] != "number" {
		t.Errorf("definition = %v, want number", entry["definition"])
	}
	if entry["store"] != "memory" {
		t.Errorf("store = %v, want memory", entry["store"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("entry is missing a timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "dropped")
	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")
	logger.Error(ctx, "kept")

	entries := decodeLogLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d log entries at warn level, want 2", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("kept levels = %v, %v, want warn, error", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)
	ctx := context.Background()

	logger.Info(ctx, "lookup",
		Field{Key: "args", Value: []any{"user-123", "s3cret"}},
		Field{Key: "token", Value: "abc123"},
		Field{Key: "definition", Value: "session"})

	entries := decodeLogLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	entry := entries[0]

	if entry["args"] != "[REDACTED]" {
		t.Errorf("args = %v, producer arguments must never log in the clear", entry["args"])
	}
	if entry["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", entry["token"])
	}
	if entry["definition"] != "session" {
		t.Errorf("definition = %v, non-sensitive fields must pass through", entry["definition"])
	}
	if strings.Contains(buf.String(), "s3cret") {
		t.Error("redacted value leaked into the output")
	}
}

func TestLogger_WithCache(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)

	extended, ok := base.(ExtendedLogger)
	if !ok {
		t.Fatal("structured logger should implement ExtendedLogger")
	}
	scoped := extended.WithCache("instance-7")
	ctx := context.Background()

	scoped.Info(ctx, "scoped entry")
	base.Info(ctx, "base entry")

	entries := decodeLogLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0]["cache.instance"] != "instance-7" {
		t.Errorf("scoped entry cache.instance = %v, want instance-7", entries[0]["cache.instance"])
	}
	if _, ok := entries[1]["cache.instance"]; ok {
		t.Error("base logger must not inherit the instance scope")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	ctx := context.Background()

	// Must be callable without side effects or panics.
	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")
}
