package logging

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestLoggerWritesJSONWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf}).With("run_id", "r-1")

	logger.Debug("hidden")
	logger.Warn("feed degraded", "feed", "streamed", "error", errors.New("status=502"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("unexpected line count got=%d want=1 output=%s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" || entry["msg"] != "feed degraded" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["run_id"] != "r-1" || entry["feed"] != "streamed" || entry["error"] != "status=502" {
		t.Fatalf("missing fields: %v", entry)
	}
}

func TestLoggerContextWithoutSpanHasNoTraceFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})
	logger.InfoContext(context.Background(), "ok")

	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("unexpected trace fields: %s", buf.String())
	}
}

func TestLoggerFileSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "sitegen.log")
	logger := New(Options{Level: LevelInfo, Output: &buf, File: FileOptions{Path: path}})
	logger.Info("written twice")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("second sync must be a no-op: %v", err)
	}
	if !strings.Contains(buf.String(), "written twice") {
		t.Fatalf("stdout sink missing entry: %s", buf.String())
	}
}

func TestZapFieldsOddArgs(t *testing.T) {
	t.Parallel()

	fields := zapFields([]any{"a", 1, 2, "b", "dangling"})
	if len(fields) != 3 {
		t.Fatalf("unexpected field count got=%d want=3", len(fields))
	}
	if fields[1].Key != "arg" || fields[2].Key != "dangling" {
		t.Fatalf("unexpected keys: %q %q", fields[1].Key, fields[2].Key)
	}
}
