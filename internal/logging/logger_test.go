package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"voxdub/internal/services"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger = NewComponentLogger(logger, "dubbing")
	logger.Info("stage started", String("stage", "extracting"), Int("attempt", 1))

	line := buf.String()
	if !strings.Contains(line, "INFO dubbing: stage started") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "stage=extracting") || !strings.Contains(line, "attempt=1") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("msg", String("path", "a b.mp4"))
	if !strings.Contains(buf.String(), `path="a b.mp4"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("suppressed")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn missing: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsJobFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	ctx := services.WithJobID(context.Background(), 42)
	ctx = services.WithStage(ctx, "merging")
	WithContext(ctx, logger).Info("stage event")

	line := buf.String()
	if !strings.Contains(line, "job_id=42") || !strings.Contains(line, "stage=merging") {
		t.Fatalf("context fields missing: %q", line)
	}
}
