package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedConsole(level string) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(buf, levelVar)), buf
}

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	logger, buf := newBufferedConsole("info")
	WithComponent(logger, "pipeline").Info("translated document", Int("cues", 12))

	line := buf.String()
	if !strings.Contains(line, " INFO pipeline: translated document") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "cues=12") {
		t.Fatalf("missing attribute in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be hoisted, got: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	logger, buf := newBufferedConsole("info")
	logger.Info("job failed", String("reason", "backend offline"))
	if !strings.Contains(buf.String(), `reason="backend offline"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	logger, buf := newBufferedConsole("warn")
	logger.Info("should be dropped")
	logger.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "WARN should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	logger, buf := newBufferedConsole("info")
	logger.WithGroup("job").Info("update", String("status", "running"))
	if !strings.Contains(buf.String(), "job.status=running") {
		t.Fatalf("expected group-qualified key, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
}
