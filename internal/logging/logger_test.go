package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oledstat/internal/config"
	"oledstat/internal/logging"
	"oledstat/internal/services"
)

func TestNewFromConfigWritesRunLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, path, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if filepath.Dir(path) != cfg.Paths.LogDir {
		t.Fatalf("run log %q not under log dir %q", path, cfg.Paths.LogDir)
	}
	if ok, _ := filepath.Match(logging.RunLogPattern, filepath.Base(path)); !ok {
		t.Fatalf("run log %q does not match %q", path, logging.RunLogPattern)
	}

	logger.Info("daemon started", logging.String(logging.FieldEventType, "daemon_started"))

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("run log is not JSON: %v (%q)", err, content)
	}
	if record["msg"] != "daemon started" || record["event_type"] != "daemon_started" {
		t.Fatalf("unexpected record: %v", record)
	}
	if record["level"] != "info" {
		t.Fatalf("expected lower-case level, got %v", record["level"])
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndTick(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithTick(context.Background(), 7)
	ctx = services.WithRequestID(ctx, "req-1")
	component := logging.NewComponentLogger(logger, "renderer")
	logging.WithContext(ctx, component).Warn("tick failed",
		logging.String(logging.FieldEventType, "tick_failed"),
		logging.Error(errors.New("boom")),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{"WARN [renderer] Tick #7 - tick failed", "- Event: tick_failed", "- Error: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "req-1") {
		t.Errorf("correlation id should be hidden at info level:\n%s", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be disabled")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be enabled")
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithTick(context.Background(), 42)
	ctx = services.WithRequestID(ctx, "req-xyz")

	fields := logging.ContextFields(ctx)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value.String()
	}
	if got[logging.FieldTick] != "42" {
		t.Fatalf("tick = %q, want 42", got[logging.FieldTick])
	}
	if got[logging.FieldCorrelationID] != "req-xyz" {
		t.Fatalf("correlation id = %q, want req-xyz", got[logging.FieldCorrelationID])
	}
	if len(logging.ContextFields(context.Background())) != 0 {
		t.Fatal("expected no fields for bare context")
	}
}

func TestErrorKindUsesClassification(t *testing.T) {
	attr := logging.ErrorKind(services.Wrap(services.ErrTimeout, "sabnzbd", "queue", "slow", nil))
	if attr.Key != logging.FieldErrorKind || attr.Value.String() != "timeout" {
		t.Fatalf("unexpected attr: %v", attr)
	}
}

func TestRunLogPathIsSortable(t *testing.T) {
	earlier := logging.RunLogPath("/logs", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	later := logging.RunLogPath("/logs", time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC))
	if earlier != "/logs/oledstat-20260102T030405.log" {
		t.Fatalf("unexpected path %q", earlier)
	}
	if !(earlier < later) {
		t.Fatal("run log names should sort chronologically")
	}
}
