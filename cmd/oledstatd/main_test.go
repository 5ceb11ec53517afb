package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"oledstat/internal/config"
)

func TestRunRejectsMissingServices(t *testing.T) {
	for _, key := range []string{"SAB_ADDRESS", "SAB_API_KEY", "TAUTULLI_ADDRESS", "TAUTULLI_API_KEY"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[display]\ndriver = \"terminal\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(context.Background(), path)
	if !errors.Is(err, config.ErrMissingServices) {
		t.Fatalf("expected ErrMissingServices, got %v", err)
	}
}

func TestRunReportsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[display\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), path); err == nil {
		t.Fatal("expected parse error")
	}
}
