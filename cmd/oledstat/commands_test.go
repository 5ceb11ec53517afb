package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"oledstat/internal/config"
	"oledstat/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	clearServiceEnv(t)
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+configPath)
	requireContains(t, out, "Warning: Please configure your environment")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, target); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestPrintCommandDrawsWithoutClearingAfterwards(t *testing.T) {
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	out, _, err := runCLI(t, []string{"print", "hello", "world"}, configPath)
	if err != nil {
		t.Fatalf("print: %v", err)
	}

	frames := strings.Split(strings.TrimRight(out, "\n"), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("expected clear and draw frames, got %d:\n%s", len(frames), out)
	}
	if strings.Contains(frames[0], "#") {
		t.Fatalf("first frame should be blank:\n%s", frames[0])
	}
	if !strings.Contains(frames[1], "#") {
		t.Fatalf("last frame should carry the text:\n%s", frames[1])
	}
}

func TestPrintCommandNeedsNoServices(t *testing.T) {
	clearServiceEnv(t)
	configPath := writeTestConfig(t, testsupport.NewConfig(t))
	if _, _, err := runCLI(t, []string{"print"}, configPath); err != nil {
		t.Fatalf("print without args or services: %v", err)
	}
}

func TestQueueCommands(t *testing.T) {
	sab := testsupport.NewFakeSABnzbd(t, testsupport.SABIdleQueue)
	tt := testsupport.NewFakeTautulli(t, testsupport.TautulliNoStreams)
	configPath := writeTestConfig(t, testsupport.NewConfig(t, testsupport.WithServices(sab, tt)))

	out, _, err := runCLI(t, []string{"queue", "pause"}, configPath)
	if err != nil {
		t.Fatalf("queue pause: %v", err)
	}
	requireContains(t, out, "Queue paused")

	out, _, err = runCLI(t, []string{"queue", "resume"}, configPath)
	if err != nil {
		t.Fatalf("queue resume: %v", err)
	}
	requireContains(t, out, "Queue resumed")

	if got := sab.Modes(); !slices.Equal(got, []string{"pause", "resume"}) {
		t.Fatalf("unexpected modes %v", got)
	}
	if tt.Requests() != 0 {
		t.Fatalf("queue commands should not call Tautulli, got %d requests", tt.Requests())
	}

	sab.SetStatus(http.StatusServiceUnavailable)
	if _, _, err := runCLI(t, []string{"queue", "pause"}, configPath); err == nil {
		t.Fatal("expected error when SABnzbd is unavailable")
	}
}

func TestStatusCommand(t *testing.T) {
	sab := testsupport.NewFakeSABnzbd(t, testsupport.SABDownloadingQueue)
	tt := testsupport.NewFakeTautulli(t, testsupport.TautulliOneStream)
	configPath := writeTestConfig(t, testsupport.NewConfig(t, testsupport.WithServices(sab, tt)))

	out, _, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{
		`"SAB Downloading 1 item"`,
		`"00:05:00 remaining"`,
		`"Amy playing Movie X"`,
		"Some.Show.S01E01",
		"Living Room",
		"1 (1 playing)",
	} {
		requireContains(t, out, want)
	}
}

func TestStatusCommandRequiresServices(t *testing.T) {
	clearServiceEnv(t)
	configPath := writeTestConfig(t, testsupport.NewConfig(t))

	_, _, err := runCLI(t, []string{"status"}, configPath)
	if !errors.Is(err, config.ErrMissingServices) {
		t.Fatalf("expected ErrMissingServices, got %v", err)
	}
}

func TestStatusCommandSurfacesServiceErrors(t *testing.T) {
	sab := testsupport.NewFakeSABnzbd(t, testsupport.SABIdleQueue)
	tt := testsupport.NewFakeTautulli(t, testsupport.TautulliNoStreams)
	cfg := testsupport.NewConfig(t, testsupport.WithServices(sab, tt))
	cfg.Tautulli.APIKey = "wrong"
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, []string{"status"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "tautulli") {
		t.Fatalf("expected tautulli error, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	sab := testsupport.NewFakeSABnzbd(t, testsupport.SABIdleQueue)
	tt := testsupport.NewFakeTautulli(t, testsupport.TautulliNoStreams)
	cfg := testsupport.NewConfig(t, testsupport.WithServices(sab, tt))
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "not needed (terminal driver)")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failure in output:\n%s", out)
	}

	sab.SetStatus(http.StatusServiceUnavailable)
	out, _, err = runCLI(t, []string{"check"}, configPath)
	if err == nil {
		t.Fatal("expected check to fail with SABnzbd down")
	}
	requireContains(t, out, "[ERROR]")
}

func TestPrintIgnoresMalformedServiceURL(t *testing.T) {
	clearServiceEnv(t)
	cfg := testsupport.NewConfig(t, testsupport.WithSABnzbd("sab.local:8080", "k"), testsupport.WithTautulli("http://tt", "k"))
	configPath := writeTestConfig(t, cfg)

	if _, _, err := runCLI(t, []string{"print", "hello"}, configPath); err != nil {
		t.Fatalf("print should not depend on service settings: %v", err)
	}
	if _, _, err := runCLI(t, []string{"status"}, configPath); err == nil || !strings.Contains(err.Error(), "sabnzbd.url") {
		t.Fatalf("expected status to reject the url, got %v", err)
	}
}
