package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"oledstat/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "sabnzbd", "queue", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sabnzbd", "queue", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestRequestMarker(t *testing.T) {
	if marker := services.RequestMarker(fmt.Errorf("get: %w", context.DeadlineExceeded)); marker != services.ErrTimeout {
		t.Fatalf("expected timeout marker, got %v", marker)
	}
	if marker := services.RequestMarker(errors.New("connection refused")); marker != services.ErrTransient {
		t.Fatalf("expected transient marker, got %v", marker)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]error{
		"":              nil,
		"canceled":      fmt.Errorf("fetch: %w", context.Canceled),
		"configuration": services.Wrap(services.ErrConfiguration, "config", "", "missing", nil),
		"validation":    services.Wrap(services.ErrValidation, "tautulli", "activity", "missing key", nil),
		"timeout":       services.Wrap(services.ErrTimeout, "sabnzbd", "queue", "", nil),
		"transient":     errors.New("dial tcp: refused"),
	}
	for want, err := range cases {
		if got := services.Classify(err); got != want {
			t.Fatalf("Classify(%v) = %q, want %q", err, got, want)
		}
	}
}
