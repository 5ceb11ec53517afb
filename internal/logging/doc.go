// Package logging assembles structured slog loggers and formatting helpers used
// across oledstat.
//
// It owns the configurable console/JSON handlers, tees the daemon's output
// into a per-run JSON log file, and exposes context-aware helpers so the
// polling loop can tag every line with its tick number and correlation ID.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
