package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Service settings, including
// URL syntax, are checked separately by RequireServices so display-only
// commands run even when they are missing or malformed.
func (c *Config) Validate() error {
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	if err := c.validateJitter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServiceURLs() error {
	for key, value := range map[string]string{
		"sabnzbd.url":  c.SABnzbd.URL,
		"tautulli.url": c.Tautulli.URL,
	} {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must start with http:// or https:// (got %q)", key, value)
		}
		if parsed.Host == "" {
			return fmt.Errorf("%s must include a host (got %q)", key, value)
		}
	}
	return nil
}

func (c *Config) validateDisplay() error {
	switch c.Display.Driver {
	case DriverSSD1306, DriverTerminal:
	default:
		return fmt.Errorf("display.driver: unsupported value %q (use %q or %q)", c.Display.Driver, DriverSSD1306, DriverTerminal)
	}
	if c.Display.Height%8 != 0 {
		return errors.New("display.height must be a multiple of 8")
	}
	if c.Display.FontPath == "" {
		switch c.Display.Font {
		case "org01", "tomthumb", "picopixel":
		default:
			return fmt.Errorf("display.font: unsupported built-in font %q", c.Display.Font)
		}
	}
	return nil
}

func (c *Config) validatePolling() error {
	return ensurePositiveMap(map[string]int{
		"polling.interval":        c.Polling.Interval,
		"polling.request_timeout": c.Polling.RequestTimeout,
	})
}

func (c *Config) validateJitter() error {
	switch c.Jitter.Mode {
	case JitterAnchored, JitterDrift:
	default:
		return fmt.Errorf("jitter.mode: unsupported value %q (use %q or %q)", c.Jitter.Mode, JitterAnchored, JitterDrift)
	}
	if c.Jitter.Max >= c.Display.Height {
		return errors.New("jitter.max must be smaller than display.height")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
