package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServices()
	if err := c.normalizeDisplay(); err != nil {
		return err
	}
	c.normalizePolling()
	c.normalizeJitter()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServices() {
	c.SABnzbd.URL = serviceValue(c.SABnzbd.URL, "SAB_ADDRESS")
	c.SABnzbd.APIKey = serviceValue(c.SABnzbd.APIKey, "SAB_API_KEY")
	c.Tautulli.URL = serviceValue(c.Tautulli.URL, "TAUTULLI_ADDRESS")
	c.Tautulli.APIKey = serviceValue(c.Tautulli.APIKey, "TAUTULLI_API_KEY")
	c.SABnzbd.URL = strings.TrimRight(c.SABnzbd.URL, "/")
	c.Tautulli.URL = strings.TrimRight(c.Tautulli.URL, "/")
}

// serviceValue prefers the file value and falls back to the environment.
func serviceValue(current, envKey string) string {
	current = strings.TrimSpace(current)
	if current != "" {
		return current
	}
	if value, ok := os.LookupEnv(envKey); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func (c *Config) normalizeDisplay() error {
	c.Display.Driver = strings.ToLower(strings.TrimSpace(c.Display.Driver))
	if c.Display.Driver == "" {
		c.Display.Driver = defaultDisplayDriver
	}
	c.Display.I2CBus = strings.TrimSpace(c.Display.I2CBus)
	c.Display.I2CDevice = strings.TrimSpace(c.Display.I2CDevice)
	if c.Display.Width <= 0 {
		c.Display.Width = defaultDisplayWidth
	}
	if c.Display.Height <= 0 {
		c.Display.Height = defaultDisplayHeight
	}
	c.Display.Font = strings.ToLower(strings.TrimSpace(c.Display.Font))
	if c.Display.Font == "" {
		c.Display.Font = defaultDisplayFont
	}
	if c.Display.FontSize <= 0 {
		c.Display.FontSize = defaultFontSize
	}
	if strings.TrimSpace(c.Display.FontPath) != "" {
		var err error
		if c.Display.FontPath, err = expandPath(strings.TrimSpace(c.Display.FontPath)); err != nil {
			return fmt.Errorf("display.font_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizePolling() {
	if c.Polling.Interval <= 0 {
		c.Polling.Interval = defaultPollInterval
	}
	if c.Polling.ErrorPause < 0 {
		c.Polling.ErrorPause = 0
	}
	if c.Polling.RequestTimeout <= 0 {
		c.Polling.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeJitter() {
	c.Jitter.Mode = strings.ToLower(strings.TrimSpace(c.Jitter.Mode))
	if c.Jitter.Mode == "" {
		c.Jitter.Mode = defaultJitterMode
	}
	if c.Jitter.Max < 0 {
		c.Jitter.Max = 0
	}
	if c.Jitter.DriftMaxX <= 0 {
		c.Jitter.DriftMaxX = defaultJitterDriftMaxX
	}
	if c.Jitter.DriftMaxY <= 0 {
		c.Jitter.DriftMaxY = defaultJitterDriftMaxY
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
