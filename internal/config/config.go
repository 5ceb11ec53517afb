package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// SABnzbd contains connection settings for the download queue manager.
type SABnzbd struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// Tautulli contains connection settings for the Plex activity monitor.
type Tautulli struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// Display contains configuration for the OLED panel and its font.
type Display struct {
	// Driver selects the panel implementation: "ssd1306" or "terminal".
	Driver string `toml:"driver"`
	// I2CBus names the bus passed to periph's i2creg. Empty picks the first bus.
	I2CBus string `toml:"i2c_bus"`
	// I2CDevice is the device node checked by preflight (e.g. /dev/i2c-1).
	I2CDevice  string  `toml:"i2c_device"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Rotated    bool    `toml:"rotated"`
	Sequential bool    `toml:"sequential"`
	Font       string  `toml:"font"`
	FontPath   string  `toml:"font_path"`
	FontSize   float64 `toml:"font_size"`
}

// Polling contains the loop timings, all in seconds.
type Polling struct {
	Interval       int `toml:"interval"`
	ErrorPause     int `toml:"error_pause"`
	RequestTimeout int `toml:"request_timeout"`
}

// Jitter controls the burn-in offset applied to the text each tick.
type Jitter struct {
	Mode      string `toml:"mode"`
	Max       int    `toml:"max"`
	DriftMaxX int    `toml:"drift_max_x"`
	DriftMaxY int    `toml:"drift_max_y"`
}

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for oledstat.
//
// Configuration sections by subsystem:
//   - SABnzbd: queue manager URL and API key
//   - Tautulli: activity monitor URL and API key
//   - Display: panel driver, I2C bus, geometry and font
//   - Polling: tick interval, error pause and HTTP timeout
//   - Jitter: burn-in offset behaviour
//   - Paths: state (lock) and log directories
//   - Logging: log format, level, and retention
type Config struct {
	SABnzbd  SABnzbd  `toml:"sabnzbd"`
	Tautulli Tautulli `toml:"tautulli"`
	Display  Display  `toml:"display"`
	Polling  Polling  `toml:"polling"`
	Jitter   Jitter   `toml:"jitter"`
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
}

// ErrMissingServices is returned by RequireServices when any of the four
// service settings is absent.
var ErrMissingServices = errors.New("Please configure your environment with SAB_ADDRESS, SAB_API_KEY, TAUTULLI_ADDRESS, and TAUTULLI_API_KEY")

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults and
// environment values are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("oledstat.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireServices reports whether both service endpoints and keys are
// configured and the endpoints are http(s) URLs.
// Commands that talk to SABnzbd or Tautulli call it before doing any work.
func (c *Config) RequireServices() error {
	var missing []string
	if c.SABnzbd.URL == "" {
		missing = append(missing, "SAB_ADDRESS")
	}
	if c.SABnzbd.APIKey == "" {
		missing = append(missing, "SAB_API_KEY")
	}
	if c.Tautulli.URL == "" {
		missing = append(missing, "TAUTULLI_ADDRESS")
	}
	if c.Tautulli.APIKey == "" {
		missing = append(missing, "TAUTULLI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrMissingServices, strings.Join(missing, ", "))
	}
	return c.validateServiceURLs()
}

// PollInterval returns the pause between ticks.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.Interval) * time.Second
}

// ErrorPause returns the extra pause applied after a failed tick.
func (c *Config) ErrorPause() time.Duration {
	return time.Duration(c.Polling.ErrorPause) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Polling.RequestTimeout) * time.Second
}

// LockPath returns the flock file guarding the display.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "oledstat.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
