package testsupport

import (
	"path/filepath"
	"testing"

	"oledstat/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It uses the terminal display driver so no I2C hardware is touched, and
// applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Display.Driver = config.DriverTerminal
	cfgVal.Display.I2CDevice = filepath.Join(base, "i2c-1")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSABnzbd points the config at a SABnzbd endpoint.
func WithSABnzbd(url, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SABnzbd.URL = url
		b.cfg.SABnzbd.APIKey = apiKey
	}
}

// WithTautulli points the config at a Tautulli endpoint.
func WithTautulli(url, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tautulli.URL = url
		b.cfg.Tautulli.APIKey = apiKey
	}
}

// WithServices wires both fake servers into the config.
func WithServices(sab *FakeSABnzbd, tt *FakeTautulli) ConfigOption {
	return func(b *configBuilder) {
		WithSABnzbd(sab.URL(), sab.APIKey)(b)
		WithTautulli(tt.URL(), tt.APIKey)(b)
	}
}

// WithFontFile writes a placeholder font file and points display.font_path at it.
func WithFontFile(name string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "fonts", name)
		WriteFile(b.t, path, []byte("not really a font"))
		b.cfg.Display.FontPath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
