package config

const (
	defaultConfigPath       = "~/.config/oledstat/config.toml"
	defaultStateDir         = "~/.local/state/oledstat"
	defaultLogDir           = "~/.local/share/oledstat/logs"
	defaultLogRetentionDays = 14
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultDisplayDriver    = DriverSSD1306
	defaultDisplayDevice    = "/dev/i2c-1"
	defaultDisplayWidth     = 128
	defaultDisplayHeight    = 32
	defaultDisplayFont      = "org01"
	defaultFontSize         = 8
	defaultPollInterval     = 1
	defaultErrorPause       = 1
	defaultRequestTimeout   = 10
	defaultJitterMode       = JitterAnchored
	defaultJitterMax        = 4
	defaultJitterDriftMaxX  = 16
	defaultJitterDriftMaxY  = 4
)

// Display drivers.
const (
	DriverSSD1306  = "ssd1306"
	DriverTerminal = "terminal"
)

// Jitter modes.
const (
	JitterAnchored = "anchored"
	JitterDrift    = "drift"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Display: Display{
			Driver:     defaultDisplayDriver,
			I2CDevice:  defaultDisplayDevice,
			Width:      defaultDisplayWidth,
			Height:     defaultDisplayHeight,
			Sequential: true,
			Font:       defaultDisplayFont,
			FontSize:   defaultFontSize,
		},
		Polling: Polling{
			Interval:       defaultPollInterval,
			ErrorPause:     defaultErrorPause,
			RequestTimeout: defaultRequestTimeout,
		},
		Jitter: Jitter{
			Mode:      defaultJitterMode,
			Max:       defaultJitterMax,
			DriftMaxX: defaultJitterDriftMaxX,
			DriftMaxY: defaultJitterDriftMaxY,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
