package display

import (
	"fmt"
	"io"
	"os"

	"oledstat/internal/config"
)

// Open builds a Screen for the configured driver. The terminal driver writes
// to out, or stdout when out is nil.
func Open(cfg config.Display, out io.Writer) (*Screen, error) {
	face, err := LoadTypeface(cfg.Font, cfg.FontPath, cfg.FontSize)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverTerminal:
		if out == nil {
			out = os.Stdout
		}
		return NewScreen(NewTerminalPanel(out, cfg.Width, cfg.Height), face, nil), nil
	case config.DriverSSD1306, "":
		panel, closer, err := openSSD1306(cfg)
		if err != nil {
			return nil, err
		}
		return NewScreen(panel, face, closer), nil
	default:
		return nil, fmt.Errorf("unsupported display driver %q", cfg.Driver)
	}
}
