package display

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"oledstat/internal/config"
)

// openSSD1306 initialises the periph host drivers, opens the configured I2C
// bus and attaches an SSD1306 controller to it.
func openSSD1306(cfg config.Display) (Panel, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{
		W:          cfg.Width,
		H:          cfg.Height,
		Rotated:    cfg.Rotated,
		Sequential: cfg.Sequential,
	})
	if err != nil {
		_ = bus.Close()
		return nil, nil, fmt.Errorf("attach ssd1306: %w", err)
	}
	return dev, bus, nil
}
