package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"oledstat/internal/config"
	"oledstat/internal/display"
	"oledstat/internal/services"
	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
)

const checkTimeout = 5 * time.Second

// CheckServiceSettings verifies that all four service settings are present.
func CheckServiceSettings(cfg *config.Config) Result {
	const name = "Service settings"
	if err := cfg.RequireServices(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "SABnzbd and Tautulli configured"}
}

// CheckSABnzbd fetches the queue once.
func CheckSABnzbd(ctx context.Context, cfg *config.Config) Result {
	const name = "SABnzbd"

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	queue, err := sabnzbd.NewConfiguredClient(cfg).Queue(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (%s, %d in queue)", queue.Status(), queue.ItemCount())}
}

// CheckTautulli fetches current activity once.
func CheckTautulli(ctx context.Context, cfg *config.Config) Result {
	const name = "Tautulli"

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	activity, err := tautulli.NewConfiguredClient(cfg).Activity(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Reachable (%d streams)", activity.StreamCount())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckI2CDevice verifies that the I2C device node exists, is a character
// device and can be opened read/write by this user. The terminal driver
// needs no device.
func CheckI2CDevice(d config.Display) Result {
	const name = "I2C device"
	if d.Driver == config.DriverTerminal {
		return Result{Name: name, Passed: true, Detail: "not needed (terminal driver)"}
	}

	path := strings.TrimSpace(d.I2CDevice)
	if path == "" {
		return Result{Name: name, Detail: "display.i2c_device not set"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist; is I2C enabled?)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a character device)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; add the user to the i2c group)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFont verifies that the configured font can be loaded.
func CheckFont(d config.Display) Result {
	const name = "Font"
	face, err := display.LoadTypeface(d.Font, d.FontPath, d.FontSize)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if d.FontPath != "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.0fpx)", face.Name(), d.FontSize)}
	}
	return Result{Name: name, Passed: true, Detail: face.Name() + " (built-in)"}
}

// summarizeError produces a human-readable summary for service check failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, services.ErrTimeout) {
		return "timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (service unreachable)"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("unreachable (%v)", opErr.Err)
	}
	return err.Error()
}
