package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"oledstat/internal/config"
	"oledstat/internal/daemon"
	"oledstat/internal/display"
	"oledstat/internal/logging"
	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
	"oledstat/internal/status"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level when set.
	LogLevel    string
	Development bool
	// DisplayOut receives frames when the terminal driver is configured.
	DisplayOut io.Writer
}

// Run starts the oledstat polling loop and blocks until SIGINT, SIGTERM or
// cancellation of cmdCtx. Missing service settings abort before any device
// is opened.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if err := cfg.RequireServices(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logPath := ""
	if cfg.Paths.LogDir != "" {
		logPath = logging.RunLogPath(cfg.Paths.LogDir, timeNow())
	}
	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		FilePath:    logPath,
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logging.RunLogPattern, Exclude: []string{logPath}},
	)
	logServiceSnapshot(logger, cfg)

	// The factory only runs once the instance lock is held, so the pid file
	// and the log pointer are never touched by an instance that loses the race.
	pidPath := filepath.Join(cfg.Paths.StateDir, PIDFileName)
	var ownsPID bool
	defer func() {
		if ownsPID {
			_ = os.Remove(pidPath)
		}
	}()

	factory := func() (daemon.Loop, daemon.Screen, error) {
		if err := writePIDFile(pidPath); err != nil {
			return nil, nil, fmt.Errorf("write pid file: %w", err)
		}
		ownsPID = true
		if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
			logging.WarnWithContext(logger, "unable to update log pointer", "log_pointer_failed", logging.Error(err))
		}

		screen, err := display.Open(cfg.Display, opts.DisplayOut)
		if err != nil {
			logging.ErrorWithContext(logger, "display open failed", "display_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run `oledstat check` to verify the I2C device and font"),
			)
			return nil, nil, fmt.Errorf("open display: %w", err)
		}
		renderer := status.NewRenderer(
			sabnzbd.NewConfiguredClient(cfg),
			tautulli.NewConfiguredClient(cfg),
			screen,
			status.OptionsFromConfig(cfg, logger),
		)
		return renderer, screen, nil
	}

	d, err := daemon.New(cfg, factory, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Run(signalCtx); err != nil {
		return err
	}
	logger.Info("oledstat shut down cleanly", logging.String(logging.FieldEventType, "shutdown_complete"))
	return nil
}

// PIDFileName is written to the state directory while the loop holds the lock.
const PIDFileName = "oledstat.pid"

// CurrentLogName links to the run log of the instance holding the lock.
const CurrentLogName = "oledstat.log"

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, CurrentLogName)
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// logServiceSnapshot records where the loop will poll, without the API keys.
func logServiceSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("service snapshot",
		logging.String(logging.FieldEventType, "service_snapshot"),
		logging.String("sabnzbd_host", hostOf(cfg.SABnzbd.URL)),
		logging.String("tautulli_host", hostOf(cfg.Tautulli.URL)),
		logging.String("display_driver", cfg.Display.Driver),
		logging.String("i2c_bus", cfg.Display.I2CBus),
		logging.String("font", fontLabel(cfg.Display)),
		logging.String("jitter_mode", cfg.Jitter.Mode),
		logging.Duration("interval", cfg.PollInterval()),
	)
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	return parsed.Host
}

func fontLabel(d config.Display) string {
	if d.FontPath != "" {
		return filepath.Base(d.FontPath)
	}
	return d.Font
}
