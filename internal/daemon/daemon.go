package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"oledstat/internal/config"
	"oledstat/internal/logging"
	"oledstat/internal/status"
)

// ErrAlreadyRunning is returned by Start when another process holds the lock.
var ErrAlreadyRunning = errors.New("another oledstat instance is already driving the display")

// Loop is the polling loop run by the daemon. *status.Renderer satisfies it.
type Loop interface {
	Run(ctx context.Context) error
	State() status.State
}

// Screen is the display resource released on Stop. *display.Screen
// satisfies it.
type Screen interface {
	PowerOff() error
	Close() error
}

// Factory builds the loop and the screen it draws on. Start calls it only
// after the lock is held so a second instance never touches the panel.
type Factory func() (Loop, Screen, error)

// Daemon coordinates the status loop and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	factory Factory
	loop    Loop
	screen  Screen

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	loopErr error
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	LoopState    status.State
	LockFilePath string
}

// New constructs a daemon. Nothing is opened until Start.
func New(cfg *config.Config, factory Factory, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || factory == nil {
		return nil, errors.New("daemon requires config and factory")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		factory:  factory,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock and launches the loop in the background.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, d.lockPath)
	}

	loop, screen, err := d.factory()
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}
	d.loop, d.screen = loop, screen

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.loopErr = nil
	d.running.Store(true)

	go func(done chan struct{}) {
		defer close(done)
		err := loop.Run(runCtx)
		d.mu.Lock()
		d.loopErr = err
		d.mu.Unlock()
	}(d.done)

	d.logger.Info("oledstat daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock_path", d.lockPath),
		logging.String("display_driver", d.cfg.Display.Driver),
		logging.Bool("rotated", d.cfg.Display.Rotated),
	)
	return nil
}

// Done is closed once the loop has returned. It is nil before Start.
func (d *Daemon) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Stop cancels the loop, waits for it to clear the display, then powers the
// panel off and releases the bus and the lock. It returns the loop's error.
func (d *Daemon) Stop() error {
	d.mu.Lock()
	if !d.running.Load() {
		d.mu.Unlock()
		return nil
	}
	cancel, done, screen := d.cancel, d.done, d.screen
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	<-done

	if err := screen.PowerOff(); err != nil {
		logging.WarnWithContext(d.logger, "panel power off failed", "power_off_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "panel stays powered with a blank frame"),
		)
	}
	if err := screen.Close(); err != nil {
		logging.WarnWithContext(d.logger, "display close failed", "display_close_failed", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "lock_release_failed",
			logging.Error(err),
			logging.String("lock_path", d.lockPath),
		)
	}

	d.mu.Lock()
	loopErr := d.loopErr
	d.mu.Unlock()
	d.running.Store(false)
	d.logger.Info("oledstat daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
	return loopErr
}

// Run starts the daemon and blocks until ctx is cancelled or the loop ends on
// its own, then stops it.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-d.Done():
	}
	return d.Stop()
}

// Status reports whether the loop is running and what it last drew.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	loop := d.loop
	d.mu.Unlock()
	st := Status{Running: d.running.Load(), LockFilePath: d.lockPath}
	if loop != nil {
		st.LoopState = loop.State()
	}
	return st
}
