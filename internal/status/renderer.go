package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"oledstat/internal/config"
	"oledstat/internal/display"
	"oledstat/internal/logging"
	"oledstat/internal/services"
	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
)

// QueueSource fetches the SABnzbd queue.
type QueueSource interface {
	Queue(ctx context.Context) (*sabnzbd.QueueState, error)
}

// ActivitySource fetches Tautulli activity.
type ActivitySource interface {
	Activity(ctx context.Context) (*tautulli.Activity, error)
}

// Display is the drawing surface the renderer needs. *display.Screen
// satisfies it.
type Display interface {
	Blank()
	Text(x, y int, text string)
	DrawLines(x, y int, offsets [display.LineCount]int, lines [display.LineCount]string)
	Show() error
	Clear() error
}

// State is the renderer lifecycle state.
type State int

const (
	// Running means the last tick drew fresh status lines.
	Running State = iota
	// ErrorTick means the last tick failed and drew "Error".
	ErrorTick
	// Terminating means the loop has stopped and the display was cleared.
	Terminating
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ErrorTick:
		return "error"
	case Terminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Outcome tags a TickResult.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeError
	// OutcomeCanceled means the context ended mid-fetch; nothing was drawn.
	OutcomeCanceled
)

// TickResult reports what one tick fetched and drew.
type TickResult struct {
	Tick     uint64
	Outcome  Outcome
	Position Position
	Lines    Lines
	// Service names the API that failed when Outcome is OutcomeError.
	Service  string
	Err      error
	FlushErr error
}

// Options tune the loop. Zero values fall back to sensible defaults.
type Options struct {
	Interval     time.Duration
	ErrorPause   time.Duration
	Jitter       *Jitter
	Logger       *slog.Logger
	Sleep        func(ctx context.Context, d time.Duration) error
	NewRequestID func() string
}

// OptionsFromConfig maps the [polling] and [jitter] sections onto Options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Interval:   cfg.PollInterval(),
		ErrorPause: cfg.ErrorPause(),
		Jitter:     NewJitter(cfg.Jitter, nil),
		Logger:     logger,
	}
}

// Renderer is the polling loop.
type Renderer struct {
	queue    QueueSource
	activity ActivitySource
	screen   Display
	opts     Options
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	tick      uint64
	lastLines Lines
	lastErr   string
	failures  int
}

// NewRenderer wires the loop to its sources and display.
func NewRenderer(queue QueueSource, activity ActivitySource, screen Display, opts Options) *Renderer {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.ErrorPause < 0 {
		opts.ErrorPause = 0
	}
	if opts.Jitter == nil {
		opts.Jitter = NewJitter(config.Default().Jitter, nil)
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}
	return &Renderer{
		queue:    queue,
		activity: activity,
		screen:   screen,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "renderer"),
		state:    Running,
	}
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Renderer) setState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

// Run ticks until ctx is cancelled, then clears the display. Fetch failures
// are drawn and logged but never end the loop. The only error returned is a
// failure to clear the display on the way out.
func (r *Renderer) Run(ctx context.Context) (err error) {
	r.logger.Info("status loop started",
		logging.String(logging.FieldEventType, "loop_started"),
		logging.Duration("interval", r.opts.Interval),
		logging.Duration("error_pause", r.opts.ErrorPause),
	)
	defer func() {
		err = r.shutdown()
	}()

	for ctx.Err() == nil {
		r.Tick(ctx)
		if r.opts.Sleep(ctx, r.opts.Interval) != nil {
			break
		}
	}
	return nil
}

func (r *Renderer) shutdown() error {
	r.setState(Terminating)
	if err := r.screen.Clear(); err != nil {
		logging.ErrorWithContext(r.logger, "display clear failed on shutdown", "clear_failed",
			logging.Error(err),
			logging.Alert("display_not_cleared"),
			logging.String(logging.FieldErrorHint, "check the I2C wiring; the panel may keep showing the last frame"),
		)
		return err
	}
	r.logger.Info("status loop stopped; display cleared",
		logging.String(logging.FieldEventType, "loop_stopped"),
	)
	return nil
}

// Tick runs one fetch, draw and flush cycle, including the extra pause after a
// failed fetch. It does not sleep the regular interval.
func (r *Renderer) Tick(ctx context.Context) TickResult {
	r.mu.Lock()
	r.tick++
	tick := r.tick
	r.mu.Unlock()

	ctx = services.WithTick(ctx, tick)
	ctx = services.WithRequestID(ctx, r.opts.NewRequestID())
	logger := logging.WithContext(ctx, r.logger)

	r.screen.Blank()
	pos := r.opts.Jitter.Next()
	result := TickResult{Tick: tick, Position: pos}

	lines, service, err := r.fetch(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		result.Outcome = OutcomeCanceled
		result.Err = ctx.Err()
		logger.Debug("fetch interrupted by shutdown", logging.String(logging.FieldService, service))
		return result
	case err != nil:
		result.Outcome = OutcomeError
		result.Service = service
		result.Err = err
		r.recordFailure(logger, service, err)
		r.screen.Text(pos.X, pos.Y, ErrorText)
		if r.opts.Sleep(ctx, r.opts.ErrorPause) != nil {
			return result
		}
	default:
		result.Outcome = OutcomeOK
		result.Lines = lines
		r.recordSuccess(logger, lines)
		r.screen.DrawLines(pos.X, pos.Y, LineOffsets, lines.Array())
	}

	if err := r.screen.Show(); err != nil {
		result.FlushErr = err
		logging.WarnWithContext(logger, "display flush failed", "flush_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the I2C bus and panel power"),
			logging.String(logging.FieldImpact, "panel keeps the previous frame"),
		)
	}
	return result
}

func (r *Renderer) fetch(ctx context.Context) (Lines, string, error) {
	queue, err := r.queue.Queue(ctx)
	if err != nil {
		return Lines{}, "sabnzbd", err
	}
	activity, err := r.activity.Activity(ctx)
	if err != nil {
		return Lines{}, "tautulli", err
	}
	lines, err := Compose(queue, activity)
	if err != nil {
		return Lines{}, "tautulli", services.Wrap(services.ErrValidation, "tautulli", "activity", "summarise sessions", err)
	}
	return lines, "", nil
}

// recordFailure warns when the loop enters the error state or the error
// changes; repeats of the same failure are logged at debug.
func (r *Renderer) recordFailure(logger *slog.Logger, service string, err error) {
	r.mu.Lock()
	repeated := r.state == ErrorTick && r.lastErr == err.Error()
	r.state = ErrorTick
	r.lastErr = err.Error()
	r.lastLines = Lines{}
	r.failures++
	failures := r.failures
	r.mu.Unlock()

	if repeated {
		logger.Debug("status fetch still failing",
			logging.String(logging.FieldService, service),
			logging.Int("failed_ticks", failures),
			logging.Error(err),
		)
		return
	}
	logging.WarnWithContext(logger, "status fetch failed", "tick_failed",
		logging.String(logging.FieldService, service),
		logging.ErrorKind(err),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the service address, API key and network"),
		logging.String(logging.FieldImpact, "display shows Error until a fetch succeeds"),
	)
}

func (r *Renderer) recordSuccess(logger *slog.Logger, lines Lines) {
	r.mu.Lock()
	recovered := r.state == ErrorTick
	changed := lines != r.lastLines
	failures := r.failures
	r.state = Running
	r.lastErr = ""
	r.lastLines = lines
	r.failures = 0
	r.mu.Unlock()

	attrs := []logging.Attr{
		logging.String("queue_line", lines.Queue),
		logging.String("time_left_line", lines.TimeLeft),
		logging.String("activity_line", lines.Activity),
	}
	switch {
	case recovered:
		attrs = append(attrs, logging.String(logging.FieldEventType, "tick_recovered"), logging.Int("failed_ticks", failures))
		logger.Info("status fetch recovered", logging.Args(attrs...)...)
	case changed:
		logger.Info("status changed", logging.Args(append(attrs, logging.String(logging.FieldEventType, "status_changed"))...)...)
	default:
		logger.Debug("status unchanged")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
