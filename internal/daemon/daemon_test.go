package daemon_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"oledstat/internal/config"
	"oledstat/internal/daemon"
	"oledstat/internal/status"
)

type fakeLoop struct {
	started  chan struct{}
	state    atomic.Int32
	err      error
	runCount atomic.Int32
}

func newFakeLoop() *fakeLoop {
	return &fakeLoop{started: make(chan struct{}, 4)}
}

func (l *fakeLoop) Run(ctx context.Context) error {
	l.runCount.Add(1)
	l.state.Store(int32(status.Running))
	l.started <- struct{}{}
	<-ctx.Done()
	l.state.Store(int32(status.Terminating))
	return l.err
}

func (l *fakeLoop) State() status.State { return status.State(l.state.Load()) }

type fakeScreen struct {
	poweredOff atomic.Int32
	closed     atomic.Int32
}

func (s *fakeScreen) PowerOff() error {
	s.poweredOff.Add(1)
	return nil
}

func (s *fakeScreen) Close() error {
	s.closed.Add(1)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	return &cfg
}

func factoryFor(loop *fakeLoop, screen *fakeScreen) daemon.Factory {
	return func() (daemon.Loop, daemon.Screen, error) { return loop, screen, nil }
}

func waitStarted(t *testing.T, loop *fakeLoop) {
	t.Helper()
	select {
	case <-loop.started:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not start")
	}
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testConfig(t)
	loop := newFakeLoop()
	screen := &fakeScreen{}
	d, err := daemon.New(cfg, factoryFor(loop, screen), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitStarted(t, loop)

	st := d.Status()
	if !st.Running || st.LoopState != status.Running {
		t.Fatalf("unexpected status while running: %+v", st)
	}
	if st.LockFilePath != filepath.Join(cfg.Paths.StateDir, "oledstat.lock") {
		t.Fatalf("unexpected lock path %q", st.LockFilePath)
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	st = d.Status()
	if st.Running || st.LoopState != status.Terminating {
		t.Fatalf("unexpected status after stop: %+v", st)
	}
	if screen.poweredOff.Load() != 1 || screen.closed.Load() != 1 {
		t.Fatalf("expected one power off and close, got %d/%d", screen.poweredOff.Load(), screen.closed.Load())
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("second Stop should be a no-op, got %v", err)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t)
	first, _ := daemon.New(cfg, factoryFor(newFakeLoop(), &fakeScreen{}), nil)
	built := false
	second, _ := daemon.New(cfg, func() (daemon.Loop, daemon.Screen, error) {
		built = true
		return newFakeLoop(), &fakeScreen{}, nil
	}, nil)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()

	err := second.Start(context.Background())
	if !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if built {
		t.Fatal("second instance must not open the display")
	}
}

func TestFactoryErrorReleasesLock(t *testing.T) {
	cfg := testConfig(t)
	failing, _ := daemon.New(cfg, func() (daemon.Loop, daemon.Screen, error) {
		return nil, nil, errors.New("no i2c bus")
	}, nil)
	if err := failing.Start(context.Background()); err == nil {
		t.Fatal("expected factory error")
	}

	loop := newFakeLoop()
	next, _ := daemon.New(cfg, factoryFor(loop, &fakeScreen{}), nil)
	if err := next.Start(context.Background()); err != nil {
		t.Fatalf("lock should be free after factory failure: %v", err)
	}
	waitStarted(t, loop)
	_ = next.Stop()
}

func TestLockReleasedAfterStop(t *testing.T) {
	cfg := testConfig(t)
	first, _ := daemon.New(cfg, factoryFor(newFakeLoop(), &fakeScreen{}), nil)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := first.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}

	loop := newFakeLoop()
	second, _ := daemon.New(cfg, factoryFor(loop, &fakeScreen{}), nil)
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("second Start after release: %v", err)
	}
	waitStarted(t, loop)
	_ = second.Stop()
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	loop := newFakeLoop()
	loop.err = errors.New("clear failed")
	screen := &fakeScreen{}
	d, _ := daemon.New(cfg, factoryFor(loop, screen), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	waitStarted(t, loop)
	cancel()

	select {
	case err := <-errCh:
		if err == nil || err.Error() != "clear failed" {
			t.Fatalf("expected loop error to surface, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if screen.closed.Load() != 1 {
		t.Fatal("expected screen to be closed")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := daemon.New(nil, factoryFor(newFakeLoop(), &fakeScreen{}), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := daemon.New(testConfig(t), nil, nil); err == nil {
		t.Fatal("expected error for nil factory")
	}
}
