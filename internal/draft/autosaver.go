package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultDebounce = 2500 * time.Millisecond

var (
	errMissingSaveFunc = errors.New("draft: save function is required")
	errSaverClosed     = errors.New("draft: auto-saver closed")
)

// SaveFunc flushes one draft snapshot to the backend.
type SaveFunc func(ctx context.Context, snapshot map[string]any) error

// saveState is the explicit auto-save state machine.
type saveState int

const (
	stateIdle saveState = iota
	statePending
	stateInFlight
)

// AutoSaverConfig configures the debounced auto-saver.
type AutoSaverConfig struct {
	Save     SaveFunc
	Interval time.Duration
	Logger   *zap.Logger
}

// AutoSaver coalesces rapid draft mutations into debounced saves. It holds
// a single pending-timer handle: each Notify cancels and reschedules it,
// and Flush bypasses the debounce for step-navigation boundaries. A failed
// save is logged and retried only on the next natural debounce tick.
type AutoSaver struct {
	mu       sync.Mutex
	state    saveState
	timer    *time.Timer
	latest   map[string]any
	dirty    bool
	closed   bool
	save     SaveFunc
	interval time.Duration
	logger   *zap.Logger
}

// NewAutoSaver constructs an AutoSaver.
func NewAutoSaver(cfg AutoSaverConfig) (*AutoSaver, error) {
	if cfg.Save == nil {
		return nil, errMissingSaveFunc
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoSaver{
		save:     cfg.Save,
		interval: interval,
		logger:   logger,
	}, nil
}

// Notify records the latest snapshot and (re)schedules the debounce timer.
// Notifies arriving while a save is in flight mark the saver dirty so a
// follow-up save is scheduled once the flight lands.
func (a *AutoSaver) Notify(snapshot map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.latest = snapshot

	switch a.state {
	case stateInFlight:
		a.dirty = true
	case statePending:
		a.timer.Reset(a.interval)
	default:
		a.state = statePending
		a.timer = time.AfterFunc(a.interval, a.fire)
	}
}

// Flush cancels any pending timer and saves immediately. Used at step
// navigation boundaries where the draft must be durable before moving on.
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errSaverClosed
	}
	if a.state == statePending && a.timer != nil {
		a.timer.Stop()
	}
	a.state = stateInFlight
	snapshot := a.latest
	a.mu.Unlock()

	err := a.save(ctx, snapshot)

	a.mu.Lock()
	a.settle(err)
	a.mu.Unlock()
	return err
}

// Close stops the pending timer. The saver accepts no further work.
func (a *AutoSaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.state = stateIdle
}

// fire runs on the debounce timer goroutine.
func (a *AutoSaver) fire() {
	a.mu.Lock()
	if a.closed || a.state != statePending {
		a.mu.Unlock()
		return
	}
	a.state = stateInFlight
	snapshot := a.latest
	a.mu.Unlock()

	err := a.save(context.Background(), snapshot)

	a.mu.Lock()
	a.settle(err)
	a.mu.Unlock()
}

// settle transitions out of in-flight. Callers hold the mutex. A dirty
// saver reschedules; a failed save waits for the next Notify (no backoff,
// no offline queue).
func (a *AutoSaver) settle(err error) {
	if err != nil {
		a.logger.Warn("draft auto-save failed", zap.Error(err))
	}
	if a.closed {
		a.state = stateIdle
		return
	}
	if a.dirty {
		a.dirty = false
		a.state = statePending
		a.timer = time.AfterFunc(a.interval, a.fire)
		return
	}
	a.state = stateIdle
}
