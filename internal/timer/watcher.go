package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks session state.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithIdleAfter sets how long a session may sit paused or waiting on a
// manual step before the watcher nudges.
func WithIdleAfter(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.idleAfter = d
	}
}

// StateSource is anything that can report the current brew. *Supervisor
// implements it.
type StateSource interface {
	State() (domain.SessionState, bool)
}

// Watcher periodically looks at the brew and nudges the user when it has
// been left paused or waiting on a manual step for too long. Each idle spell
// gets at most one nudge.
type Watcher struct {
	source    StateSource
	notifier  domain.Notifier
	log       *logger.Logger
	interval  time.Duration
	idleAfter time.Duration
	now       func() time.Time

	nudgedAt time.Time // UpdatedAt of the idle spell already nudged
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(source StateSource, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:    source,
		notifier:  notifier,
		log:       log,
		interval:  15 * time.Second,
		idleAfter: 2 * time.Minute,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Debug("watcher started (interval=%s, idle after=%s)", w.interval, w.idleAfter)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle.
func (w *Watcher) check(ctx context.Context) {
	st, ok := w.source.State()
	if !ok {
		return
	}

	msg := w.buildMessage(st)
	if msg == "" {
		return
	}
	w.nudgedAt = st.UpdatedAt

	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

// buildMessage decides what to tell the user based on current state.
func (w *Watcher) buildMessage(st domain.SessionState) string {
	if st.UpdatedAt.IsZero() || st.UpdatedAt.Equal(w.nudgedAt) {
		return ""
	}
	idle := w.now().Sub(st.UpdatedAt)
	if idle < w.idleAfter {
		return ""
	}
	idle = idle.Round(time.Second)

	switch st.Phase {
	case domain.PhasePaused:
		return fmt.Sprintf("[Watcher] Brew paused for %s with %s left on step %d. The bed is cooling.",
			idle, formatRemaining(st.SecondsRemaining), st.StepIndex+1)
	case domain.PhaseAwaitingManualContinue:
		return fmt.Sprintf("[Watcher] Step %d has been waiting on you for %s. Continue when ready.",
			st.StepIndex+1, idle)
	}

	w.log.Debug("watcher: session %s at step %d/%d (%s), nothing to report",
		st.SessionID, st.StepIndex+1, st.TotalSteps, st.Phase)
	return ""
}
