// Package timer drives brew sessions in real time. The Supervisor owns the
// one-second clock and serialises every call into the attached session.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/engine"
	"github.com/hammamikhairi/brewcue/internal/logger"
	"github.com/hammamikhairi/brewcue/internal/progress"
)

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets the length of one session second. Tests use a few
// milliseconds.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithAnnouncer sets where text announcements ("almost done", watcher
// nudges) go. Without one the supervisor stays silent.
func WithAnnouncer(n domain.Notifier) Option {
	return func(s *Supervisor) {
		s.announcer = n
	}
}

// WithAlmostDoneThreshold sets how close to the end of a step the "almost
// done" announcement fires. Only steps longer than twice the threshold get one.
func WithAlmostDoneThreshold(d time.Duration) Option {
	return func(s *Supervisor) {
		s.almostDoneThreshold = d
	}
}

// WithWatcher runs a Watcher alongside every attached session.
func WithWatcher(opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watch = true
		s.watcherOpts = opts
	}
}

// EventType tags supervisor events.
type EventType int

const (
	// EventChanged follows a command or a step transition.
	EventChanged EventType = iota
	// EventTick follows a clock tick that stayed on the same step.
	EventTick
	// EventFinished fires once when the session reaches its last step's end.
	EventFinished
	// EventDetached fires when the session is torn down.
	EventDetached
)

// String returns a human-readable event type.
func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventTick:
		return "tick"
	case EventFinished:
		return "finished"
	case EventDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after every state change.
type Event struct {
	Type  EventType
	State domain.SessionState
}

// Supervisor runs the clock for at most one brew session at a time. Every
// engine call, whether from a user command or a clock tick, happens under
// one mutex, so a tick and a command are never interleaved.
type Supervisor struct {
	log                 *logger.Logger
	tickInterval        time.Duration
	announcer           domain.Notifier
	almostDoneThreshold time.Duration
	watch               bool
	watcherOpts         []WatcherOption

	mu         sync.Mutex
	ctx        context.Context
	session    *engine.Session
	stopClock  context.CancelFunc
	stopWatch  context.CancelFunc
	gen        uint64 // bumped whenever the clock stops; stale ticks compare against it
	warnedStep int
	subs       []chan Event
	closed     bool
}

// New creates a supervisor with no session attached.
func New(log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		log:                 log,
		tickInterval:        1 * time.Second,
		almostDoneThreshold: 10 * time.Second,
		warnedStep:          -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than stall the clock.
func (s *Supervisor) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Attach makes sess the supervised session, tearing down any previous one.
// ctx bounds the session's clock.
func (s *Supervisor) Attach(ctx context.Context, sess *engine.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.ctx = ctx
	s.session = sess
	s.warnedStep = -1

	if s.watch && s.announcer != nil {
		wctx, cancel := context.WithCancel(ctx)
		s.stopWatch = cancel
		w := NewWatcher(s, s.announcer, s.log, s.watcherOpts...)
		go w.Run(wctx)
	}

	s.reconcileLocked()
	s.log.Info("supervisor: attached session %s", sess.ID())
	s.emitLocked(EventChanged, sess.State())
}

// Detach tears down the current session, if any.
func (s *Supervisor) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}
	st := s.session.State()
	s.teardownLocked()
	s.emitLocked(EventDetached, st)
}

// Close detaches and closes every subscriber channel.
func (s *Supervisor) Close() {
	s.Detach()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// State returns a snapshot of the attached session.
func (s *Supervisor) State() (domain.SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.SessionState{}, false
	}
	return s.session.State(), true
}

// Recipe returns the attached session's recipe copy, or nil.
func (s *Supervisor) Recipe() *domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	return s.session.Recipe()
}

// Start begins the attached session.
func (s *Supervisor) Start(ctx context.Context) error {
	return s.do(ctx, (*engine.Session).Start)
}

// Pause freezes the countdown.
func (s *Supervisor) Pause(ctx context.Context) error {
	return s.do(ctx, (*engine.Session).Pause)
}

// Resume continues a paused countdown.
func (s *Supervisor) Resume(ctx context.Context) error {
	return s.do(ctx, (*engine.Session).Resume)
}

// TogglePause pauses a running countdown or resumes a paused one.
func (s *Supervisor) TogglePause(ctx context.Context) error {
	return s.do(ctx, func(sess *engine.Session, ctx context.Context) error {
		if sess.Phase() == domain.PhasePaused {
			return sess.Resume(ctx)
		}
		return sess.Pause(ctx)
	})
}

// Skip abandons the current step.
func (s *Supervisor) Skip(ctx context.Context) error {
	return s.do(ctx, (*engine.Session).Skip)
}

// Continue confirms a pause step.
func (s *Supervisor) Continue(ctx context.Context) error {
	return s.do(ctx, (*engine.Session).ContinueManualStep)
}

// SetMuted toggles completion alerts on the attached session.
func (s *Supervisor) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return errNoSession
	}
	s.session.SetMuted(muted)
	s.emitLocked(EventChanged, s.session.State())
	return nil
}

var errNoSession = fmt.Errorf("no brew in progress: %w", domain.ErrNoActiveRecipe)

func (s *Supervisor) do(ctx context.Context, fn func(*engine.Session, context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return errNoSession
	}
	wasFinished := s.session.Phase() == domain.PhaseFinished
	step := s.session.State().StepIndex
	if err := fn(s.session, ctx); err != nil {
		return err
	}

	// A new step gets a full first second.
	if s.session.State().StepIndex != step {
		s.stopClockLocked()
	}
	s.reconcileLocked()
	st := s.session.State()
	if st.Finished() && !wasFinished {
		s.emitLocked(EventFinished, st)
	} else {
		s.emitLocked(EventChanged, st)
	}
	return nil
}

// reconcileLocked runs the clock exactly while the session counts down.
func (s *Supervisor) reconcileLocked() {
	counting := s.session != nil && s.session.Phase() == domain.PhaseCountingDown
	switch {
	case counting && s.stopClock == nil:
		s.startClockLocked()
	case !counting && s.stopClock != nil:
		s.stopClockLocked()
	}
}

func (s *Supervisor) startClockLocked() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.stopClock = cancel
	go s.loop(ctx, s.gen)
	s.log.Debug("supervisor: clock started (tick=%s)", s.tickInterval)
}

func (s *Supervisor) stopClockLocked() {
	if s.stopClock == nil {
		return
	}
	s.stopClock()
	s.stopClock = nil
	s.gen++
	s.log.Debug("supervisor: clock stopped")
}

func (s *Supervisor) teardownLocked() {
	if s.session == nil {
		return
	}
	s.stopClockLocked()
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	if c, ok := s.session.Port().(domain.Canceler); ok {
		c.CancelPending()
	}
	s.log.Info("supervisor: detached session %s", s.session.ID())
	s.session = nil
}

// loop is the clock goroutine for one countdown run.
func (s *Supervisor) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(gen)
		}
	}
}

// tick advances the session by one second. Announcements go out after the
// lock is released so a notifier that calls back into the supervisor cannot
// deadlock.
func (s *Supervisor) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.session == nil {
		s.mu.Unlock()
		return
	}

	before := s.session.State()
	if err := s.session.Tick(s.ctx); err != nil {
		s.log.Debug("supervisor: tick rejected: %v", err)
		s.reconcileLocked()
		s.mu.Unlock()
		return
	}

	st := s.session.State()
	msg := s.almostDoneLocked(st)
	s.reconcileLocked()

	switch {
	case st.Finished():
		s.emitLocked(EventFinished, st)
	case st.StepIndex != before.StepIndex:
		s.emitLocked(EventChanged, st)
	default:
		s.emitLocked(EventTick, st)
	}
	ctx := s.ctx
	s.mu.Unlock()

	if msg != "" {
		if err := s.announcer.Notify(ctx, msg); err != nil {
			s.log.Error("supervisor: almost-done notify: %v", err)
		}
	}
}

// almostDoneLocked returns the announcement for the current step, once.
func (s *Supervisor) almostDoneLocked(st domain.SessionState) string {
	if s.announcer == nil || s.almostDoneThreshold <= 0 {
		return ""
	}
	if st.Phase != domain.PhaseCountingDown || s.warnedStep == st.StepIndex {
		return ""
	}

	step := s.session.Current()
	threshold := int(s.almostDoneThreshold / time.Second)
	if step.Duration() <= threshold*2 || st.SecondsRemaining > threshold {
		return ""
	}

	s.warnedStep = st.StepIndex
	label := progress.StepLabel(s.session.Recipe(), step.Type)
	return fmt.Sprintf("[Brew] %s almost done, %s left.", label, formatRemaining(st.SecondsRemaining))
}

func (s *Supervisor) emitLocked(t EventType, st domain.SessionState) {
	event := Event{Type: t, State: st}
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// formatRemaining returns a human-friendly spoken duration.
// Rounds to the nearest minute once there's at least 1 minute left.
func formatRemaining(secs int) string {
	if secs < 60 {
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	m := (secs + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
