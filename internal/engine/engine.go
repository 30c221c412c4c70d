// Package engine implements the brew session state machine.
//
// A Session walks a recipe's steps in order. Timed steps count down one
// Tick at a time; pause steps wait for ContinueManualStep. The Session is
// not safe for concurrent use: callers serialise access (see package timer).
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Option configures a session.
type Option func(*Session)

// WithMuted starts the session with alerts suppressed.
func WithMuted(muted bool) Option {
	return func(s *Session) {
		s.muted = muted
	}
}

// WithReporter attaches an ambient progress display.
func WithReporter(r domain.ProgressReporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithLabeler sets how step types are named in progress updates.
func WithLabeler(fn func(*domain.Recipe, domain.StepType) string) Option {
	return func(s *Session) {
		s.label = fn
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is one run-through of a recipe. All state is ephemeral.
type Session struct {
	id       string
	recipe   *domain.Recipe
	port     domain.NotificationPort
	reporter domain.ProgressReporter
	log      *logger.Logger
	label    func(*domain.Recipe, domain.StepType) string
	now      func() time.Time

	stepIndex int
	phase     domain.Phase
	remaining int
	muted     bool
	statuses  []domain.StepStatus
	startedAt time.Time
	updatedAt time.Time
}

// New creates a session for a copy of recipe. The recipe must have at least
// one step. port may be nil, in which case completions are silent.
func New(recipe *domain.Recipe, port domain.NotificationPort, log *logger.Logger, opts ...Option) (*Session, error) {
	if recipe == nil {
		return nil, domain.ErrNoActiveRecipe
	}
	if len(recipe.Steps) == 0 {
		return nil, fmt.Errorf("recipe %q: %w", recipe.Title, domain.ErrNoSteps)
	}

	s := &Session{
		id:       generateID(),
		recipe:   recipe.Clone(),
		port:     port,
		log:      log,
		label:    func(_ *domain.Recipe, t domain.StepType) string { return string(t) },
		now:      time.Now,
		phase:    domain.PhaseNotStarted,
		statuses: make([]domain.StepStatus, len(recipe.Steps)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.remaining = s.recipe.Steps[0].Duration()
	s.updatedAt = s.now()

	log.Debug("session %s created for %q (%d steps)", s.id, s.recipe.Title, len(s.recipe.Steps))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Recipe returns the session's private copy of the recipe. Callers must not
// modify it.
func (s *Session) Recipe() *domain.Recipe { return s.recipe }

// Port returns the notification port the session alerts through.
func (s *Session) Port() domain.NotificationPort { return s.port }

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase { return s.phase }

// Current returns the step at the current index.
func (s *Session) Current() domain.BrewingStep { return s.recipe.Steps[s.stepIndex] }

// Next returns the step after the current one, or nil on the last step.
func (s *Session) Next() *domain.BrewingStep {
	if s.stepIndex+1 >= len(s.recipe.Steps) {
		return nil
	}
	step := s.recipe.Steps[s.stepIndex+1]
	return &step
}

// State returns a snapshot of the session.
func (s *Session) State() domain.SessionState {
	return domain.SessionState{
		SessionID:        s.id,
		RecipeID:         s.recipe.ID,
		RecipeTitle:      s.recipe.Title,
		StepIndex:        s.stepIndex,
		TotalSteps:       len(s.recipe.Steps),
		Phase:            s.phase,
		SecondsRemaining: s.remaining,
		Muted:            s.muted,
		StepStatuses:     append([]domain.StepStatus(nil), s.statuses...),
		StartedAt:        s.startedAt,
		UpdatedAt:        s.updatedAt,
	}
}

// Start enters the first step.
func (s *Session) Start(ctx context.Context) error {
	if s.phase != domain.PhaseNotStarted {
		return s.invalid("start")
	}
	s.startedAt = s.now()
	s.enterStep(ctx, 0)
	s.log.Info("session %s started %q", s.id, s.recipe.Title)
	return nil
}

// Tick advances the countdown by one second. A step of N seconds completes
// on its Nth tick.
func (s *Session) Tick(ctx context.Context) error {
	if s.phase != domain.PhaseCountingDown {
		return s.invalid("tick")
	}
	if s.remaining > 0 {
		s.remaining--
	}
	s.updatedAt = s.now()
	if s.remaining == 0 {
		s.complete(ctx, domain.StepDone, true)
	}
	return nil
}

// Pause freezes the countdown.
func (s *Session) Pause(ctx context.Context) error {
	if s.phase != domain.PhaseCountingDown {
		return s.invalid("pause")
	}
	s.phase = domain.PhasePaused
	s.updatedAt = s.now()
	s.log.Debug("session %s paused at step %d with %ds left", s.id, s.stepIndex+1, s.remaining)
	return nil
}

// Resume continues a paused countdown from where it stopped.
func (s *Session) Resume(ctx context.Context) error {
	if s.phase != domain.PhasePaused {
		return s.invalid("resume")
	}
	s.phase = domain.PhaseCountingDown
	s.updatedAt = s.now()
	s.report(ctx)
	s.log.Debug("session %s resumed at step %d with %ds left", s.id, s.stepIndex+1, s.remaining)
	return nil
}

// ContinueManualStep confirms a pause step and moves on.
func (s *Session) ContinueManualStep(ctx context.Context) error {
	if s.phase != domain.PhaseAwaitingManualContinue {
		return s.invalid("continue")
	}
	s.complete(ctx, domain.StepDone, true)
	return nil
}

// Skip abandons the current step regardless of the time left. Skipped steps
// never fire the completion alert.
func (s *Session) Skip(ctx context.Context) error {
	switch s.phase {
	case domain.PhaseCountingDown, domain.PhasePaused, domain.PhaseAwaitingManualContinue:
	default:
		return s.invalid("skip")
	}
	s.log.Debug("session %s skipping step %d (%ds left)", s.id, s.stepIndex+1, s.remaining)
	s.complete(ctx, domain.StepSkipped, false)
	return nil
}

// SetMuted suppresses or re-enables completion alerts. Timing is unaffected.
func (s *Session) SetMuted(muted bool) {
	s.muted = muted
	s.updatedAt = s.now()
}

// complete is the step-completion transition shared by a countdown reaching
// zero, a manual continue, and skip.
func (s *Session) complete(ctx context.Context, status domain.StepStatus, notify bool) {
	step := s.recipe.Steps[s.stepIndex]
	s.statuses[s.stepIndex] = status
	s.updatedAt = s.now()

	if notify && !step.IsPause() && !s.muted {
		s.alert(ctx)
	}

	if s.stepIndex == len(s.recipe.Steps)-1 {
		s.phase = domain.PhaseFinished
		s.remaining = 0
		s.endActivity(ctx)
		s.log.Info("session %s finished %q", s.id, s.recipe.Title)
		return
	}

	s.enterStep(ctx, s.stepIndex+1)
}

func (s *Session) enterStep(ctx context.Context, idx int) {
	s.stepIndex = idx
	s.statuses[idx] = domain.StepActive
	step := s.recipe.Steps[idx]

	if step.IsPause() {
		s.remaining = 0
		s.phase = domain.PhaseAwaitingManualContinue
	} else {
		s.remaining = *step.Time
		s.phase = domain.PhaseCountingDown
	}
	s.updatedAt = s.now()

	s.log.Debug("session %s entered step %d/%d (%s, %s)", s.id, idx+1, len(s.recipe.Steps), step.Type, s.phase)
	s.report(ctx)
}

// alert invokes the notification port. Failures never reach the state machine.
func (s *Session) alert(ctx context.Context) {
	if s.port == nil {
		return
	}
	if err := s.port.Alert(ctx); err != nil {
		s.log.Warn("session %s: alert failed: %v", s.id, err)
	}
}

func (s *Session) report(ctx context.Context) {
	if s.reporter == nil {
		return
	}
	step := s.recipe.Steps[s.stepIndex]
	update := domain.ProgressUpdate{
		RecipeTitle:      s.recipe.Title,
		StepLabel:        s.label(s.recipe, step.Type),
		StepIndex:        s.stepIndex,
		TotalSteps:       len(s.recipe.Steps),
		SecondsRemaining: s.remaining,
	}
	if err := s.reporter.ReportProgress(ctx, update); err != nil {
		s.log.Debug("session %s: progress report skipped: %v", s.id, err)
	}
}

func (s *Session) endActivity(ctx context.Context) {
	ender, ok := s.reporter.(domain.ActivityEnder)
	if !ok {
		return
	}
	if err := ender.EndActivity(ctx); err != nil {
		s.log.Debug("session %s: end activity failed: %v", s.id, err)
	}
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%s while %s: %w", op, s.phase, domain.ErrInvalidTransition)
}
