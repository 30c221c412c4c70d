package timer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

type fixedSource struct {
	state domain.SessionState
	ok    bool
}

func (f *fixedSource) State() (domain.SessionState, bool) { return f.state, f.ok }

func newTestWatcher(src StateSource, n domain.Notifier, now time.Time) *Watcher {
	w := NewWatcher(src, n, logger.New(logger.LevelOff, nil), WithIdleAfter(time.Minute))
	w.now = func() time.Time { return now }
	return w
}

func TestWatcherNudges(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state domain.SessionState
		want  string // substring, "" means no message
	}{
		{"paused long", domain.SessionState{Phase: domain.PhasePaused, StepIndex: 1, SecondsRemaining: 30, UpdatedAt: base.Add(-2 * time.Minute)}, "Brew paused for 2m0s"},
		{"paused briefly", domain.SessionState{Phase: domain.PhasePaused, UpdatedAt: base.Add(-10 * time.Second)}, ""},
		{"awaiting long", domain.SessionState{Phase: domain.PhaseAwaitingManualContinue, StepIndex: 4, UpdatedAt: base.Add(-5 * time.Minute)}, "Step 5 has been waiting"},
		{"counting down", domain.SessionState{Phase: domain.PhaseCountingDown, UpdatedAt: base.Add(-5 * time.Minute)}, ""},
		{"finished", domain.SessionState{Phase: domain.PhaseFinished, UpdatedAt: base.Add(-5 * time.Minute)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{}
			w := newTestWatcher(&fixedSource{state: tt.state, ok: true}, n, base)
			w.check(context.Background())

			msgs := n.all()
			if tt.want == "" {
				if len(msgs) != 0 {
					t.Fatalf("expected no message, got %v", msgs)
				}
				return
			}
			if len(msgs) != 1 || !strings.Contains(msgs[0], tt.want) {
				t.Fatalf("expected message containing %q, got %v", tt.want, msgs)
			}
		})
	}
}

func TestWatcherNudgesOncePerIdleSpell(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	src := &fixedSource{ok: true, state: domain.SessionState{Phase: domain.PhasePaused, UpdatedAt: base.Add(-3 * time.Minute)}}
	n := &mockNotifier{}
	w := newTestWatcher(src, n, base)

	w.check(context.Background())
	w.check(context.Background())
	if got := len(n.all()); got != 1 {
		t.Fatalf("expected 1 nudge, got %d", got)
	}

	// A new idle spell gets its own nudge.
	src.state.UpdatedAt = base.Add(-90 * time.Second)
	w.check(context.Background())
	if got := len(n.all()); got != 2 {
		t.Fatalf("expected 2 nudges, got %d", got)
	}
}

func TestWatcherNoSession(t *testing.T) {
	n := &mockNotifier{}
	w := newTestWatcher(&fixedSource{}, n, time.Now())
	w.check(context.Background())
	if len(n.all()) != 0 {
		t.Fatal("expected silence with no session")
	}
}

func TestWatcherRunsWithSupervisor(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := &mockNotifier{}
	sup := New(log,
		WithTickInterval(testTick),
		WithAnnouncer(n),
		WithWatcher(WithWatchInterval(10*time.Millisecond), WithIdleAfter(30*time.Millisecond)),
	)
	defer sup.Close()
	ctx := context.Background()

	sup.Attach(ctx, newTestSession(t, nil, domain.BrewingStep{Type: domain.StepFilter}))
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	waitFor(t, time.Second, func() bool { return len(n.all()) > 0 })
	if !strings.Contains(n.all()[0], "Step 1 has been waiting") {
		t.Fatalf("unexpected nudge %q", n.all()[0])
	}
}
