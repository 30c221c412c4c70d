package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/brewcue/internal/display"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/engine"
	"github.com/hammamikhairi/brewcue/internal/logger"
	"github.com/hammamikhairi/brewcue/internal/progress"
	"github.com/hammamikhairi/brewcue/internal/timer"
)

// screen is the part of the terminal UI the brew loop talks to.
// *display.UI implements it.
type screen interface {
	Println(a ...interface{})
	PrintChat(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintVoice(text string)
	Refresh()
	Quit()
}

// sessionFactory builds a fresh engine session for a recipe.
type sessionFactory func(r *domain.Recipe, muted bool) (*engine.Session, error)

// brewLoop turns typed, keyed and spoken commands into supervisor calls and
// narrates what happens into the scrollback.
type brewLoop struct {
	sup        *timer.Supervisor
	store      domain.RecipeStore
	parser     domain.IntentParser
	screen     screen
	newSession sessionFactory
	log        *logger.Logger

	muted    bool
	lastStep int
	finished bool
}

// load starts over with r: builds a session, hands it to the supervisor and
// marks r active.
func (b *brewLoop) load(ctx context.Context, r *domain.Recipe) error {
	sess, err := b.newSession(r, b.muted)
	if err != nil {
		return err
	}
	b.lastStep = -1
	b.finished = false
	b.sup.Attach(ctx, sess)
	if err := b.store.SetActive(ctx, r.ID); err != nil {
		b.log.Warn("brew: could not mark %s active: %v", r.ID, err)
	}
	return nil
}

// run processes input until ctx is cancelled, the input closes, or the user
// quits.
func (b *brewLoop) run(ctx context.Context, input, voice <-chan string, events <-chan timer.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.onEvent(ctx, ev)
		case line, ok := <-input:
			if !ok {
				return
			}
			if b.handle(ctx, line) {
				return
			}
		case line := <-voice:
			b.screen.PrintVoice(line)
			if b.handle(ctx, line) {
				return
			}
		}
	}
}

// handle parses one command and acts on it. Returns true when the user quit.
func (b *brewLoop) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	var state *domain.SessionState
	if st, ok := b.sup.State(); ok {
		state = &st
	}

	intent, err := b.parser.Parse(ctx, line, state)
	if err != nil {
		b.log.Error("parsing input: %v", err)
		return false
	}
	b.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
	return b.dispatch(ctx, intent)
}

func (b *brewLoop) dispatch(ctx context.Context, intent *domain.Intent) bool {
	var err error
	switch intent.Type {
	case domain.IntentStart:
		if err = b.sup.Start(ctx); err == nil {
			if r := b.sup.Recipe(); r != nil {
				b.screen.PrintChat("Brewing " + r.Title + ".")
			}
		}
	case domain.IntentPause:
		if err = b.sup.Pause(ctx); err == nil {
			b.screen.PrintChat("Paused.")
		}
	case domain.IntentResume:
		if err = b.sup.Resume(ctx); err == nil {
			b.screen.PrintChat("Resumed.")
		}
	case domain.IntentTogglePause:
		err = b.sup.TogglePause(ctx)
	case domain.IntentSkip:
		if err = b.sup.Skip(ctx); err == nil {
			b.screen.PrintHint("Skipped.")
		}
	case domain.IntentContinue:
		err = b.sup.Continue(ctx)
	case domain.IntentMute, domain.IntentUnmute:
		muted := intent.Type == domain.IntentMute
		b.muted = muted
		if err = b.sup.SetMuted(muted); err == nil || errors.Is(err, domain.ErrNoActiveRecipe) {
			err = nil
			if muted {
				b.screen.PrintHint("Alerts muted.")
			} else {
				b.screen.PrintHint("Alerts on.")
			}
		}
	case domain.IntentStatus:
		b.status()
	case domain.IntentListRecipes:
		b.list(ctx)
	case domain.IntentSelectRecipe:
		err = b.selectRecipe(ctx, intent.Payload)
	case domain.IntentHelp:
		b.help()
	case domain.IntentQuit:
		b.screen.PrintChat("Bye!")
		b.screen.Quit()
		return true
	default:
		b.screen.PrintHint(fmt.Sprintf("Didn't catch %q. Type help for commands.", intent.Payload))
	}

	if err != nil {
		b.report(intent, err)
	}
	b.screen.Refresh()
	return false
}

// report explains a failed command without crashing the brew.
func (b *brewLoop) report(intent *domain.Intent, err error) {
	switch {
	case errors.Is(err, domain.ErrNoActiveRecipe):
		b.screen.PrintHint("Pick a recipe first: type list, then its number.")
	case errors.Is(err, domain.ErrInvalidTransition):
		phase := "idle"
		if st, ok := b.sup.State(); ok {
			phase = st.Phase.String()
		}
		b.screen.PrintHint(fmt.Sprintf("Can't %s while %s.", strings.ReplaceAll(intent.Type.String(), "_", " "), phase))
	default:
		b.log.Error("brew: %s: %v", intent.Type, err)
		b.screen.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

func (b *brewLoop) selectRecipe(ctx context.Context, ref string) error {
	r, err := resolveRecipe(ctx, b.store, ref)
	if err != nil {
		return err
	}
	if err := b.load(ctx, r); err != nil {
		return err
	}
	b.screen.PrintChat(fmt.Sprintf("Ready: %s. Press enter to start.", r.Title))
	return nil
}

func (b *brewLoop) list(ctx context.Context) {
	list, err := b.store.List(ctx)
	if err != nil {
		b.screen.PrintUrgent(fmt.Sprintf("Error loading recipes: %v", err))
		return
	}
	active, _ := b.store.ActiveID(ctx)
	b.screen.Println(strings.TrimRight(display.RenderRecipeList(list, active), "\n"))
	b.screen.PrintChat("Pick a recipe by number.")
}

func (b *brewLoop) status() {
	st, ok := b.sup.State()
	r := b.sup.Recipe()
	if !ok || r == nil {
		b.screen.PrintHint("No brew in progress.")
		return
	}
	v := progress.Project(r, st)
	b.screen.PrintChat(fmt.Sprintf("%s · %s · %s · %s", v.Title, v.Position, v.Label, st.Phase))
	if st.Phase == domain.PhaseCountingDown || st.Phase == domain.PhasePaused {
		b.screen.PrintHint(v.Clock + " left on this step.")
	}
}

func (b *brewLoop) help() {
	b.screen.PrintChat("Keys: enter start/continue · space pause/resume · s skip · m mute · q quit · / type")
	b.screen.PrintHint("Commands: start, pause, resume, skip, next, mute, unmute, status, list, select <n|name>, quit")
}

// onEvent narrates step changes and the end of the brew. Any event can
// carry a step change, since a full subscriber misses some.
func (b *brewLoop) onEvent(_ context.Context, ev timer.Event) {
	if ev.Type == timer.EventDetached {
		b.screen.Refresh()
		return
	}

	st := ev.State
	if st.Phase == domain.PhaseFinished || ev.Type == timer.EventFinished {
		if !b.finished {
			b.finished = true
			b.screen.PrintChat("All done. Enjoy your coffee!")
		}
		b.screen.Refresh()
		return
	}

	if st.StepIndex != b.lastStep {
		b.lastStep = st.StepIndex
		if r := b.sup.Recipe(); r != nil && st.StepIndex < len(r.Steps) {
			step := r.Steps[st.StepIndex]
			header := fmt.Sprintf("Step %d/%d · %s", st.StepIndex+1, st.TotalSteps, progress.StepLabel(r, step.Type))
			if !step.IsPause() {
				header += " (" + progress.FormatTime(*step.Time) + ")"
			}
			b.screen.PrintChat(header)
			b.screen.PrintHint(progress.Instruction(step))
		}
		b.screen.Refresh()
		return
	}
	// Ticks only redraw the clock, which the screen does on its own.
	if ev.Type != timer.EventTick {
		b.screen.Refresh()
	}
}
