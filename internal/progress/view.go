package progress

import (
	"fmt"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

// Control is one user action the brew screen currently offers.
type Control struct {
	Key   string
	Label string
}

// StepPreview is the compact "up next" line.
type StepPreview struct {
	Label  string
	Amount string // "" when the step has no amount
	Time   string // "" for pause steps
}

// View is everything the brew screen renders for one snapshot.
type View struct {
	Title        string
	Position     string // "Step 2 of 6"
	Label        string
	Amount       string
	Instruction  string
	Clock        string
	Percent      float64
	Phase        domain.Phase
	Muted        bool
	ShowContinue bool
	Next         *StepPreview
	Controls     []Control
}

// Project builds the View for a session snapshot.
func Project(r *domain.Recipe, st domain.SessionState) View {
	v := View{
		Title: r.Title,
		Phase: st.Phase,
		Muted: st.Muted,
	}
	if len(r.Steps) == 0 {
		return v
	}

	idx := st.StepIndex
	if idx >= len(r.Steps) {
		idx = len(r.Steps) - 1
	}
	step := r.Steps[idx]

	v.Position = fmt.Sprintf("Step %d of %d", idx+1, len(r.Steps))
	v.Label = StepLabel(r, step.Type)
	if step.Amount != nil {
		v.Amount = FormatGrams(*step.Amount) + "g"
	}
	v.Instruction = Instruction(step)
	v.ShowContinue = st.Phase == domain.PhaseAwaitingManualContinue

	switch st.Phase {
	case domain.PhaseNotStarted:
		v.Clock = FormatTime(step.Duration())
	case domain.PhaseCountingDown, domain.PhasePaused:
		v.Clock = FormatTime(st.SecondsRemaining)
		v.Percent = Percent(step, st.SecondsRemaining)
	case domain.PhaseAwaitingManualContinue:
		v.Clock = "--:--"
	case domain.PhaseFinished:
		v.Clock = FormatTime(0)
		v.Percent = 100
	}

	if st.Phase != domain.PhaseFinished {
		if next := NextStep(r, idx); next != nil {
			p := &StepPreview{Label: StepLabel(r, next.Type)}
			if next.Amount != nil {
				p.Amount = FormatGrams(*next.Amount) + "g"
			}
			if !next.IsPause() {
				p.Time = FormatTime(*next.Time)
			}
			v.Next = p
		}
	}

	v.Controls = Controls(st)
	return v
}

// Controls lists the actions valid in the snapshot's phase.
func Controls(st domain.SessionState) []Control {
	mute := Control{Key: "m", Label: "mute"}
	if st.Muted {
		mute.Label = "unmute"
	}
	quit := Control{Key: "q", Label: "quit"}

	switch st.Phase {
	case domain.PhaseNotStarted:
		return []Control{{Key: "enter", Label: "start"}, mute, quit}
	case domain.PhaseCountingDown:
		return []Control{{Key: "space", Label: "pause"}, {Key: "s", Label: "skip"}, mute, quit}
	case domain.PhasePaused:
		return []Control{{Key: "space", Label: "resume"}, {Key: "s", Label: "skip"}, mute, quit}
	case domain.PhaseAwaitingManualContinue:
		return []Control{{Key: "enter", Label: "continue"}, {Key: "s", Label: "skip"}, mute, quit}
	default:
		return []Control{quit}
	}
}
