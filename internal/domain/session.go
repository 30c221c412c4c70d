package domain

import "time"

// Phase is where a brew session currently is. Exactly one holds at a time.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingManualContinue
	PhaseCountingDown
	PhasePaused
	PhaseFinished
)

// String returns a human-readable phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseAwaitingManualContinue:
		return "awaiting continue"
	case PhaseCountingDown:
		return "counting down"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// StepStatus tracks the state of a single step within a session.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepActive
	StepDone
	StepSkipped
)

// String returns a human-readable step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepActive:
		return "active"
	case StepDone:
		return "done"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SessionState is a read-only snapshot of a brew session. It is never
// persisted; a new brew always restarts at step 0.
type SessionState struct {
	SessionID        string
	RecipeID         string
	RecipeTitle      string
	StepIndex        int
	TotalSteps       int
	Phase            Phase
	SecondsRemaining int // meaningful only while counting down or paused
	Muted            bool
	StepStatuses     []StepStatus
	StartedAt        time.Time
	UpdatedAt        time.Time
}

// Finished reports whether the session reached its terminal phase.
func (s SessionState) Finished() bool { return s.Phase == PhaseFinished }

// ProgressUpdate is what ambient displays (live activities, window titles)
// receive whenever a step is entered or resumed.
type ProgressUpdate struct {
	RecipeTitle      string
	StepLabel        string
	StepIndex        int
	TotalSteps       int
	SecondsRemaining int
}
