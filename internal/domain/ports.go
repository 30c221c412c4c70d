package domain

import "context"

// RecipeStore is keyed local storage for recipes plus the single "active
// recipe" pointer. Implementations can be in-memory or SQLite.
type RecipeStore interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	// Save creates the recipe or replaces the one with the same ID.
	Save(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error
	ActiveID(ctx context.Context) (string, error)
	SetActive(ctx context.Context, id string) error
}

// NotificationPort plays the step-completion cue (sound, vibration).
// Alert is fire-and-forget: it must return quickly and its error is only
// ever logged.
type NotificationPort interface {
	Alert(ctx context.Context) error
}

// ProgressReporter feeds an ambient countdown display outside the app's own
// view. A nil reporter is the normal case on platforms without one.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, update ProgressUpdate) error
}

// ActivityEnder is optionally implemented by a ProgressReporter that needs
// to be told when the brew is over.
type ActivityEnder interface {
	EndActivity(ctx context.Context) error
}

// Canceler is optionally implemented by a NotificationPort that can drop
// alerts it has queued or is still playing.
type Canceler interface {
	CancelPending()
}

// Notifier delivers text messages to the user. Implementations can write to
// stdout or the TUI scrollback.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// IntentParser converts raw user input (typed or transcribed) into
// structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string, state *SessionState) (*Intent, error)
}
