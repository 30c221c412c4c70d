package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListRecipes
	IntentSelectRecipe
	IntentStart
	IntentPause
	IntentResume
	IntentTogglePause // "space": pause or resume depending on phase
	IntentSkip
	IntentContinue
	IntentMute
	IntentUnmute
	IntentStatus
	IntentQuit
	IntentHelp
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListRecipes:
		return "list_recipes"
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentStart:
		return "start"
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	case IntentTogglePause:
		return "toggle_pause"
	case IntentSkip:
		return "skip"
	case IntentContinue:
		return "continue"
	case IntentMute:
		return "mute"
	case IntentUnmute:
		return "unmute"
	case IntentStatus:
		return "status"
	case IntentQuit:
		return "quit"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. recipe number for select
}
