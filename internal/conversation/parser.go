// Package conversation turns typed or spoken commands into brew intents and
// prints announcements for the user.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Input is normalised first, so transcriptions like "Pause." work.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`^(next|done|continue|ok|okay|ready|c|n)$`), domain.IntentContinue},
		{regexp.MustCompile(`^(skip|skip (it|step|this)|s)$`), domain.IntentSkip},
		{regexp.MustCompile(`^(pause|hold|hold on|wait|p)$`), domain.IntentPause},
		{regexp.MustCompile(`^(resume|unpause|keep going|carry on|r)$`), domain.IntentResume},
		{regexp.MustCompile(`^(space|toggle)$`), domain.IntentTogglePause},
		{regexp.MustCompile(`^(mute|quiet|silence|m)$`), domain.IntentMute},
		{regexp.MustCompile(`^(unmute|sound on|sound)$`), domain.IntentUnmute},
		{regexp.MustCompile(`^(status|where|progress|time|how long)$`), domain.IntentStatus},
		{regexp.MustCompile(`^(quit|exit|stop|q|abandon)$`), domain.IntentQuit},
		{regexp.MustCompile(`^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`^(list|recipes|show|browse|l)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`^(start|brew|go|begin|let'?s go|let'?s brew)$`), domain.IntentStart},
	}
	return p
}

// Parse converts user input into an intent. The session state, when given,
// resolves words that mean different things in different phases: "next"
// resumes a paused brew and "start" continues one that is already going.
func (p *KeywordParser) Parse(ctx context.Context, input string, state *domain.SessionState) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	norm := normalize(trimmed)
	if norm == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", norm)

	// Recipe selection by number (e.g., "1", "12").
	if len(norm) <= 2 && isDigits(norm) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: norm}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(norm) {
			intent := resolve(rule.intent, state)
			p.log.Debug("matched intent: %s", intent)
			return &domain.Intent{Type: intent}, nil
		}
	}

	// "select 2", "pick chemex", "brew hoffmann".
	for _, prefix := range []string{"select ", "pick ", "brew ", "use "} {
		if strings.HasPrefix(norm, prefix) {
			if target := strings.TrimSpace(norm[len(prefix):]); target != "" {
				return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: target}, nil
			}
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// resolve maps an intent onto the one that makes sense in the current phase.
func resolve(intent domain.IntentType, state *domain.SessionState) domain.IntentType {
	if state == nil {
		return intent
	}
	switch intent {
	case domain.IntentContinue, domain.IntentStart:
		switch state.Phase {
		case domain.PhaseNotStarted:
			return domain.IntentStart
		case domain.PhasePaused:
			return domain.IntentResume
		case domain.PhaseAwaitingManualContinue:
			return domain.IntentContinue
		}
	case domain.IntentPause:
		if state.Phase == domain.PhasePaused {
			return domain.IntentResume
		}
	}
	return intent
}

var nonWord = regexp.MustCompile(`[^a-z0-9'? ]+`)
var spaces = regexp.MustCompile(`\s+`)

// normalize lowercases input and strips punctuation that speech
// transcription adds. A lone "?" survives for help.
func normalize(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = strings.ReplaceAll(lower, "’", "'")
	if lower == "?" {
		return lower
	}
	lower = nonWord.ReplaceAllString(lower, " ")
	lower = strings.ReplaceAll(lower, "?", " ")
	return strings.TrimSpace(spaces.ReplaceAllString(lower, " "))
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
