// Package progress projects a brew session into what the brew screen shows.
// Everything here is a pure function of the recipe and a session snapshot.
package progress

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

// ActionLabels names the built-in step types for display.
var ActionLabels = map[domain.StepType]string{
	domain.StepFilter:       "Rinse Filter",
	domain.StepAdd:          "Add Coffee",
	domain.StepBloom:        "Bloom",
	domain.StepPour:         "Pour",
	domain.StepStir:         "Stir",
	domain.StepSwirl:        "Swirl",
	domain.StepWait:         "Wait",
	domain.StepPress:        "Press",
	domain.StepPlacePlunger: "Place Plunger",
}

// Percent returns how far the countdown of step has progressed, in [0, 100].
// Pause steps and zero-length steps report 0.
func Percent(step domain.BrewingStep, remaining int) float64 {
	total := step.Duration()
	if total <= 0 {
		return 0
	}
	p := float64(total-remaining) / float64(total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// NextStep returns the step after index, or nil when index is the last one.
func NextStep(r *domain.Recipe, index int) *domain.BrewingStep {
	if r == nil || index+1 >= len(r.Steps) || index+1 < 0 {
		return nil
	}
	step := r.Steps[index+1]
	return &step
}

// StepLabel returns the display name of a step type. Unknown and custom
// types are title-cased from their slug.
func StepLabel(_ *domain.Recipe, t domain.StepType) string {
	if label, ok := ActionLabels[t]; ok {
		return label
	}
	return titleSlug(string(t))
}

// Instruction returns the step's own notes, or a default for its type.
func Instruction(step domain.BrewingStep) string {
	if step.Notes != "" {
		return step.Notes
	}
	switch step.Type {
	case domain.StepPour:
		if step.Amount != nil {
			return fmt.Sprintf("Pour %sg of water steadily.", FormatGrams(*step.Amount))
		}
		return "Pour water steadily."
	case domain.StepBloom:
		return "Let the coffee bloom. Watch for bubbles."
	case domain.StepWait:
		return "Wait for the drawdown."
	case domain.StepSwirl:
		return "Gently swirl the brewer."
	case domain.StepStir:
		return "Stir the grounds."
	case domain.StepPress:
		return "Press down the plunger gently."
	default:
		return "Follow the step instructions."
	}
}

// FormatGrams renders a weight without trailing zeros.
func FormatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

func titleSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, n := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[n:]
	}
	return strings.Join(words, " ")
}
