package display

import (
	"fmt"
	"strings"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/progress"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Italic(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#27272a")).
			Background(lipgloss.Color("#a1a1aa")).
			Padding(0, 1)

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// renderBrew draws the brew screen for one snapshot.
func renderBrew(v progress.View, pb bar.Model) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString("  ")
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(titleStyle.Render(v.Title) + "  " + positionStyle.Render(v.Position))

	head := v.Label
	if v.Amount != "" {
		head += " " + v.Amount
	}
	line(stepStyle.Render(head))
	line(primaryStyle.Render(v.Instruction))

	line(pb.ViewAs(v.Percent/100) + "  " + clockStyle.Render(v.Clock))

	if s := phaseStatus(v); s != "" {
		line(statusStyle.Render(s))
	}

	if v.Next != nil {
		next := "Next: " + v.Next.Label
		if v.Next.Amount != "" {
			next += " " + v.Next.Amount
		}
		if v.Next.Time != "" {
			next += " · " + v.Next.Time
		}
		line(secondaryStyle.Render(next))
	}

	line(renderControls(v.Controls))
	return b.String()
}

func phaseStatus(v progress.View) string {
	var parts []string
	switch v.Phase {
	case domain.PhasePaused:
		parts = append(parts, "Paused")
	case domain.PhaseAwaitingManualContinue:
		parts = append(parts, "Waiting for you")
	case domain.PhaseFinished:
		parts = append(parts, "Enjoy your coffee!")
	}
	if v.Muted {
		parts = append(parts, "muted")
	}
	return strings.Join(parts, " · ")
}

func renderControls(cs []progress.Control) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, keyStyle.Render(c.Key)+" "+secondaryStyle.Render(c.Label))
	}
	return strings.Join(parts, sepStyle.Render("  "))
}

// RenderRecipeList formats recipe summaries as a numbered list. The active
// recipe is marked.
func RenderRecipeList(list []domain.RecipeSummary, activeID string) string {
	if len(list) == 0 {
		return secondaryStyle.Render("  No recipes yet. Import one with `brewcue import`.") + "\n"
	}
	var b strings.Builder
	for i, s := range list {
		marker := "  "
		if s.ID == activeID {
			marker = stepStyle.Render("▸ ")
		}
		meta := fmt.Sprintf("%s · %d steps · %s", s.Method, s.Steps, progress.FormatTime(s.TotalTime))
		fmt.Fprintf(&b, "%s%2d. %s  %s\n", marker, i+1, primaryStyle.Render(s.Title), secondaryStyle.Render(meta))
	}
	return b.String()
}

// RenderRecipe formats one recipe with its ingredients and steps.
func RenderRecipe(r *domain.Recipe) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title))
	b.WriteByte('\n')
	if r.Method != "" {
		b.WriteString(secondaryStyle.Render(r.Method))
		b.WriteByte('\n')
	}

	in := r.Ingredients
	unit := in.TempUnit
	if unit == "" {
		unit = domain.Celsius
	}
	fmt.Fprintf(&b, "\n%s %sg coffee · %sg water · grind %s · %s°%s\n",
		secondaryStyle.Render("Ingredients:"),
		progress.FormatGrams(in.Coffee), progress.FormatGrams(in.Water),
		progress.FormatGrams(in.Grind), progress.FormatGrams(in.Temp), unit)

	b.WriteByte('\n')
	for i, s := range r.Steps {
		head := progress.StepLabel(r, s.Type)
		if s.Amount != nil {
			head += " " + progress.FormatGrams(*s.Amount) + "g"
		}
		clock := "manual"
		if !s.IsPause() {
			clock = progress.FormatTime(*s.Time)
		}
		fmt.Fprintf(&b, "%2d. %s  %s\n", i+1, stepStyle.Render(head), secondaryStyle.Render(clock))
		if s.Notes != "" {
			b.WriteString("    " + primaryStyle.Render(s.Notes) + "\n")
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", secondaryStyle.Render("Total:"), progress.FormatTime(r.TotalTime()))
	if r.Notes != "" {
		b.WriteString("\n" + primaryStyle.Render(r.Notes) + "\n")
	}
	return b.String()
}
