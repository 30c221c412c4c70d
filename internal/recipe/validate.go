package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

// ValidationError lists everything wrong with a recipe. It unwraps to
// domain.ErrInvalidRecipe.
type ValidationError struct {
	Title    string
	Problems []string
}

func (e *ValidationError) Error() string {
	name := e.Title
	if name == "" {
		name = "recipe"
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidRecipe }

// Validate checks that r can be stored and brewed.
func Validate(r *domain.Recipe) error {
	if r == nil {
		return fmt.Errorf("nil recipe: %w", domain.ErrInvalidRecipe)
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(r.Title) == "" {
		add("title is required")
	}
	if len(r.Steps) == 0 {
		add("at least one step is required")
	}

	in := r.Ingredients
	if in.Coffee <= 0 {
		add("coffee must be positive")
	}
	if in.Water <= 0 {
		add("water must be positive")
	}
	if in.Time < 0 {
		add("total time must not be negative")
	}
	switch in.TempUnit {
	case "", domain.Celsius, domain.Fahrenheit:
	default:
		add("temperature unit %q must be C or F", in.TempUnit)
	}

	seen := make(map[string]bool, len(r.CustomStepTypes))
	for _, ct := range r.CustomStepTypes {
		switch {
		case ct.Name == "":
			add("custom step type name is required")
		case seen[ct.Name]:
			add("custom step type %q is defined twice", ct.Name)
		case domain.StepType(ct.Name).IsBuiltin():
			add("custom step type %q shadows a built-in type", ct.Name)
		}
		seen[ct.Name] = true
	}

	for i, s := range r.Steps {
		n := i + 1
		if s.Type == "" {
			add("step %d: type is required", n)
		} else if !s.Type.IsBuiltin() && !seen[string(s.Type)] {
			add("step %d: unknown step type %q", n, s.Type)
		}
		if s.Time != nil && *s.Time < 0 {
			add("step %d: time must not be negative", n)
		}
		if s.Amount != nil && *s.Amount < 0 {
			add("step %d: amount must not be negative", n)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Title: r.Title, Problems: problems}
	}
	return nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases s and joins its words with dashes.
func Slug(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}
