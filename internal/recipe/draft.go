package recipe

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hammamikhairi/brewcue/internal/domain"
)

// Draft is a recipe being edited. Changes stay in the draft until Build.
type Draft struct {
	ID              string // empty for a new recipe
	Title           string
	Method          string
	Notes           string
	Ingredients     domain.Ingredients
	Steps           []domain.BrewingStep
	CustomStepTypes []domain.CustomStepType

	defaulted bool // Steps came from ToggleDefaultSteps
}

// NewDraft starts a new recipe with the editor's default dose.
func NewDraft() *Draft {
	return &Draft{
		Method: "V60",
		Ingredients: domain.Ingredients{
			Coffee:   20,
			Water:    300,
			Grind:    5,
			Temp:     95,
			TempUnit: domain.Celsius,
		},
	}
}

// DraftFrom opens an existing recipe for editing.
func DraftFrom(r *domain.Recipe) *Draft {
	c := r.Clone()
	return &Draft{
		ID:              c.ID,
		Title:           c.Title,
		Method:          c.Method,
		Notes:           c.Notes,
		Ingredients:     c.Ingredients,
		Steps:           c.Steps,
		CustomStepTypes: c.CustomStepTypes,
	}
}

// Actions returns the step types the editor offers for this draft.
func (d *Draft) Actions() []domain.StepType {
	return Actions(d.Method, d.CustomStepTypes)
}

// AddStep appends a step.
func (d *Draft) AddStep(s domain.BrewingStep) error {
	if err := d.checkType(s.Type); err != nil {
		return err
	}
	d.Steps = append(d.Steps, s)
	d.defaulted = false
	return nil
}

// UpdateStep replaces the step at i.
func (d *Draft) UpdateStep(i int, s domain.BrewingStep) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if err := d.checkType(s.Type); err != nil {
		return err
	}
	d.Steps[i] = s
	d.defaulted = false
	return nil
}

// RemoveStep deletes the step at i.
func (d *Draft) RemoveStep(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Steps = append(d.Steps[:i], d.Steps[i+1:]...)
	d.defaulted = false
	return nil
}

// MoveStep moves the step at from so it ends up at index to.
func (d *Draft) MoveStep(from, to int) error {
	if err := d.checkIndex(from); err != nil {
		return err
	}
	if err := d.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	s := d.Steps[from]
	d.Steps = append(d.Steps[:from], d.Steps[from+1:]...)
	d.Steps = append(d.Steps[:to], append([]domain.BrewingStep{s}, d.Steps[to:]...)...)
	d.defaulted = false
	return nil
}

// AddCustomType registers a user-defined step type. The name is slugged.
func (d *Draft) AddCustomType(name string, needsAmount, needsTime bool) (domain.CustomStepType, error) {
	slug := Slug(name)
	if slug == "" {
		return domain.CustomStepType{}, fmt.Errorf("custom step type name is required: %w", domain.ErrInvalidRecipe)
	}
	if domain.StepType(slug).IsBuiltin() {
		return domain.CustomStepType{}, fmt.Errorf("step type %q is built in: %w", slug, domain.ErrAlreadyExists)
	}
	for _, ct := range d.CustomStepTypes {
		if ct.Name == slug {
			return domain.CustomStepType{}, fmt.Errorf("custom step type %q: %w", slug, domain.ErrAlreadyExists)
		}
	}

	ct := domain.CustomStepType{Name: slug, NeedsAmount: needsAmount, NeedsTime: needsTime}
	d.CustomStepTypes = append(d.CustomStepTypes, ct)
	return ct, nil
}

// RemoveCustomType deletes a custom step type. Types still used by a step
// cannot be removed.
func (d *Draft) RemoveCustomType(name string) error {
	for i, s := range d.Steps {
		if string(s.Type) == name {
			return fmt.Errorf("custom step type %q is used by step %d: %w", name, i+1, domain.ErrInvalidRecipe)
		}
	}
	for i, ct := range d.CustomStepTypes {
		if ct.Name == name {
			d.CustomStepTypes = append(d.CustomStepTypes[:i], d.CustomStepTypes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("custom step type %q: %w", name, domain.ErrNotFound)
}

// ToggleDefaultSteps fills the draft with the starter steps for its method,
// or clears them again if the previous toggle filled them. It reports
// whether the draft now holds default steps.
func (d *Draft) ToggleDefaultSteps() bool {
	if d.defaulted {
		d.Steps = nil
		d.defaulted = false
		return false
	}
	steps, ok := DefaultSteps(d.Method)
	if !ok {
		return false
	}
	d.Steps = steps
	d.defaulted = true
	return true
}

// Build validates the draft and returns the recipe to store. New recipes
// get a fresh UUID; edited ones keep their ID.
func (d *Draft) Build() (*domain.Recipe, error) {
	title := strings.TrimSpace(d.Title)

	r := &domain.Recipe{
		ID:          d.ID,
		Name:        Slug(title),
		Title:       title,
		Method:      strings.TrimSpace(d.Method),
		Notes:       d.Notes,
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
	}
	if len(d.CustomStepTypes) > 0 {
		r.CustomStepTypes = d.CustomStepTypes
	}
	if r.Ingredients.TempUnit == "" {
		r.Ingredients.TempUnit = domain.Celsius
	}
	r.Ingredients.Time = r.TotalTime()

	if err := Validate(r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r.Clone(), nil
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Steps) {
		return fmt.Errorf("step %d of %d: %w", i+1, len(d.Steps), domain.ErrNotFound)
	}
	return nil
}

func (d *Draft) checkType(t domain.StepType) error {
	if t.IsBuiltin() {
		return nil
	}
	for _, ct := range d.CustomStepTypes {
		if ct.Name == string(t) {
			return nil
		}
	}
	return fmt.Errorf("unknown step type %q: %w", t, domain.ErrInvalidRecipe)
}
