package recipe

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hammamikhairi/brewcue/internal/domain"
)

func stepTypes(steps []domain.BrewingStep) []domain.StepType {
	out := make([]domain.StepType, len(steps))
	for i, s := range steps {
		out[i] = s.Type
	}
	return out
}

func TestDraftBuildNewRecipe(t *testing.T) {
	d := NewDraft()
	d.Title = "  Morning V60 "
	if err := d.AddStep(domain.BrewingStep{Type: domain.StepBloom, Time: domain.Seconds(45), Amount: domain.Grams(40)}); err != nil {
		t.Fatalf("add step: %v", err)
	}
	if err := d.AddStep(domain.BrewingStep{Type: domain.StepSwirl}); err != nil {
		t.Fatalf("add step: %v", err)
	}
	if err := d.AddStep(domain.BrewingStep{Type: domain.StepWait, Time: domain.Seconds(90)}); err != nil {
		t.Fatalf("add step: %v", err)
	}

	r, err := d.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("expected UUID id, got %q", r.ID)
	}
	if r.Title != "Morning V60" || r.Name != "morning-v60" {
		t.Fatalf("unexpected title/name %q %q", r.Title, r.Name)
	}
	if r.Ingredients.Time != 135 {
		t.Fatalf("expected derived time 135, got %d", r.Ingredients.Time)
	}
	if r.CustomStepTypes != nil {
		t.Fatal("expected no custom types")
	}

	// The built recipe is independent of the draft.
	*d.Steps[0].Time = 1
	if *r.Steps[0].Time != 45 {
		t.Fatal("built recipe shares state with the draft")
	}
}

func TestDraftBuildRejects(t *testing.T) {
	d := NewDraft()
	if _, err := d.Build(); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected ErrInvalidRecipe for empty draft, got %v", err)
	}

	d.Title = "Only Title"
	if _, err := d.Build(); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected ErrInvalidRecipe without steps, got %v", err)
	}
}

func TestDraftFromKeepsID(t *testing.T) {
	orig := Builtins()[0]
	d := DraftFrom(orig)
	d.Title = "Hoffmann, tweaked"
	if err := d.RemoveStep(len(d.Steps) - 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	r, err := d.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.ID != orig.ID {
		t.Fatalf("expected id %q kept, got %q", orig.ID, r.ID)
	}
	if len(r.Steps) != len(orig.Steps)-1 {
		t.Fatalf("expected %d steps, got %d", len(orig.Steps)-1, len(r.Steps))
	}
	if len(orig.Steps) != 6 {
		t.Fatal("editing the draft changed the source recipe")
	}
}

func TestDraftStepEditing(t *testing.T) {
	d := NewDraft()
	for _, st := range []domain.StepType{domain.StepFilter, domain.StepAdd, domain.StepPour, domain.StepWait} {
		if err := d.AddStep(domain.BrewingStep{Type: st, Time: domain.Seconds(10)}); err != nil {
			t.Fatalf("add %s: %v", st, err)
		}
	}

	if err := d.MoveStep(3, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	want := []domain.StepType{domain.StepFilter, domain.StepWait, domain.StepAdd, domain.StepPour}
	if got := stepTypes(d.Steps); !equalTypes(got, want) {
		t.Fatalf("after move got %v, want %v", got, want)
	}

	if err := d.MoveStep(0, 3); err != nil {
		t.Fatalf("move: %v", err)
	}
	want = []domain.StepType{domain.StepWait, domain.StepAdd, domain.StepPour, domain.StepFilter}
	if got := stepTypes(d.Steps); !equalTypes(got, want) {
		t.Fatalf("after move got %v, want %v", got, want)
	}

	if err := d.UpdateStep(0, domain.BrewingStep{Type: domain.StepBloom, Time: domain.Seconds(30)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.Steps[0].Type != domain.StepBloom {
		t.Fatalf("expected bloom, got %s", d.Steps[0].Type)
	}

	if err := d.RemoveStep(9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := d.MoveStep(0, -1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := d.AddStep(domain.BrewingStep{Type: "tamp"}); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected ErrInvalidRecipe for unregistered type, got %v", err)
	}
}

func equalTypes(a, b []domain.StepType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDraftCustomTypes(t *testing.T) {
	d := NewDraft()
	d.Method = "Espresso"

	ct, err := d.AddCustomType("  Dump Puck ", false, false)
	if err != nil {
		t.Fatalf("add custom: %v", err)
	}
	if ct.Name != "dump-puck" {
		t.Fatalf("expected slugged name, got %q", ct.Name)
	}
	if _, err := d.AddCustomType("dump puck", true, true); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := d.AddCustomType("Pour", false, true); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for built-in, got %v", err)
	}
	if _, err := d.AddCustomType("   ", false, true); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected ErrInvalidRecipe for empty name, got %v", err)
	}

	actions := d.Actions()
	if actions[len(actions)-1] != "dump-puck" {
		t.Fatalf("custom type missing from actions: %v", actions)
	}

	if err := d.AddStep(domain.BrewingStep{Type: "dump-puck"}); err != nil {
		t.Fatalf("add custom step: %v", err)
	}
	if err := d.RemoveCustomType("dump-puck"); !errors.Is(err, domain.ErrInvalidRecipe) {
		t.Fatalf("expected in-use error, got %v", err)
	}
	if err := d.RemoveStep(0); err != nil {
		t.Fatalf("remove step: %v", err)
	}
	if err := d.RemoveCustomType("dump-puck"); err != nil {
		t.Fatalf("remove custom: %v", err)
	}
	if err := d.RemoveCustomType("dump-puck"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDraftToggleDefaultSteps(t *testing.T) {
	d := NewDraft()
	d.Method = "French Press"

	if !d.ToggleDefaultSteps() {
		t.Fatal("expected defaults applied")
	}
	if len(d.Steps) != 5 {
		t.Fatalf("expected 5 french press steps, got %d", len(d.Steps))
	}
	if d.ToggleDefaultSteps() {
		t.Fatal("second toggle should clear defaults")
	}
	if len(d.Steps) != 0 {
		t.Fatalf("expected steps cleared, got %d", len(d.Steps))
	}

	d.Method = "Moka Pot"
	if d.ToggleDefaultSteps() {
		t.Fatal("moka pot has no defaults")
	}
}
