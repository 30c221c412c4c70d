package recipe

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hammamikhairi/brewcue/internal/domain"
)

func TestYAMLRoundTrip(t *testing.T) {
	in := Builtins()
	in[0].CustomStepTypes = []domain.CustomStepType{{Name: "dump-puck", NeedsTime: true}}
	in[0].Steps = append(in[0].Steps, domain.BrewingStep{Type: "dump-puck"})

	var buf bytes.Buffer
	if err := Encode(&buf, in...); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in[0], out[0])
	}
}

func TestDecodeSingleAndMultiDocument(t *testing.T) {
	src := `
title: Quick Switch
ingredients:
  coffee: 15
  water: 240
steps:
  - type: pour
    amount: 240
    time: 30
  - type: wait
    time: 120
  - type: swirl
---
- id: fixed-id
  title: Tiny Moka
  ingredients: {coffee: 16, water: 160, temp_unit: F, time: 999}
  steps:
    - {type: add, time: 10}
`
	recipes, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}

	first := recipes[0]
	if first.ID == "" || first.Name != "quick-switch" {
		t.Fatalf("expected generated id and slug, got %q %q", first.ID, first.Name)
	}
	if first.Ingredients.Time != 150 || first.Ingredients.TempUnit != domain.Celsius {
		t.Fatalf("unexpected derived ingredients %+v", first.Ingredients)
	}
	if !first.Steps[2].IsPause() {
		t.Fatal("step without time should be a pause step")
	}

	second := recipes[1]
	if second.ID != "fixed-id" || second.Ingredients.TempUnit != domain.Fahrenheit {
		t.Fatalf("unexpected second recipe %+v", second)
	}
	if second.Ingredients.Time != 10 {
		t.Fatalf("stale total time kept: got %d, want 10", second.Ingredients.Time)
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"scalar", "just a string"},
		{"no steps", "title: Empty\ningredients: {coffee: 10, water: 100}\n"},
		{"unknown type", "title: X\ningredients: {coffee: 10, water: 100}\nsteps: [{type: tamp}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.src)); !errors.Is(err, domain.ErrInvalidRecipe) {
				t.Fatalf("expected ErrInvalidRecipe, got %v", err)
			}
		})
	}

	if _, err := Decode(strings.NewReader("title: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemex.yaml")
	in := Builtins()[1]

	if err := WriteFile(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 1 || !reflect.DeepEqual(in, out[0]) {
		t.Fatalf("file round trip mismatch: %+v", out)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
