package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
	"github.com/hammamikhairi/brewcue/internal/recipe"
)

// storeFactories lets every contract test run against each implementation.
func storeFactories() map[string]func(t *testing.T) domain.RecipeStore {
	log := logger.New(logger.LevelOff, nil)
	return map[string]func(t *testing.T) domain.RecipeStore{
		"memory": func(t *testing.T) domain.RecipeStore {
			return NewMemoryStore(log)
		},
		"sqlite": func(t *testing.T) domain.RecipeStore {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "recipes.db"), log)
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func sampleRecipe(id string) *domain.Recipe {
	return &domain.Recipe{
		ID:     id,
		Name:   "sample-" + id,
		Title:  "Sample " + id,
		Method: "Switch",
		Notes:  "line one\nline two",
		Ingredients: domain.Ingredients{
			Coffee: 16.5, Water: 250, Grind: 18, Temp: 200, TempUnit: domain.Fahrenheit, Time: 70,
		},
		Steps: []domain.BrewingStep{
			{Type: domain.StepPour, Time: domain.Seconds(30), Amount: domain.Grams(250)},
			{Type: "open-valve", Notes: "Open the switch"},
			{Type: domain.StepWait, Time: domain.Seconds(40)},
		},
		CustomStepTypes: []domain.CustomStepType{{Name: "open-valve", NeedsTime: false}},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			in := sampleRecipe("a")

			if err := store.Save(ctx, in); err != nil {
				t.Fatalf("save: %v", err)
			}
			out, err := store.Get(ctx, "a")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
			}

			// The store holds its own copy.
			out.Title = "changed"
			again, _ := store.Get(ctx, "a")
			if again.Title != in.Title {
				t.Fatal("store returned shared state")
			}

			if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			for _, id := range []string{"a", "b", "c"} {
				if err := store.Save(ctx, sampleRecipe(id)); err != nil {
					t.Fatalf("save %s: %v", id, err)
				}
			}

			edited := sampleRecipe("b")
			edited.Title = "Edited B"
			edited.Steps = edited.Steps[:1]
			if err := store.Save(ctx, edited); err != nil {
				t.Fatalf("replace: %v", err)
			}

			list, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var ids []string
			for _, s := range list {
				ids = append(ids, s.ID)
			}
			if !reflect.DeepEqual(ids, []string{"c", "b", "a"}) {
				t.Fatalf("expected newest first with replace in place, got %v", ids)
			}
			if list[1].Title != "Edited B" || list[1].Steps != 1 || list[1].TotalTime != 30 {
				t.Fatalf("unexpected summary %+v", list[1])
			}

			if err := store.Save(ctx, &domain.Recipe{Title: "no id"}); !errors.Is(err, domain.ErrInvalidRecipe) {
				t.Fatalf("expected ErrInvalidRecipe, got %v", err)
			}
		})
	}
}

func TestStoreActiveRecipe(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			if id, err := store.ActiveID(ctx); err != nil || id != "" {
				t.Fatalf("expected no active recipe, got %q %v", id, err)
			}
			if err := store.SetActive(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			_ = store.Save(ctx, sampleRecipe("a"))
			_ = store.Save(ctx, sampleRecipe("b"))

			if err := store.SetActive(ctx, "a"); err != nil {
				t.Fatalf("set active: %v", err)
			}
			if err := store.SetActive(ctx, "b"); err != nil {
				t.Fatalf("set active: %v", err)
			}
			if id, _ := store.ActiveID(ctx); id != "b" {
				t.Fatalf("expected active b, got %q", id)
			}

			// Deleting another recipe keeps the pointer.
			if err := store.Delete(ctx, "a"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if id, _ := store.ActiveID(ctx); id != "b" {
				t.Fatalf("expected active b, got %q", id)
			}

			// Deleting the active recipe clears it.
			if err := store.Delete(ctx, "b"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if id, _ := store.ActiveID(ctx); id != "" {
				t.Fatalf("expected active cleared, got %q", id)
			}

			if err := store.Delete(ctx, "b"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			_ = store.Save(ctx, sampleRecipe("c"))
			_ = store.SetActive(ctx, "c")
			if err := store.SetActive(ctx, ""); err != nil {
				t.Fatalf("clear active: %v", err)
			}
			if id, _ := store.ActiveID(ctx); id != "" {
				t.Fatalf("expected cleared, got %q", id)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			n, err := Seed(ctx, store, recipe.Builtins(), log)
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			if n != 2 {
				t.Fatalf("expected 2 seeded, got %d", n)
			}

			list, _ := store.List(ctx)
			if len(list) != 2 || list[0].ID != recipe.HoffmannInvertedAeropressID {
				t.Fatalf("expected built-ins in order, got %+v", list)
			}

			// A non-empty store is never reseeded.
			_ = store.Delete(ctx, recipe.CounterCultureChemexID)
			n, err = Seed(ctx, store, recipe.Builtins(), log)
			if err != nil || n != 0 {
				t.Fatalf("expected no reseed, got %d %v", n, err)
			}
		})
	}
}

func TestSQLiteReopen(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	path := filepath.Join(t.TempDir(), "recipes.db")
	ctx := context.Background()

	s, err := OpenSQLite(path, log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.Save(ctx, sampleRecipe("keep"))
	_ = s.SetActive(ctx, "keep")
	s.Close()

	s, err = OpenSQLite(path, log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if id, _ := s.ActiveID(ctx); id != "keep" {
		t.Fatalf("expected active recipe to survive reopen, got %q", id)
	}
	if _, err := s.Get(ctx, "keep"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
