package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/recipe"
)

// resolveRecipe finds a recipe by list number (1-based, as printed by
// `list`), by id, or by title. Titles match case-insensitively, then by a
// unique slug prefix ("chemex" finds "Counter Culture Chemex" only if no
// other recipe also matches).
func resolveRecipe(ctx context.Context, store domain.RecipeStore, ref string) (*domain.Recipe, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrNoActiveRecipe
	}

	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return nil, fmt.Errorf("recipe #%d (have %d): %w", n, len(list), domain.ErrNotFound)
		}
		return store.Get(ctx, list[n-1].ID)
	}

	for _, s := range list {
		if s.ID == ref {
			return store.Get(ctx, s.ID)
		}
	}

	slug := recipe.Slug(ref)
	var matches []domain.RecipeSummary
	for _, s := range list {
		if strings.EqualFold(s.Title, ref) || recipe.Slug(s.Title) == slug {
			return store.Get(ctx, s.ID)
		}
		if slug != "" && strings.Contains(recipe.Slug(s.Title), slug) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("recipe %q: %w", ref, domain.ErrNotFound)
	case 1:
		return store.Get(ctx, matches[0].ID)
	default:
		titles := make([]string, len(matches))
		for i, m := range matches {
			titles[i] = m.Title
		}
		return nil, fmt.Errorf("recipe %q is ambiguous (%s): %w", ref, strings.Join(titles, ", "), domain.ErrNotFound)
	}
}

// activeRecipe returns the recipe the active pointer names.
func activeRecipe(ctx context.Context, store domain.RecipeStore) (*domain.Recipe, error) {
	id, err := store.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrNoActiveRecipe
	}
	return store.Get(ctx, id)
}
