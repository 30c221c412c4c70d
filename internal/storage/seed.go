package storage

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Seed fills an empty store with recipes. A store that already holds any
// recipe is left alone, so deleted built-ins stay deleted. It returns how
// many recipes were added.
func Seed(ctx context.Context, store domain.RecipeStore, recipes []*domain.Recipe, log *logger.Logger) (int, error) {
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seeding: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	// Saved oldest first so the listing shows them in the given order.
	for i := len(recipes) - 1; i >= 0; i-- {
		if err := store.Save(ctx, recipes[i]); err != nil {
			return 0, fmt.Errorf("seeding %q: %w", recipes[i].Title, err)
		}
	}
	log.Info("seeded %d recipes", len(recipes))
	return len(recipes), nil
}
