// Package storage provides recipe persistence: an in-memory store for tests
// and ephemeral runs, and a SQLite store for the local recipe library.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory recipe store. Safe for concurrent access.
// Recipes are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	order   []string // newest first
	active  string
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory recipe store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// List returns summaries of all recipes, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RecipeSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.recipes[id].Summary())
	}
	s.log.Debug("listing recipes, count=%d", len(out))
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}
	return r.Clone(), nil
}

// Save creates the recipe or replaces the one with the same ID.
func (s *MemoryStore) Save(ctx context.Context, recipe *domain.Recipe) error {
	if recipe == nil || recipe.ID == "" {
		return fmt.Errorf("saving recipe without id: %w", domain.ErrInvalidRecipe)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recipes[recipe.ID]; !exists {
		s.order = append([]string{recipe.ID}, s.order...)
	}
	s.recipes[recipe.ID] = recipe.Clone()
	s.log.Debug("saved recipe %s (%q, %d steps)", recipe.ID, recipe.Title, len(recipe.Steps))
	return nil
}

// Delete removes a recipe by ID. Deleting the active recipe clears the
// active pointer.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}
	delete(s.recipes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = ""
	}
	s.log.Debug("deleted recipe %s", id)
	return nil
}

// ActiveID returns the selected recipe ID, or "" when none is selected.
func (s *MemoryStore) ActiveID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}

// SetActive selects a recipe. An empty id clears the selection.
func (s *MemoryStore) SetActive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.recipes[id]; !ok {
			return fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
		}
	}
	s.active = id
	return nil
}
