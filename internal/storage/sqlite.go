package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

// Compile-time interface check.
var _ domain.RecipeStore = (*SQLiteStore)(nil)

const activeRecipeKey = "active_recipe"

// SQLiteStore keeps recipes in a local SQLite database. Each row holds the
// recipe as a JSON document next to a few columns used for listing.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path. A leading ~
// expands to the home directory.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	log.Debug("recipe database ready at %s", path)
	return s, nil
}

// migrate creates the necessary tables.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS recipes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			method TEXT,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns summaries of all recipes, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM recipes ORDER BY rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.RecipeSummary
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		var r domain.Recipe
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("decoding recipe: %w", err)
		}
		out = append(out, r.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	s.log.Debug("listing recipes, count=%d", len(out))
	return out, nil
}

// Get returns a recipe by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM recipes WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe %q: %w", id, err)
	}

	var r domain.Recipe
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decoding recipe %q: %w", id, err)
	}
	return &r, nil
}

// Save creates the recipe or replaces the one with the same ID. An upsert
// keeps the rowid, so a replaced recipe keeps its place in the listing.
func (s *SQLiteStore) Save(ctx context.Context, recipe *domain.Recipe) error {
	if recipe == nil || recipe.ID == "" {
		return fmt.Errorf("saving recipe without id: %w", domain.ErrInvalidRecipe)
	}

	body, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("encoding recipe %q: %w", recipe.ID, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, title, method, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			method = excluded.method,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, recipe.ID, recipe.Title, recipe.Method, string(body), now, now)
	if err != nil {
		return fmt.Errorf("saving recipe %q: %w", recipe.ID, err)
	}

	s.log.Debug("saved recipe %s (%q, %d steps)", recipe.ID, recipe.Title, len(recipe.Steps))
	return nil
}

// Delete removes a recipe by ID. Deleting the active recipe clears the
// active pointer.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting recipe %q: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recipe %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ? AND value = ?`, activeRecipeKey, id)
	if err != nil {
		return fmt.Errorf("clearing active recipe: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting recipe %q: %w", id, err)
	}
	s.log.Debug("deleted recipe %s", id)
	return nil
}

// ActiveID returns the selected recipe ID, or "" when none is selected.
func (s *SQLiteStore) ActiveID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, activeRecipeKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading active recipe: %w", err)
	}
	return id, nil
}

// SetActive selects a recipe. An empty id clears the selection.
func (s *SQLiteStore) SetActive(ctx context.Context, id string) error {
	if id == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, activeRecipeKey)
		if err != nil {
			return fmt.Errorf("clearing active recipe: %w", err)
		}
		return nil
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking recipe %q: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, activeRecipeKey, id)
	if err != nil {
		return fmt.Errorf("setting active recipe: %w", err)
	}
	return nil
}
