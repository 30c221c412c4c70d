package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"gopkg.in/yaml.v3"
)

// Decode reads recipes from YAML. Each document holds either one recipe or
// a list of them. Recipes without an ID get a fresh UUID and every recipe is
// validated.
func Decode(r io.Reader) ([]*domain.Recipe, error) {
	dec := yaml.NewDecoder(r)

	var out []*domain.Recipe
	for doc := 1; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document %d: %w", doc, err)
		}
		if len(node.Content) == 0 {
			continue
		}

		root := node.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var list []*domain.Recipe
			if err := root.Decode(&list); err != nil {
				return nil, fmt.Errorf("decoding document %d: %w", doc, err)
			}
			out = append(out, list...)
		case yaml.MappingNode:
			var rec domain.Recipe
			if err := root.Decode(&rec); err != nil {
				return nil, fmt.Errorf("decoding document %d: %w", doc, err)
			}
			out = append(out, &rec)
		default:
			return nil, fmt.Errorf("document %d is not a recipe or list of recipes: %w", doc, domain.ErrInvalidRecipe)
		}
	}

	for _, rec := range out {
		if rec == nil {
			return nil, fmt.Errorf("empty recipe entry: %w", domain.ErrInvalidRecipe)
		}
		normalize(rec)
		if err := Validate(rec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Encode writes recipes as YAML: a single mapping for one recipe, a list
// otherwise.
func Encode(w io.Writer, recipes ...*domain.Recipe) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	var v any = recipes
	if len(recipes) == 1 {
		v = recipes[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding recipes: %w", err)
	}
	return enc.Close()
}

// ReadFile decodes the recipes in path.
func ReadFile(path string) ([]*domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	recipes, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recipes, nil
}

// WriteFile encodes recipes to path, replacing it.
func WriteFile(path string, recipes ...*domain.Recipe) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(f, recipes...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func normalize(r *domain.Recipe) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Name == "" {
		r.Name = Slug(r.Title)
	}
	if r.Ingredients.TempUnit == "" {
		r.Ingredients.TempUnit = domain.Celsius
	}
	r.Ingredients.Time = r.TotalTime()
}
