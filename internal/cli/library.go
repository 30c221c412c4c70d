package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/brewcue/internal/display"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/recipe"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recipes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := a.store.List(ctx)
			if err != nil {
				return err
			}
			active, err := a.store.ActiveID(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.RenderRecipeList(list, active))
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [recipe]",
		Short: "Show a recipe's ingredients and steps (default: the active recipe)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				r   *domain.Recipe
				err error
			)
			if len(args) == 1 {
				r, err = resolveRecipe(ctx, a.store, args[0])
			} else {
				r, err = activeRecipe(ctx, a.store)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.RenderRecipe(r))
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	var activate bool
	cmd := &cobra.Command{
		Use:   "import <file.yaml>...",
		Short: "Import recipes from YAML files",
		Long: `Import recipes from YAML files. A file may hold one recipe, a list of
recipes, or several YAML documents. A recipe whose id already exists replaces
the stored one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var last *domain.Recipe
			n := 0
			for _, path := range args {
				recipes, err := recipe.ReadFile(path)
				if err != nil {
					return err
				}
				for _, r := range recipes {
					if err := a.store.Save(ctx, r); err != nil {
						return fmt.Errorf("saving %q: %w", r.Title, err)
					}
					a.log.Info("imported recipe %s (%s)", r.ID, r.Title)
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", r.Title)
					last = r
					n++
				}
			}
			if activate && last != nil {
				if err := a.store.SetActive(ctx, last.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d recipe(s) imported.\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&activate, "activate", false, "make the last imported recipe the active one")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [recipe]...",
		Short: "Export recipes as YAML (default: all recipes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var recipes []*domain.Recipe
			if len(args) == 0 {
				list, err := a.store.List(ctx)
				if err != nil {
					return err
				}
				for _, s := range list {
					r, err := a.store.Get(ctx, s.ID)
					if err != nil {
						return err
					}
					recipes = append(recipes, r)
				}
			}
			for _, ref := range args {
				r, err := resolveRecipe(ctx, a.store, ref)
				if err != nil {
					return err
				}
				recipes = append(recipes, r)
			}
			if len(recipes) == 0 {
				return errors.New("no recipes to export")
			}

			if output == "" || output == "-" {
				return recipe.Encode(cmd.OutOrStdout(), recipes...)
			}
			if err := recipe.WriteFile(output, recipes...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d recipe(s) to %s\n", len(recipes), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <recipe>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := resolveRecipe(ctx, a.store, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Delete(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", r.Title)
			return nil
		},
	}
}

// stat reports whether path exists. Used for optional files.
func stat(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
