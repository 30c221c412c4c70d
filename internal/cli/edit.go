package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hammamikhairi/brewcue/internal/display"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/recipe"
)

const stepHelp = `Steps are written type[:seconds[:grams[:notes]]]. Leave seconds empty for a
manual step that waits for you, e.g. "bloom:45:60", "place-plunger",
"pour:30:200:Slow spiral". Custom step types are name[:amount][:time], e.g.
"rest:time" for a timed step with no amount.`

// recipeFlags are the fields both new and edit can set.
type recipeFlags struct {
	title, method, notes, unit string
	coffee, water, grind, temp float64
	steps, custom              []string
	activate                   bool
}

func (f *recipeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "recipe title")
	fs.StringVar(&f.method, "method", "", "brew method (see `brewcue methods`)")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
	fs.StringVar(&f.unit, "unit", "", "temperature unit, C or F")
	fs.Float64Var(&f.coffee, "coffee", 0, "coffee dose in grams")
	fs.Float64Var(&f.water, "water", 0, "water in grams")
	fs.Float64Var(&f.grind, "grind", 0, "grind setting")
	fs.Float64Var(&f.temp, "temp", 0, "water temperature")
	fs.StringArrayVar(&f.custom, "custom", nil, "add a custom step type (repeatable)")
	fs.BoolVar(&f.activate, "activate", false, "make the recipe the active one")
}

// apply copies the flags the user actually set onto the draft.
func (f *recipeFlags) apply(fs *pflag.FlagSet, d *recipe.Draft) error {
	if fs.Changed("title") {
		d.Title = f.title
	}
	if fs.Changed("method") {
		d.Method = matchMethod(f.method)
	}
	if fs.Changed("notes") {
		d.Notes = f.notes
	}
	if fs.Changed("unit") {
		d.Ingredients.TempUnit = domain.TempUnit(strings.ToUpper(f.unit))
	}
	if fs.Changed("coffee") {
		d.Ingredients.Coffee = f.coffee
	}
	if fs.Changed("water") {
		d.Ingredients.Water = f.water
	}
	if fs.Changed("grind") {
		d.Ingredients.Grind = f.grind
	}
	if fs.Changed("temp") {
		d.Ingredients.Temp = f.temp
	}
	for _, c := range f.custom {
		name, amount, timed := parseCustom(c)
		if _, err := d.AddCustomType(name, amount, timed); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) newCmd() *cobra.Command {
	var f recipeFlags
	var defaults bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a recipe",
		Long:  "Create a recipe from flags.\n\n" + stepHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := recipe.NewDraft()
			if err := f.apply(cmd.Flags(), d); err != nil {
				return err
			}
			if defaults && !d.ToggleDefaultSteps() {
				return fmt.Errorf("no starter steps for method %q", d.Method)
			}
			for _, spec := range f.steps {
				s, err := parseStep(spec)
				if err != nil {
					return err
				}
				if err := d.AddStep(s); err != nil {
					return err
				}
			}
			return a.saveDraft(cmd, d, f.activate)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringArrayVar(&f.steps, "step", nil, "append a step (repeatable)")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "start from the method's starter steps")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var f recipeFlags
	var (
		remove       []int
		moves        []string
		sets         []string
		removeCustom []string
	)
	cmd := &cobra.Command{
		Use:   "edit <recipe>",
		Short: "Edit a recipe",
		Long: `Edit a recipe. Step numbers are 1-based, as shown by ` + "`brewcue show`" + `.
Changes apply in this order: fields, custom types, --set-step, --remove-step,
--move, --step, --remove-custom.

` + stepHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveRecipe(cmd.Context(), a.store, args[0])
			if err != nil {
				return err
			}
			d := recipe.DraftFrom(r)
			if err := f.apply(cmd.Flags(), d); err != nil {
				return err
			}

			for _, set := range sets {
				n, spec, ok := strings.Cut(set, "=")
				if !ok {
					return fmt.Errorf("--set-step %q: want N=step", set)
				}
				i, err := strconv.Atoi(strings.TrimSpace(n))
				if err != nil {
					return fmt.Errorf("--set-step %q: %w", set, err)
				}
				s, err := parseStep(spec)
				if err != nil {
					return err
				}
				if err := d.UpdateStep(i-1, s); err != nil {
					return err
				}
			}

			// Highest first so earlier removals don't shift later ones.
			sort.Sort(sort.Reverse(sort.IntSlice(remove)))
			for _, n := range remove {
				if err := d.RemoveStep(n - 1); err != nil {
					return err
				}
			}

			for _, mv := range moves {
				from, to, err := parseMove(mv)
				if err != nil {
					return err
				}
				if err := d.MoveStep(from-1, to-1); err != nil {
					return err
				}
			}

			for _, spec := range f.steps {
				s, err := parseStep(spec)
				if err != nil {
					return err
				}
				if err := d.AddStep(s); err != nil {
					return err
				}
			}

			for _, name := range removeCustom {
				if err := d.RemoveCustomType(name); err != nil {
					return err
				}
			}
			return a.saveDraft(cmd, d, f.activate)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringArrayVar(&f.steps, "step", nil, "append a step (repeatable)")
	cmd.Flags().IntSliceVar(&remove, "remove-step", nil, "remove step N (repeatable)")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "move a step, FROM:TO (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set-step", nil, "replace step N, N=step (repeatable)")
	cmd.Flags().StringArrayVar(&removeCustom, "remove-custom", nil, "remove an unused custom step type (repeatable)")
	return cmd
}

func (a *app) saveDraft(cmd *cobra.Command, d *recipe.Draft, activate bool) error {
	ctx := cmd.Context()
	r, err := d.Build()
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, r); err != nil {
		return err
	}
	if activate {
		if err := a.store.SetActive(ctx, r.ID); err != nil {
			return err
		}
	}
	a.log.Info("saved recipe %s (%s)", r.ID, r.Title)
	fmt.Fprint(cmd.OutOrStdout(), display.RenderRecipe(r))
	return nil
}

// parseStep reads type[:seconds[:grams[:notes]]].
func parseStep(spec string) (domain.BrewingStep, error) {
	parts := strings.SplitN(spec, ":", 4)
	s := domain.BrewingStep{Type: domain.StepType(recipe.Slug(parts[0]))}
	if s.Type == "" {
		return s, fmt.Errorf("step %q: missing type: %w", spec, domain.ErrInvalidRecipe)
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		secs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return s, fmt.Errorf("step %q: seconds: %w", spec, err)
		}
		s.Time = domain.Seconds(secs)
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		g, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return s, fmt.Errorf("step %q: grams: %w", spec, err)
		}
		s.Amount = domain.Grams(g)
	}
	if len(parts) > 3 {
		s.Notes = strings.TrimSpace(parts[3])
	}
	return s, nil
}

// parseCustom reads name[:amount][:time].
func parseCustom(spec string) (name string, amount, timed bool) {
	parts := strings.Split(spec, ":")
	for _, p := range parts[1:] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "amount":
			amount = true
		case "time":
			timed = true
		}
	}
	return parts[0], amount, timed
}

func parseMove(spec string) (from, to int, err error) {
	f, t, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("--move %q: want FROM:TO", spec)
	}
	if from, err = strconv.Atoi(strings.TrimSpace(f)); err != nil {
		return 0, 0, fmt.Errorf("--move %q: %w", spec, err)
	}
	if to, err = strconv.Atoi(strings.TrimSpace(t)); err != nil {
		return 0, 0, fmt.Errorf("--move %q: %w", spec, err)
	}
	return from, to, nil
}
