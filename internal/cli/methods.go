package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/brewcue/internal/progress"
	"github.com/hammamikhairi/brewcue/internal/recipe"
)

func (a *app) methodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods [method]",
		Short: "List brew methods, or the actions and starter steps of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, m := range recipe.CommonMethods {
					fmt.Fprintln(out, m)
				}
				return nil
			}

			method := matchMethod(args[0])
			if !recipe.IsCommonMethod(method) {
				fmt.Fprintf(out, "%s is not a listed method; every step type applies.\n", method)
			}
			labels := []string{}
			for _, t := range recipe.Actions(method, nil) {
				labels = append(labels, fmt.Sprintf("%s (%s)", progress.StepLabel(nil, t), t))
			}
			fmt.Fprintf(out, "%s actions: %s\n", method, strings.Join(labels, ", "))

			steps, ok := recipe.DefaultSteps(method)
			if !ok {
				fmt.Fprintln(out, "No starter steps for this method.")
				return nil
			}
			fmt.Fprintln(out, "Starter steps:")
			for i, s := range steps {
				clock := "manual"
				if !s.IsPause() {
					clock = progress.FormatTime(*s.Time)
				}
				fmt.Fprintf(out, "%2d. %-14s %-6s %s\n", i+1, progress.StepLabel(nil, s.Type), clock, progress.Instruction(s))
			}
			return nil
		},
	}
}

// matchMethod maps user input onto a common method name, case-insensitively.
// Unknown input is returned as typed.
func matchMethod(in string) string {
	in = strings.TrimSpace(in)
	for _, m := range recipe.CommonMethods {
		if strings.EqualFold(m, in) || recipe.Slug(m) == recipe.Slug(in) {
			return m
		}
	}
	return in
}
