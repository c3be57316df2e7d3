package commands

import (
	"github.com/spf13/cobra"

	"github.com/halewood/schedulepulse/pkg/core/fairness"
)

// FairnessCmd creates the fairness command, running the fairness engine
// alone.
func FairnessCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fairness",
		Short: "Evaluate shift distribution fairness and preference satisfaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceName, _ := cmd.Flags().GetString("source")

			source, err := app.Source(sourceName)
			if err != nil {
				return err
			}

			schedule, _, profiles, err := app.LoadRows(source)
			if err != nil {
				return err
			}

			report := fairness.Evaluate(schedule, profiles, app.Cfg.Options().Normalized(), app.Logger)
			return printJSON(report)
		},
	}

	cmd.Flags().String("source", "", "Schedule source (fixtures, postgres, sheets); defaults to the first configured")

	return cmd
}
