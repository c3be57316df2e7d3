package commands

import (
	"github.com/spf13/cobra"

	"github.com/halewood/schedulepulse/pkg/core/coverage"
)

// CoverageCmd creates the coverage command, running the coverage engine
// alone.
func CoverageCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Evaluate interval coverage against demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceName, _ := cmd.Flags().GetString("source")

			source, err := app.Source(sourceName)
			if err != nil {
				return err
			}

			schedule, demand, _, err := app.LoadRows(source)
			if err != nil {
				return err
			}

			report := coverage.Evaluate(schedule, demand, app.Cfg.Options().Normalized(), app.Logger)
			return printJSON(report)
		},
	}

	cmd.Flags().String("source", "", "Schedule source (fixtures, postgres, sheets); defaults to the first configured")

	return cmd
}
