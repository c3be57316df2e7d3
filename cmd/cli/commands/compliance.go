package commands

import (
	"github.com/spf13/cobra"

	"github.com/halewood/schedulepulse/pkg/core/compliance"
)

// ComplianceCmd creates the compliance command, running the compliance
// engine alone.
func ComplianceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Check the schedule against labor rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceName, _ := cmd.Flags().GetString("source")

			source, err := app.Source(sourceName)
			if err != nil {
				return err
			}

			schedule, _, _, err := app.LoadRows(source)
			if err != nil {
				return err
			}

			report := compliance.Evaluate(schedule, app.Cfg.Options().Normalized(), app.Logger)
			return printJSON(report)
		},
	}

	cmd.Flags().String("source", "", "Schedule source (fixtures, postgres, sheets); defaults to the first configured")

	return cmd
}
