package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/health"
)

// EvaluateCmd creates the evaluate command, the full three-engine run.
func EvaluateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate schedule health against demand",
		Long:  "Run the coverage, fairness and compliance engines over the configured source and produce a composite health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceName, _ := cmd.Flags().GetString("source")
			outPath, _ := cmd.Flags().GetString("out")
			asJSON, _ := cmd.Flags().GetBool("json")
			save, _ := cmd.Flags().GetBool("save")

			app.Logger.Debug("evaluate command",
				zap.String("source", sourceName),
				zap.Bool("save", save))

			source, err := app.Source(sourceName)
			if err != nil {
				return err
			}

			schedule, demand, profiles, err := app.LoadRows(source)
			if err != nil {
				return err
			}

			report, err := health.EvaluateSchedule(app.Ctx, schedule, demand, profiles, app.Cfg.Options(), app.Logger)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			if outPath != "" {
				body, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				if err := os.WriteFile(outPath, body, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				app.Logger.Info("Report written", zap.String("path", outPath))
			}

			if save {
				database, err := app.Database()
				if err != nil {
					return err
				}
				if err := database.SaveReport(app.Ctx, report); err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				app.Logger.Info("Report saved", zap.String("report_id", report.ID))
			}

			if asJSON {
				return printJSON(report)
			}

			printHealthSummary(report)
			return nil
		},
	}

	cmd.Flags().String("source", "", "Schedule source (fixtures, postgres, sheets); defaults to the first configured")
	cmd.Flags().String("out", "", "Write the full JSON report to this path")
	cmd.Flags().Bool("json", false, "Print the full JSON report instead of the summary")
	cmd.Flags().Bool("save", false, "Persist the report to the configured postgres store")

	return cmd
}

func printJSON(v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(body))
	return nil
}
