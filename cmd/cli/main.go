package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/cmd/cli/commands"
	"github.com/halewood/schedulepulse/internal/config"
	"github.com/halewood/schedulepulse/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedulepulse",
		Short: "SchedulePulse - Workforce schedule health analytics",
		Long:  `A CLI tool that evaluates workforce schedules against demand forecasts, producing coverage, fairness and compliance reports with a composite health score.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.EvaluateCmd(appRef()))
	rootCmd.AddCommand(commands.CoverageCmd(appRef()))
	rootCmd.AddCommand(commands.FairnessCmd(appRef()))
	rootCmd.AddCommand(commands.ComplianceCmd(appRef()))
	rootCmd.AddCommand(commands.MigrateCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared context struct; its fields are populated by
// initApp before any RunE fires.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger and config; data sources are resolved lazily by
// the commands that need them.
func initApp() error {
	var err error
	a := appRef()
	a.Ctx = context.Background()
	a.Env = env

	// Initialize logger
	a.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	a.Logger.Info("Loading configuration")
	a.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	return nil
}
