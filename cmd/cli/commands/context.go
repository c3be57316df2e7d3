package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/internal/config"
	"github.com/halewood/schedulepulse/pkg/clients/sheetsclient"
	"github.com/halewood/schedulepulse/pkg/core/model"
	"github.com/halewood/schedulepulse/pkg/db"
	"github.com/halewood/schedulepulse/pkg/ingest"
	"github.com/halewood/schedulepulse/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
	Env    string

	// database is opened lazily; commands that run on fixtures or sheets
	// never touch it
	database *postgres.DB
}

// Close releases held connections.
func (app *AppContext) Close() {
	if app.database != nil {
		app.database.Close()
		app.database = nil
	}
}

// Source resolves the configured schedule source. The explicit name wins;
// with an empty name the first configured source is used, preferring
// fixtures, then postgres, then sheets.
func (app *AppContext) Source(name string) (db.ScheduleSource, error) {
	if name == "" {
		switch {
		case app.Cfg.Fixtures != nil:
			name = "fixtures"
		case app.Cfg.Postgres != nil:
			name = "postgres"
		case app.Cfg.Sheets != nil:
			name = "sheets"
		default:
			return nil, fmt.Errorf("no schedule source configured: set fixtures, postgres or sheets in the config file")
		}
	}

	switch name {
	case "fixtures":
		if app.Cfg.Fixtures == nil {
			return nil, fmt.Errorf("fixtures source requested but not configured")
		}
		store, err := db.NewFixtureStore(app.Cfg.Fixtures.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil

	case "postgres":
		database, err := app.Database()
		if err != nil {
			return nil, err
		}
		return database, nil

	case "sheets":
		if app.Cfg.Sheets == nil {
			return nil, fmt.Errorf("sheets source requested but not configured")
		}
		oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return sheetsclient.NewSource(client, app.Cfg.Sheets), nil

	default:
		return nil, fmt.Errorf("unknown source %q: expected fixtures, postgres or sheets", name)
	}
}

// Database opens (once) the configured PostgreSQL store.
func (app *AppContext) Database() (*postgres.DB, error) {
	if app.database != nil {
		return app.database, nil
	}
	if app.Cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres source requested but not configured")
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	app.database = database
	return database, nil
}

// LoadRows pulls raw records from the source and reconciles them into
// canonical rows, expanding recurring demand across the schedule window.
func (app *AppContext) LoadRows(source db.ScheduleSource) ([]model.ScheduleRow, []model.DemandRow, []model.AgentProfile, error) {
	rawSchedule, err := source.ScheduleRows(app.Ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load schedule rows: %w", err)
	}
	rawDemand, err := source.DemandRows(app.Ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load demand rows: %w", err)
	}
	rawProfiles, err := source.AgentProfiles(app.Ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load agent profiles: %w", err)
	}

	schedule := ingest.ScheduleRows(rawSchedule, app.Logger)
	demand := ingest.DemandRows(rawDemand, app.Logger)
	profiles := ingest.AgentProfiles(rawProfiles, app.Logger)

	if from, to, ok := ingest.ScheduleWindow(schedule); ok {
		// Widen the window by a day so recurrences touching the edges of
		// overnight shifts still land
		demand = ingest.ExpandRecurrences(demand, from, to.Add(24*time.Hour), app.Logger)
	}

	app.Logger.Info("Rows loaded",
		zap.Int("schedule_rows", len(schedule)),
		zap.Int("demand_rows", len(demand)),
		zap.Int("agent_profiles", len(profiles)))

	return schedule, demand, profiles, nil
}
