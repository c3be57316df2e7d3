package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// EngineConfig overrides the evaluation engine defaults. Zero-valued
// fields keep the built-in defaults.
type EngineConfig struct {
	IntervalMinutes    int     `yaml:"intervalMinutes,omitempty" validate:"omitempty,gt=0"`
	BreakBufferMinutes int     `yaml:"breakBufferMinutes,omitempty" validate:"omitempty,gte=0"`
	PeakWindowWeight   float64 `yaml:"peakWindowWeight,omitempty" validate:"omitempty,gte=1"`
	OpeningHour        int     `yaml:"openingHour,omitempty" validate:"omitempty,gte=0,lte=23"`
	ClosingHour        int     `yaml:"closingHour,omitempty" validate:"omitempty,gte=1,lte=24"`
	BaselineASASeconds float64 `yaml:"baselineAsaSeconds,omitempty" validate:"omitempty,gt=0"`
	TargetServiceLevel float64 `yaml:"targetServiceLevel,omitempty" validate:"omitempty,gt=0,lte=1"`

	MaxHoursPerDay      float64 `yaml:"maxHoursPerDay,omitempty" validate:"omitempty,gt=0"`
	MinRestHours        float64 `yaml:"minRestHours,omitempty" validate:"omitempty,gt=0"`
	MaxConsecutiveDays  int     `yaml:"maxConsecutiveDays,omitempty" validate:"omitempty,gt=0"`
	AllowedBreakOverlap int     `yaml:"allowedBreakOverlap,omitempty" validate:"omitempty,gte=0"`

	CoverageWeight   float64 `yaml:"coverageWeight,omitempty" validate:"omitempty,gte=0"`
	FairnessWeight   float64 `yaml:"fairnessWeight,omitempty" validate:"omitempty,gte=0"`
	ComplianceWeight float64 `yaml:"complianceWeight,omitempty" validate:"omitempty,gte=0"`
	PreferenceWeight float64 `yaml:"preferenceWeight,omitempty" validate:"omitempty,gte=0"`
}

// SheetsSource points at the spreadsheet tabs holding schedule and demand
// exports.
type SheetsSource struct {
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required"`
	ScheduleTab   string `yaml:"scheduleTab" validate:"required"`
	DemandTab     string `yaml:"demandTab" validate:"required"`
	ProfilesTab   string `yaml:"profilesTab,omitempty"`
}

// PostgresSource points at the database holding schedule and demand rows.
type PostgresSource struct {
	URL string `yaml:"url" validate:"required"`
}

// FixtureSource points at a directory of JSON fixture files
// (schedule.json, demand.json, profiles.json).
type FixtureSource struct {
	Dir string `yaml:"dir" validate:"required"`
}

// DemandRecurrence replicates a recurring forecast pattern across the
// evaluation window before expansion.
type DemandRecurrence struct {
	RRule string `yaml:"rrule" validate:"required"`
}

// Config represents the application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine,omitempty"`

	Sheets   *SheetsSource   `yaml:"sheets,omitempty"`
	Postgres *PostgresSource `yaml:"postgres,omitempty"`
	Fixtures *FixtureSource  `yaml:"fixtures,omitempty"`

	DemandRecurrences []DemandRecurrence `yaml:"demandRecurrences,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from schedulepulse.yaml,
// looking in the current directory first, then in the user's home
// directory.
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix, e.g.
// env="test" looks for "schedulepulse.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, including rrule syntax for
// demand recurrences.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rec := range cfg.DemandRecurrences {
		if _, err := rrule.StrToRRule(rec.RRule); err != nil {
			return fmt.Errorf("invalid rrule in demandRecurrences[%d]: %w", i, err)
		}
	}

	return nil
}

// Options converts the engine overrides to engine options; unset fields
// take their defaults inside the engine.
func (c *Config) Options() model.Options {
	e := c.Engine
	return model.Options{
		IntervalMinutes:     e.IntervalMinutes,
		BreakBufferMinutes:  e.BreakBufferMinutes,
		PeakWindowWeight:    e.PeakWindowWeight,
		OpeningHour:         e.OpeningHour,
		ClosingHour:         e.ClosingHour,
		BaselineASASeconds:  e.BaselineASASeconds,
		TargetServiceLevel:  e.TargetServiceLevel,
		MaxHoursPerDay:      e.MaxHoursPerDay,
		MinRestHours:        e.MinRestHours,
		MaxConsecutiveDays:  e.MaxConsecutiveDays,
		AllowedBreakOverlap: e.AllowedBreakOverlap,
		CoverageWeight:      e.CoverageWeight,
		FairnessWeight:      e.FairnessWeight,
		ComplianceWeight:    e.ComplianceWeight,
		PreferenceWeight:    e.PreferenceWeight,
	}
}

// findConfigFile searches for the config file in the current directory and
// home directory.
func findConfigFile(env string) (string, error) {
	configFileName := "schedulepulse.yaml"
	if env != "" {
		configFileName = "schedulepulse." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
