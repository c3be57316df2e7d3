package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{
			IntervalMinutes: 15,
			MaxHoursPerDay:  10,
		},
		Fixtures: &FixtureSource{Dir: "testdata"},
		DemandRecurrences: []DemandRecurrence{
			{RRule: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"},
		},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	err := Validate(&Config{})
	assert.NoError(t, err)
}

func TestValidate_InvalidEngineOverride(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{IntervalMinutes: -10},
	}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		DemandRecurrences: []DemandRecurrence{{RRule: "FREQ=NONSENSE"}},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demandRecurrences[0]")
}

func TestValidate_SheetsSourceRequiresTabs(t *testing.T) {
	cfg := &Config{
		Sheets: &SheetsSource{SpreadsheetID: "sheet123"},
	}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedulepulse.yaml")

	content := `
engine:
  intervalMinutes: 15
  minRestHours: 11
  maxConsecutiveDays: 5
sheets:
  spreadsheetID: sheet123
  scheduleTab: Schedule
  demandTab: Forecast
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Engine.IntervalMinutes)
	assert.Equal(t, 11.0, cfg.Engine.MinRestHours)
	require.NotNil(t, cfg.Sheets)
	assert.Equal(t, "Forecast", cfg.Sheets.DemandTab)

	opts := cfg.Options()
	assert.Equal(t, 15, opts.IntervalMinutes)
	assert.Equal(t, 11.0, opts.MinRestHours)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromPath_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: ["), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}
