package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FixtureStore is a ScheduleSource backed by JSON files in a directory:
// schedule.json, demand.json and profiles.json, each an array of objects.
// It exists for local evaluation runs and tests; production rows come from
// the sheets or postgres sources.
type FixtureStore struct {
	dir string
}

// NewFixtureStore creates a fixture store rooted at dir.
func NewFixtureStore(dir string) (*FixtureStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture path %s is not a directory", dir)
	}
	return &FixtureStore{dir: dir}, nil
}

func (s *FixtureStore) ScheduleRows(ctx context.Context) ([]RawRow, error) {
	return s.readRows("schedule.json")
}

func (s *FixtureStore) DemandRows(ctx context.Context) ([]RawRow, error) {
	return s.readRows("demand.json")
}

// AgentProfiles returns no rows when profiles.json is absent; preference
// data is optional.
func (s *FixtureStore) AgentProfiles(ctx context.Context) ([]RawRow, error) {
	path := filepath.Join(s.dir, "profiles.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return s.readRows("profiles.json")
}

func (s *FixtureStore) readRows(name string) ([]RawRow, error) {
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var rows []RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return rows, nil
}
