package sheetsclient

import (
	"context"
	"fmt"

	"github.com/halewood/schedulepulse/internal/config"
	"github.com/halewood/schedulepulse/pkg/db"
)

// Source reads schedule, demand and profile rows from spreadsheet tabs.
// The first row of each tab is treated as the header row; subsequent rows
// are zipped against it.
type Source struct {
	client *Client
	cfg    *config.SheetsSource
}

// NewSource creates a source backed by the given client and tab layout.
func NewSource(client *Client, cfg *config.SheetsSource) *Source {
	return &Source{client: client, cfg: cfg}
}

// ScheduleRows reads the schedule tab.
func (s *Source) ScheduleRows(ctx context.Context) ([]db.RawRow, error) {
	return s.readTab(ctx, s.cfg.ScheduleTab)
}

// DemandRows reads the demand tab.
func (s *Source) DemandRows(ctx context.Context) ([]db.RawRow, error) {
	return s.readTab(ctx, s.cfg.DemandTab)
}

// AgentProfiles reads the profiles tab if one is configured.
func (s *Source) AgentProfiles(ctx context.Context) ([]db.RawRow, error) {
	if s.cfg.ProfilesTab == "" {
		return nil, nil
	}
	return s.readTab(ctx, s.cfg.ProfilesTab)
}

func (s *Source) readTab(ctx context.Context, tab string) ([]db.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, err := s.client.GetValues(s.cfg.SpreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %q: %w", tab, err)
	}

	return zipRows(values), nil
}

// zipRows pairs each data row against the header row. Cells beyond the
// header width and fully empty rows are dropped.
func zipRows(values [][]interface{}) []db.RawRow {
	if len(values) < 2 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = fmt.Sprintf("%v", h)
	}

	rows := make([]db.RawRow, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := make(db.RawRow, len(headers))
		for i, cell := range cells {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			row[headers[i]] = cell
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows
}
