package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/halewood/schedulepulse/pkg/db"
)

// ScheduleRows retrieves all schedule assignments as raw rows for
// ingestion.
func (d *DB) ScheduleRows(ctx context.Context) ([]db.RawRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT agent_id, agent_name, shift_date, start_minutes, end_minutes,
		       breaks, skill, campaign, location, fte
		FROM schedule_row
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule rows: %w", err)
	}
	defer rows.Close()

	var out []db.RawRow
	for rows.Next() {
		var (
			agentID                  string
			agentName                *string
			shiftDate                time.Time
			startMinutes, endMinutes int
			breaksJSON               []byte
			skill, campaign, loc     *string
			fte                      float64
		)
		if err := rows.Scan(&agentID, &agentName, &shiftDate, &startMinutes, &endMinutes,
			&breaksJSON, &skill, &campaign, &loc, &fte); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}

		var breaks []map[string]any
		if len(breaksJSON) > 0 {
			if err := json.Unmarshal(breaksJSON, &breaks); err != nil {
				return nil, fmt.Errorf("failed to parse breaks for agent %s: %w", agentID, err)
			}
		}

		row := db.RawRow{
			"agentId":      agentID,
			"date":         shiftDate,
			"startMinutes": startMinutes,
			"endMinutes":   endMinutes,
			"breaks":       breaks,
			"fte":          fte,
		}
		if agentName != nil {
			row["agentName"] = *agentName
		}
		if skill != nil {
			row["skill"] = *skill
		}
		if campaign != nil {
			row["campaign"] = *campaign
		}
		if loc != nil {
			row["location"] = *loc
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return out, nil
}

// DemandRows retrieves all forecast intervals as raw rows for ingestion.
func (d *DB) DemandRows(ctx context.Context) ([]db.RawRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT campaign, skill, forecast_date, start_minutes, end_minutes,
		       contacts, aht_seconds, shrinkage, required_fte, recurrence
		FROM demand_row
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand rows: %w", err)
	}
	defer rows.Close()

	var out []db.RawRow
	for rows.Next() {
		var (
			campaign, skill, recurrence *string
			forecastDate                time.Time
			startMinutes                int
			endMinutes                  *int
			contacts, aht, shrinkage    float64
			requiredFTE                 *float64
		)
		if err := rows.Scan(&campaign, &skill, &forecastDate, &startMinutes, &endMinutes,
			&contacts, &aht, &shrinkage, &requiredFTE, &recurrence); err != nil {
			return nil, fmt.Errorf("failed to scan demand row: %w", err)
		}

		row := db.RawRow{
			"date":         forecastDate,
			"startMinutes": startMinutes,
			"contacts":     contacts,
			"ahtSeconds":   aht,
			"shrinkage":    shrinkage,
		}
		if endMinutes != nil {
			row["endMinutes"] = *endMinutes
		}
		if requiredFTE != nil {
			row["requiredFte"] = *requiredFTE
		}
		if campaign != nil {
			row["campaign"] = *campaign
		}
		if skill != nil {
			row["skill"] = *skill
		}
		if recurrence != nil {
			row["recurrence"] = *recurrence
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demand rows: %w", err)
	}

	return out, nil
}

// AgentProfiles retrieves all agent preference profiles as raw rows.
func (d *DB) AgentProfiles(ctx context.Context) ([]db.RawRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT agent_id, name, preference_notes
		FROM agent_profile
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent profiles: %w", err)
	}
	defer rows.Close()

	var out []db.RawRow
	for rows.Next() {
		var agentID string
		var name, notes *string
		if err := rows.Scan(&agentID, &name, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan agent profile: %w", err)
		}

		row := db.RawRow{"agentId": agentID}
		if name != nil {
			row["name"] = *name
		}
		if notes != nil {
			row["preferences"] = *notes
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent profiles: %w", err)
	}

	return out, nil
}
