package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
	"github.com/halewood/schedulepulse/pkg/db"
)

func TestScheduleRowsFromFixtureShape(t *testing.T) {
	raw := []db.RawRow{
		{
			"agentId":      "a1",
			"agentName":    "Priya",
			"date":         "2024-01-02",
			"startMinutes": float64(540),
			"endMinutes":   float64(1020),
			"breaks": []any{
				map[string]any{"startMinutes": float64(720), "endMinutes": float64(750)},
			},
			"fte":   float64(0.5),
			"skill": "billing",
		},
	}

	rows := ScheduleRows(raw, zap.NewNop())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "a1", row.AgentID)
	assert.Equal(t, "Priya", row.AgentName)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), row.Date)
	assert.Equal(t, 540, row.StartMinutes)
	assert.Equal(t, 1020, row.EndMinutes)
	assert.Equal(t, 0.5, row.FTE)
	assert.Equal(t, "billing", row.Skill)
	require.Len(t, row.Breaks, 1)
	assert.Equal(t, model.BreakWindow{StartMinutes: 720, EndMinutes: 750}, row.Breaks[0])
}

func TestScheduleRowsFromSpreadsheetShape(t *testing.T) {
	// Serial 45293 is 2024-01-02; times arrive as 12-hour strings and
	// breaks as compact text.
	raw := []db.RawRow{
		{
			"agent":     "a2",
			"date":      float64(45293),
			"startTime": "9:00 AM",
			"endTime":   "5:00 PM",
			"breaks":    "12:00-12:30; 15:00-15:15",
		},
	}

	rows := ScheduleRows(raw, zap.NewNop())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "a2", row.AgentID)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), row.Date)
	assert.Equal(t, 540, row.StartMinutes)
	assert.Equal(t, 1020, row.EndMinutes)
	assert.Equal(t, 1.0, row.FTE, "missing FTE defaults to a full agent")
	require.Len(t, row.Breaks, 2)
	assert.Equal(t, model.BreakWindow{StartMinutes: 720, EndMinutes: 750}, row.Breaks[0])
	assert.Equal(t, model.BreakWindow{StartMinutes: 900, EndMinutes: 915}, row.Breaks[1])
}

func TestScheduleRowsSkipsUnparseable(t *testing.T) {
	raw := []db.RawRow{
		{"date": "2024-01-02", "startTime": "9:00", "endTime": "17:00"}, // no agent
		{"agentId": "a1", "date": "not a date", "startTime": "9:00", "endTime": "17:00"},
		{"agentId": "a2", "date": "2024-01-02", "startTime": "9:00", "endTime": "17:00"},
	}

	rows := ScheduleRows(raw, zap.NewNop())
	require.Len(t, rows, 1)
	assert.Equal(t, "a2", rows[0].AgentID)
}

func TestDemandRowsDefaultsToSingleBucket(t *testing.T) {
	raw := []db.RawRow{
		{
			"date":         "2024-01-02",
			"startMinutes": float64(540),
			"contacts":     float64(24),
			"ahtSeconds":   float64(300),
			"shrinkage":    float64(0.3),
		},
		{
			"date":         "2024-01-02",
			"startMinutes": float64(600),
			"endMinutes":   float64(720),
			"requiredFte":  float64(6),
			"recurrence":   "FREQ=WEEKLY;BYDAY=TU",
		},
	}

	rows := DemandRows(raw, zap.NewNop())
	require.Len(t, rows, 2)

	assert.Equal(t, -1, rows[0].EndMinutes, "missing end means a single bucket")
	assert.Equal(t, 24.0, rows[0].Contacts)
	assert.Equal(t, 300.0, rows[0].AHTSeconds)
	assert.Equal(t, 0.3, rows[0].Shrinkage)

	assert.Equal(t, 720, rows[1].EndMinutes)
	assert.Equal(t, 6.0, rows[1].RequiredFTE)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=TU", rows[1].Recurrence)
}

func TestAgentProfiles(t *testing.T) {
	raw := []db.RawRow{
		{"agentId": "a1", "name": "Priya", "preferences": "no weekends"},
		{"name": "nobody"}, // no ID, skipped
	}

	profiles := AgentProfiles(raw, zap.NewNop())
	require.Len(t, profiles, 1)
	assert.Equal(t, "a1", profiles[0].AgentID)
	assert.Equal(t, "Priya", profiles[0].Name)
	assert.Equal(t, "no weekends", profiles[0].PreferenceNotes)
}

func TestExpandRecurrences(t *testing.T) {
	demand := []model.DemandRow{
		{
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			StartMinutes: 540,
			EndMinutes:   600,
			RequiredFTE:  4,
			Recurrence:   "FREQ=DAILY;COUNT=3",
		},
		{
			Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			StartMinutes: 660,
			EndMinutes:   720,
			RequiredFTE:  2,
		},
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	out := ExpandRecurrences(demand, from, to, zap.NewNop())

	require.Len(t, out, 4, "three daily occurrences plus the plain row")
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), out[0].Date)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), out[1].Date)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), out[2].Date)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), out[3].Date)

	for _, row := range out {
		assert.Empty(t, row.Recurrence, "replicas carry no rule")
	}
}

func TestExpandRecurrencesDropsInvalidRule(t *testing.T) {
	demand := []model.DemandRow{
		{
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			StartMinutes: 540,
			Recurrence:   "FREQ=NONSENSE",
		},
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	out := ExpandRecurrences(demand, from, to, zap.NewNop())
	assert.Empty(t, out)
}

func TestScheduleWindow(t *testing.T) {
	schedule := []model.ScheduleRow{
		{AgentID: "a1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{AgentID: "a2", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{AgentID: "a3", Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)},
	}

	from, to, ok := ScheduleWindow(schedule)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), to)

	_, _, ok = ScheduleWindow(nil)
	assert.False(t, ok)
}
