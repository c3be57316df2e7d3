// Package ingest reconciles raw source records into canonical rows. Exports
// disagree on column names ("agentId" vs "employee_id") and on value shapes
// (serial dates, "9:00 AM" strings); this package absorbs those differences
// so the engines only ever see canonical rows. Rows that cannot be
// interpreted are skipped with a warning, never fatal.
package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
	"github.com/halewood/schedulepulse/pkg/core/timeutil"
	"github.com/halewood/schedulepulse/pkg/db"
)

// Column aliases, tried in order. First match wins.
var (
	agentIDKeys   = []string{"agentId", "agent_id", "agentID", "agent", "employeeId", "employee_id"}
	agentNameKeys = []string{"agentName", "agent_name", "name", "employeeName"}
	dateKeys      = []string{"date", "shiftDate", "shift_date", "forecastDate", "forecast_date", "day"}
	startKeys     = []string{"startMinutes", "start_minutes", "startTime", "start_time", "start", "shiftStart", "scheduleStart", "intervalStart", "interval_start"}
	endKeys       = []string{"endMinutes", "end_minutes", "endTime", "end_time", "end", "shiftEnd", "scheduleEnd"}
	breaksKeys    = []string{"breaks", "breakWindows", "break_windows"}
	fteKeys       = []string{"fte", "FTE", "staffingWeight"}
	skillKeys     = []string{"skill", "skillGroup", "queue"}
	campaignKeys  = []string{"campaign", "program", "lineOfBusiness"}
	locationKeys  = []string{"location", "site", "office"}

	contactsKeys    = []string{"contacts", "volume", "forecastContacts", "calls"}
	ahtKeys         = []string{"ahtSeconds", "aht_seconds", "aht", "handleTime"}
	shrinkageKeys   = []string{"shrinkage", "shrink"}
	requiredFTEKeys = []string{"requiredFte", "requiredFTE", "required_fte", "required"}
	recurrenceKeys  = []string{"recurrence", "rrule", "repeat"}

	preferenceKeys = []string{"preferences", "preferenceNotes", "preference_notes", "notes"}
)

// ScheduleRows converts raw schedule records to canonical rows. Records
// missing an agent ID, a parseable date or parseable shift times are
// dropped with a warning.
func ScheduleRows(raw []db.RawRow, logger *zap.Logger) []model.ScheduleRow {
	out := make([]model.ScheduleRow, 0, len(raw))
	for i, rec := range raw {
		row, ok := scheduleRow(rec)
		if !ok {
			logger.Warn("skipping unparseable schedule row", zap.Int("row", i))
			continue
		}
		out = append(out, row)
	}
	return out
}

// DemandRows converts raw forecast records to canonical rows. Records
// missing a parseable date or start time are dropped with a warning.
func DemandRows(raw []db.RawRow, logger *zap.Logger) []model.DemandRow {
	out := make([]model.DemandRow, 0, len(raw))
	for i, rec := range raw {
		row, ok := demandRow(rec)
		if !ok {
			logger.Warn("skipping unparseable demand row", zap.Int("row", i))
			continue
		}
		out = append(out, row)
	}
	return out
}

// AgentProfiles converts raw profile records. Records without an agent ID
// are dropped with a warning.
func AgentProfiles(raw []db.RawRow, logger *zap.Logger) []model.AgentProfile {
	out := make([]model.AgentProfile, 0, len(raw))
	for i, rec := range raw {
		id := stringField(rec, agentIDKeys)
		if id == "" {
			logger.Warn("skipping agent profile without an ID", zap.Int("row", i))
			continue
		}
		out = append(out, model.AgentProfile{
			AgentID:         id,
			Name:            stringField(rec, agentNameKeys),
			PreferenceNotes: stringField(rec, preferenceKeys),
		})
	}
	return out
}

// ExpandRecurrences replicates each recurring demand row across the dates
// its rule yields inside [from, to]. The replicas carry the original row's
// times and volumes; non-recurring rows pass through untouched. Rules that
// fail to parse drop the row with a warning rather than aborting the run.
func ExpandRecurrences(demand []model.DemandRow, from, to time.Time, logger *zap.Logger) []model.DemandRow {
	out := make([]model.DemandRow, 0, len(demand))
	for _, row := range demand {
		if row.Recurrence == "" {
			out = append(out, row)
			continue
		}

		rule, err := rrule.StrToRRule(row.Recurrence)
		if err != nil {
			logger.Warn("skipping demand row with invalid recurrence rule",
				zap.String("rule", row.Recurrence),
				zap.Error(err))
			continue
		}
		rule.DTStart(row.Date)

		for _, occ := range rule.Between(from, to, true) {
			replica := row
			replica.Date = time.Date(occ.Year(), occ.Month(), occ.Day(), 0, 0, 0, 0, time.UTC)
			replica.Recurrence = ""
			out = append(out, replica)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartMinutes < out[j].StartMinutes
	})
	return out
}

// ScheduleWindow returns the inclusive date range spanned by the schedule,
// the natural window for expanding demand recurrences. ok is false for an
// empty schedule.
func ScheduleWindow(schedule []model.ScheduleRow) (from, to time.Time, ok bool) {
	for _, row := range schedule {
		if !ok || row.Date.Before(from) {
			from = row.Date
		}
		if !ok || row.Date.After(to) {
			to = row.Date
		}
		ok = true
	}
	return from, to, ok
}

func scheduleRow(rec db.RawRow) (model.ScheduleRow, bool) {
	id := stringField(rec, agentIDKeys)
	if id == "" {
		return model.ScheduleRow{}, false
	}

	date, ok := dateField(rec, dateKeys)
	if !ok {
		return model.ScheduleRow{}, false
	}

	start, ok := minutesField(rec, startKeys)
	if !ok {
		return model.ScheduleRow{}, false
	}
	end, ok := minutesField(rec, endKeys)
	if !ok {
		return model.ScheduleRow{}, false
	}

	fte := 1.0
	if v, ok := numberField(rec, fteKeys); ok && v > 0 {
		fte = v
	}

	return model.ScheduleRow{
		AgentID:      id,
		AgentName:    stringField(rec, agentNameKeys),
		Date:         date,
		StartMinutes: start,
		EndMinutes:   end,
		Breaks:       breaksField(rec),
		Skill:        stringField(rec, skillKeys),
		Campaign:     stringField(rec, campaignKeys),
		Location:     stringField(rec, locationKeys),
		FTE:          fte,
	}, true
}

func demandRow(rec db.RawRow) (model.DemandRow, bool) {
	date, ok := dateField(rec, dateKeys)
	if !ok {
		return model.DemandRow{}, false
	}

	start, ok := minutesField(rec, startKeys)
	if !ok {
		return model.DemandRow{}, false
	}

	// A missing end means the forecast covers a single bucket
	end := -1
	if v, ok := minutesField(rec, endKeys); ok {
		end = v
	}

	row := model.DemandRow{
		Campaign:     stringField(rec, campaignKeys),
		Skill:        stringField(rec, skillKeys),
		Date:         date,
		StartMinutes: start,
		EndMinutes:   end,
		Recurrence:   stringField(rec, recurrenceKeys),
	}
	if v, ok := numberField(rec, contactsKeys); ok {
		row.Contacts = v
	}
	if v, ok := numberField(rec, ahtKeys); ok {
		row.AHTSeconds = v
	}
	if v, ok := numberField(rec, shrinkageKeys); ok {
		row.Shrinkage = v
	}
	if v, ok := numberField(rec, requiredFTEKeys); ok {
		row.RequiredFTE = v
	}
	return row, true
}

// breaksField accepts structured break lists (from JSON or the database)
// and the compact "12:00-12:30;15:00-15:15" text form found in
// spreadsheet exports. Malformed entries are dropped.
func breaksField(rec db.RawRow) []model.BreakWindow {
	v, ok := firstField(rec, breaksKeys)
	if !ok || v == nil {
		return nil
	}

	switch b := v.(type) {
	case []model.BreakWindow:
		return b
	case []map[string]any:
		var out []model.BreakWindow
		for _, m := range b {
			if w, ok := breakFromMap(m); ok {
				out = append(out, w)
			}
		}
		return out
	case []any:
		var out []model.BreakWindow
		for _, item := range b {
			if m, ok := item.(map[string]any); ok {
				if w, ok := breakFromMap(m); ok {
					out = append(out, w)
				}
			}
		}
		return out
	case string:
		return breaksFromText(b)
	default:
		return nil
	}
}

func breakFromMap(m map[string]any) (model.BreakWindow, bool) {
	start, ok := minutesField(m, startKeys)
	if !ok {
		return model.BreakWindow{}, false
	}
	end, ok := minutesField(m, endKeys)
	if !ok || end <= start {
		return model.BreakWindow{}, false
	}
	return model.BreakWindow{StartMinutes: start, EndMinutes: end}, true
}

func breaksFromText(s string) []model.BreakWindow {
	var out []model.BreakWindow
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			continue
		}
		start, okS := timeutil.ParseMinutes(strings.TrimSpace(bounds[0]))
		end, okE := timeutil.ParseMinutes(strings.TrimSpace(bounds[1]))
		if !okS || !okE || end <= start {
			continue
		}
		out = append(out, model.BreakWindow{StartMinutes: start, EndMinutes: end})
	}
	return out
}

func firstField(rec map[string]any, keys []string) (any, bool) {
	v, _, ok := firstFieldKey(rec, keys)
	return v, ok
}

func firstFieldKey(rec map[string]any, keys []string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v, k, true
		}
	}
	return nil, "", false
}

func stringField(rec map[string]any, keys []string) string {
	v, ok := firstField(rec, keys)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// Numeric IDs from spreadsheet exports
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func dateField(rec map[string]any, keys []string) (time.Time, bool) {
	v, ok := firstField(rec, keys)
	if !ok {
		return time.Time{}, false
	}
	return timeutil.ParseDate(v)
}

// minutesField resolves a time-of-day column. Columns explicitly named in
// minutes hold plain counts; anything else goes through the full time
// normalizer. The distinction matters for JSON sources, where a count like
// 540 arrives as a float64 that would otherwise read as a serial number.
func minutesField(rec map[string]any, keys []string) (int, bool) {
	v, key, ok := firstFieldKey(rec, keys)
	if !ok {
		return 0, false
	}
	if strings.Contains(strings.ToLower(key), "minutes") {
		if n, ok := numberValue(v); ok && n >= 0 && n < 24*60 && n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	}
	return timeutil.ParseMinutes(v)
}

func numberField(rec map[string]any, keys []string) (float64, bool) {
	v, ok := firstField(rec, keys)
	if !ok {
		return 0, false
	}
	return numberValue(v)
}

func numberValue(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
