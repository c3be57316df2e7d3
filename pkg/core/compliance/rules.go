package compliance

import (
	"fmt"
	"time"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

const minutesPerDay = 24 * 60

// AgentShifts is one agent's assignments sorted chronologically by
// (date, start).
type AgentShifts struct {
	AgentID   string
	AgentName string
	Shifts    []model.ScheduleRow
}

// Rule checks one labor-rule constraint over a single agent's ordered
// shifts and reports any breaches. Rules never mutate the input.
type Rule interface {
	// Name returns a human-readable identifier for this rule
	Name() string

	// Check returns the violations this rule detects for the agent
	Check(agent AgentShifts, opts model.Options) []model.Violation
}

// DefaultRules returns the per-agent rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		ShiftDurationRule{},
		BreakPresenceRule{},
		RestPeriodRule{},
		ConsecutiveDaysRule{},
	}
}

// ShiftDurationRule flags shifts longer than the daily hours cap.
type ShiftDurationRule struct{}

func (ShiftDurationRule) Name() string { return "ShiftDuration" }

func (ShiftDurationRule) Check(agent AgentShifts, opts model.Options) []model.Violation {
	var out []model.Violation
	for _, s := range agent.Shifts {
		hours := float64(shiftEndWrapped(s)-s.StartMinutes) / 60
		if hours > opts.MaxHoursPerDay {
			out = append(out, model.Violation{
				Type:      model.ViolationShiftDuration,
				AgentID:   agent.AgentID,
				AgentName: agent.AgentName,
				Date:      s.Date.Format("2006-01-02"),
				Detail:    fmt.Sprintf("shift runs %.1fh, above the %.0fh daily cap", hours, opts.MaxHoursPerDay),
				Value:     hours,
				Limit:     opts.MaxHoursPerDay,
			})
		}
	}
	return out
}

// BreakPresenceRule flags shifts scheduled with no break or lunch at all.
type BreakPresenceRule struct{}

func (BreakPresenceRule) Name() string { return "BreakPresence" }

func (BreakPresenceRule) Check(agent AgentShifts, opts model.Options) []model.Violation {
	var out []model.Violation
	for _, s := range agent.Shifts {
		if len(s.Breaks) > 0 {
			continue
		}
		hours := float64(shiftEndWrapped(s)-s.StartMinutes) / 60
		out = append(out, model.Violation{
			Type:      model.ViolationMissingBreak,
			AgentID:   agent.AgentID,
			AgentName: agent.AgentName,
			Date:      s.Date.Format("2006-01-02"),
			Detail:    fmt.Sprintf("%.1fh shift has no break or lunch scheduled", hours),
			Value:     hours,
			Limit:     0,
		})
	}
	return out
}

// RestPeriodRule flags consecutive shift pairs with too little rest in
// between. Overnight shifts roll their end onto the next calendar day
// before the gap is measured.
type RestPeriodRule struct{}

func (RestPeriodRule) Name() string { return "RestPeriod" }

func (RestPeriodRule) Check(agent AgentShifts, opts model.Options) []model.Violation {
	var out []model.Violation
	for i := 1; i < len(agent.Shifts); i++ {
		prev, cur := agent.Shifts[i-1], agent.Shifts[i]

		gap := shiftStart(cur).Sub(shiftEnd(prev))
		gapHours := gap.Hours()
		if gapHours < 0 {
			// Overlapping assignments leave no rest at all
			gapHours = 0
		}

		if gapHours < opts.MinRestHours {
			out = append(out, model.Violation{
				Type:      model.ViolationRestPeriod,
				AgentID:   agent.AgentID,
				AgentName: agent.AgentName,
				Date:      cur.Date.Format("2006-01-02"),
				Detail:    fmt.Sprintf("only %.1fh rest before this shift, minimum is %.0fh", gapHours, opts.MinRestHours),
				Value:     gapHours,
				Limit:     opts.MinRestHours,
			})
		}
	}
	return out
}

// ConsecutiveDaysRule tracks the agent's run of back-to-back working days
// and flags each time the streak exceeds the cap, resetting the counter
// after every flag.
type ConsecutiveDaysRule struct{}

func (ConsecutiveDaysRule) Name() string { return "ConsecutiveDays" }

func (ConsecutiveDaysRule) Check(agent AgentShifts, opts model.Options) []model.Violation {
	var out []model.Violation

	var streak int
	var prevDay time.Time

	for _, s := range agent.Shifts {
		day := s.Date
		switch {
		case prevDay.IsZero():
			streak = 1
		case day.Equal(prevDay):
			// Second shift on the same day, streak unchanged
		case day.Sub(prevDay) <= 24*time.Hour:
			streak++
		default:
			streak = 1
		}
		prevDay = day

		if streak > opts.MaxConsecutiveDays {
			out = append(out, model.Violation{
				Type:      model.ViolationConsecutiveDays,
				AgentID:   agent.AgentID,
				AgentName: agent.AgentName,
				Date:      day.Format("2006-01-02"),
				Detail:    fmt.Sprintf("%d consecutive working days, cap is %d", streak, opts.MaxConsecutiveDays),
				Value:     float64(streak),
				Limit:     float64(opts.MaxConsecutiveDays),
			})
			streak = 0
		}
	}

	return out
}

func shiftEndWrapped(s model.ScheduleRow) int {
	if s.EndMinutes <= s.StartMinutes {
		return s.EndMinutes + minutesPerDay
	}
	return s.EndMinutes
}

func shiftStart(s model.ScheduleRow) time.Time {
	return s.Date.Add(time.Duration(s.StartMinutes) * time.Minute)
}

func shiftEnd(s model.ScheduleRow) time.Time {
	return s.Date.Add(time.Duration(shiftEndWrapped(s)) * time.Minute)
}
