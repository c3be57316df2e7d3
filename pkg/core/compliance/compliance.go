// Package compliance walks each agent's chronologically ordered shifts
// checking labor-rule constraints and aggregates the violations into a
// compliance score with remediation hints.
package compliance

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// Evaluate runs the rule set over every agent's shifts plus the global
// break-overlap check. Violations are data, not errors: the function never
// fails, it reports.
func Evaluate(schedule []model.ScheduleRow, opts model.Options, logger *zap.Logger) model.ComplianceReport {
	return EvaluateWithRules(schedule, DefaultRules(), opts, logger)
}

// EvaluateWithRules is Evaluate with a caller-supplied rule set.
func EvaluateWithRules(schedule []model.ScheduleRow, rules []Rule, opts model.Options, logger *zap.Logger) model.ComplianceReport {
	report := model.ComplianceReport{
		ComplianceScore: 100,
		Violations:      []model.Violation{},
		Recommendations: []string{},
	}

	agents := groupByAgent(schedule)

	for _, agent := range agents {
		for _, rule := range rules {
			report.Violations = append(report.Violations, rule.Check(agent, opts)...)
		}
	}

	for _, v := range report.Violations {
		switch v.Type {
		case model.ViolationRestPeriod:
			report.RestViolations++
		case model.ViolationConsecutiveDays:
			report.ConsecutiveViolations++
		}
	}

	report.MaxBreakOverlap = maxBreakOverlap(schedule, opts)
	if report.MaxBreakOverlap > opts.AllowedBreakOverlap {
		report.BreakOverlapExcess = report.MaxBreakOverlap - opts.AllowedBreakOverlap
	}

	logger.Debug("compliance pass complete",
		zap.Int("agents", len(agents)),
		zap.Int("violations", len(report.Violations)),
		zap.Int("max_break_overlap", report.MaxBreakOverlap))

	penalty := float64(len(report.Violations))*3 +
		float64(report.RestViolations)*2 +
		float64(report.BreakOverlapExcess)*5 +
		float64(report.ConsecutiveViolations)*2

	report.ComplianceScore = 100 - penalty
	if report.ComplianceScore < 0 {
		report.ComplianceScore = 0
	}

	report.Recommendations = recommendations(report, opts)

	return report
}

// groupByAgent splits the schedule into per-agent shift sequences sorted
// by (date, start).
func groupByAgent(schedule []model.ScheduleRow) []AgentShifts {
	byAgent := make(map[string]*AgentShifts)
	for _, row := range schedule {
		if row.AgentID == "" || row.Date.IsZero() {
			continue
		}
		agent := byAgent[row.AgentID]
		if agent == nil {
			agent = &AgentShifts{AgentID: row.AgentID, AgentName: row.AgentName}
			byAgent[row.AgentID] = agent
		}
		agent.Shifts = append(agent.Shifts, row)
	}

	out := make([]AgentShifts, 0, len(byAgent))
	for _, agent := range byAgent {
		sort.Slice(agent.Shifts, func(i, j int) bool {
			a, b := agent.Shifts[i], agent.Shifts[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.StartMinutes < b.StartMinutes
		})
		out = append(out, *agent)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// maxBreakOverlap returns the largest number of distinct agents whose
// breaks begin in the same (date, minute) bucket. Too many simultaneous
// breaks leave the floor uncovered even when the roster looks full.
func maxBreakOverlap(schedule []model.ScheduleRow, opts model.Options) int {
	type bucket struct {
		date   string
		minute int
	}

	agents := make(map[bucket]map[string]bool)
	for _, row := range schedule {
		if row.AgentID == "" || row.Date.IsZero() {
			continue
		}
		date := row.Date.Format("2006-01-02")
		for _, b := range row.Breaks {
			key := bucket{date: date, minute: b.StartMinutes}
			if agents[key] == nil {
				agents[key] = make(map[string]bool)
			}
			agents[key][row.AgentID] = true
		}
	}

	max := 0
	for _, set := range agents {
		if len(set) > max {
			max = len(set)
		}
	}
	return max
}

func recommendations(report model.ComplianceReport, opts model.Options) []string {
	seen := make(map[model.ViolationType]int)
	for _, v := range report.Violations {
		seen[v.Type]++
	}

	var recs []string
	if n := seen[model.ViolationShiftDuration]; n > 0 {
		recs = append(recs, fmt.Sprintf("Split or shorten %d shift(s) exceeding the %.0fh daily cap.", n, opts.MaxHoursPerDay))
	}
	if n := seen[model.ViolationMissingBreak]; n > 0 {
		recs = append(recs, fmt.Sprintf("Schedule a break or lunch on %d shift(s) that have none.", n))
	}
	if n := seen[model.ViolationRestPeriod]; n > 0 {
		recs = append(recs, fmt.Sprintf("Re-space %d shift pair(s) to restore the %.0fh minimum rest period.", n, opts.MinRestHours))
	}
	if n := seen[model.ViolationConsecutiveDays]; n > 0 {
		recs = append(recs, fmt.Sprintf("Insert days off for %d streak(s) running past %d consecutive days.", n, opts.MaxConsecutiveDays))
	}
	if report.BreakOverlapExcess > 0 {
		recs = append(recs, fmt.Sprintf("Stagger break starts: up to %d agents break at once, %d more than allowed.", report.MaxBreakOverlap, report.BreakOverlapExcess))
	}
	if len(recs) == 0 {
		recs = append(recs, "No compliance issues detected.")
	}
	return recs
}
