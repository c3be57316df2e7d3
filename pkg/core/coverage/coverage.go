// Package coverage matches staffed intervals against forecast demand and
// derives the service-level side of the schedule health report.
package coverage

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/intervals"
	"github.com/halewood/schedulepulse/pkg/core/model"
	"github.com/halewood/schedulepulse/pkg/core/timeutil"
)

const backlogListCap = 10

type demandCell struct {
	required float64
	contacts float64
}

type staffingCell struct {
	staffed   float64
	agents    map[string]bool
	skills    map[string]bool
	campaigns map[string]bool
}

// Evaluate computes per-interval and aggregate coverage for the given
// schedule against the given demand forecast.
func Evaluate(schedule []model.ScheduleRow, demand []model.DemandRow, opts model.Options, logger *zap.Logger) model.CoverageReport {
	demandMap := buildDemandMap(demand, opts)
	staffingMap := buildStaffingMap(schedule, opts)

	logger.Debug("coverage maps built",
		zap.Int("demand_intervals", len(demandMap)),
		zap.Int("staffed_intervals", len(staffingMap)))

	keys := unionKeys(demandMap, staffingMap)

	report := model.CoverageReport{
		BacklogRiskIntervals: []model.BacklogRisk{},
		Intervals:            make([]model.CoverageEntry, 0, len(keys)),
	}

	var weightedSum, weightTotal float64
	var usefulStaffed, totalStaffed float64
	var backlog []model.BacklogRisk

	for _, key := range keys {
		dc := demandMap[key]
		sc := staffingMap[key]

		var staffed float64
		if sc != nil {
			staffed = sc.staffed
		}
		var required, contacts float64
		if dc != nil {
			required = dc.required
			contacts = dc.contacts
		}

		ratio := coverageRatio(staffed, required, opts)
		peak := isPeakInterval(key, opts)

		entry := model.CoverageEntry{
			Interval:    key,
			RequiredFTE: required,
			StaffedFTE:  staffed,
			Ratio:       ratio,
			Variance:    staffed - required,
			Contacts:    contacts,
			Peak:        peak,
		}
		if sc != nil {
			entry.Agents = sortedSet(sc.agents)
			entry.Skills = sortedSet(sc.skills)
			entry.Campaigns = sortedSet(sc.campaigns)
		}
		report.Intervals = append(report.Intervals, entry)

		weight := 1.0
		if peak {
			weight = opts.PeakWindowWeight
		}
		weightedSum += weight * math.Min(ratio, 1)
		weightTotal += weight

		usefulStaffed += math.Min(staffed, required)
		totalStaffed += staffed

		if required > 0 && ratio < opts.UnderstaffedThreshold {
			report.UnderstaffedIntervals++
			backlog = append(backlog, model.BacklogRisk{
				Interval:    key,
				RequiredFTE: required,
				StaffedFTE:  staffed,
				Deficit:     required - staffed,
			})
		} else if ratio > opts.OverstaffedThreshold {
			report.OverstaffedIntervals++
		}
	}

	report.TotalIntervals = len(keys)

	avg := 1.0
	if weightTotal > 0 {
		avg = weightedSum / weightTotal
	}
	report.AvgCoverageRatio = avg
	report.ServiceLevel = clamp(avg*100, 0, 100)

	// Heuristic approximations, not queueing theory: ASA degrades as
	// coverage drops, abandonment grows with the uncovered fraction and
	// occupancy tracks the coverage ratio within sane call-floor bounds.
	report.ASASeconds = math.Max(5, opts.BaselineASASeconds/math.Max(avg, 0.4))
	report.AbandonRate = clamp((1-math.Min(avg, 1))*25, 0, 40)
	report.Occupancy = clamp(avg*90, 50, 98)

	if totalStaffed > 0 {
		report.ScheduleEfficiency = clamp(usefulStaffed/totalStaffed*100, 0, 100)
	} else {
		report.ScheduleEfficiency = 100
	}

	// Largest absolute deficits first
	sort.Slice(backlog, func(i, j int) bool {
		if backlog[i].Deficit != backlog[j].Deficit {
			return backlog[i].Deficit > backlog[j].Deficit
		}
		return backlog[i].Interval < backlog[j].Interval
	})
	if len(backlog) > backlogListCap {
		backlog = backlog[:backlogListCap]
	}
	report.BacklogRiskIntervals = backlog

	return report
}

// coverageRatio returns staffed/required, substituting the configured
// sentinels when there is no demand in the bucket.
func coverageRatio(staffed, required float64, opts model.Options) float64 {
	if required <= 0 {
		if staffed > 0 {
			return opts.ZeroDemandStaffedRatio
		}
		return opts.ZeroDemandIdleRatio
	}
	return staffed / required
}

// isPeakInterval classifies opening and closing windows, which carry extra
// weight in the aggregate.
func isPeakInterval(key string, opts model.Options) bool {
	hour := timeutil.KeyHour(key)
	if hour < 0 {
		return false
	}
	return hour <= opts.OpeningHour || hour >= opts.ClosingHour-1
}

func buildDemandMap(demand []model.DemandRow, opts model.Options) map[string]*demandCell {
	out := make(map[string]*demandCell)
	for _, row := range demand {
		for _, di := range intervals.ExpandDemandIntervals(row, opts.IntervalMinutes) {
			cell := out[di.Key]
			if cell == nil {
				cell = &demandCell{}
				out[di.Key] = cell
			}
			cell.required += di.RequiredFTE
			cell.contacts += di.Contacts
		}
	}
	return out
}

func buildStaffingMap(schedule []model.ScheduleRow, opts model.Options) map[string]*staffingCell {
	out := make(map[string]*staffingCell)
	for _, row := range schedule {
		fte := row.FTE
		if fte <= 0 {
			fte = 1
		}
		for _, key := range intervals.ExpandShiftIntervals(row, opts.IntervalMinutes, opts.BreakBufferMinutes) {
			cell := out[key]
			if cell == nil {
				cell = &staffingCell{
					agents:    make(map[string]bool),
					skills:    make(map[string]bool),
					campaigns: make(map[string]bool),
				}
				out[key] = cell
			}
			cell.staffed += fte
			if row.AgentID != "" {
				cell.agents[row.AgentID] = true
			}
			if row.Skill != "" {
				cell.skills[row.Skill] = true
			}
			if row.Campaign != "" {
				cell.campaigns[row.Campaign] = true
			}
		}
	}
	return out
}

func unionKeys(demand map[string]*demandCell, staffing map[string]*staffingCell) []string {
	seen := make(map[string]bool, len(demand)+len(staffing))
	for k := range demand {
		seen[k] = true
	}
	for k := range staffing {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
