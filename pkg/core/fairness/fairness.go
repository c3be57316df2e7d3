// Package fairness measures how evenly undesirable shift patterns are
// spread across agents and how well each agent's schedule matches their
// stated preferences.
package fairness

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

const minutesPerDay = 24 * 60

// The dispersion penalty saturates: one badly skewed dimension cannot drag
// the index below 100 - 50*1.5/3 on its own.
const maxNormalizedVariance = 1.5

type agentAccumulator struct {
	stat      model.AgentFairnessStat
	skills    map[string]bool
	locations map[string]bool
}

// Evaluate aggregates per-agent shift-pattern statistics and derives the
// population fairness index, rotation health and preference satisfaction.
func Evaluate(schedule []model.ScheduleRow, profiles []model.AgentProfile, opts model.Options, logger *zap.Logger) model.FairnessReport {
	accs := accumulate(schedule, opts)

	report := model.FairnessReport{
		FairnessIndex:          100,
		PreferenceSatisfaction: 100,
		RotationHealth:         100,
		Agents:                 []model.AgentFairnessStat{},
	}

	if len(accs) == 0 {
		return report
	}

	weekend := make([]float64, 0, len(accs))
	night := make([]float64, 0, len(accs))
	closing := make([]float64, 0, len(accs))
	for _, acc := range accs {
		weekend = append(weekend, float64(acc.stat.WeekendShifts))
		night = append(night, float64(acc.stat.NightShifts))
		closing = append(closing, float64(acc.stat.ClosingShifts))
	}

	weekendMean, weekendStd := meanStd(weekend)
	nightMean, nightStd := meanStd(night)
	closingMean, closingStd := meanStd(closing)

	logger.Debug("fairness dispersion",
		zap.Float64("weekend_mean", weekendMean), zap.Float64("weekend_std", weekendStd),
		zap.Float64("night_mean", nightMean), zap.Float64("night_std", nightStd),
		zap.Float64("closing_mean", closingMean), zap.Float64("closing_std", closingStd))

	nvWeekend := normalizedVariance(weekendStd, weekendMean)
	nvNight := normalizedVariance(nightStd, nightMean)
	nvClosing := normalizedVariance(closingStd, closingMean)

	report.FairnessIndex = clamp(100-50*(nvWeekend+nvNight+nvClosing)/3, 0, 100)

	// Rotation health is the weekend-variance penalty alone, softened
	report.RotationHealth = clamp(100-30*nvWeekend, 0, 100)

	notes := preferenceNotes(profiles)

	var prefSum float64
	for _, acc := range accs {
		stat := acc.stat
		stat.Skills = sortedSet(acc.skills)
		stat.Locations = sortedSet(acc.locations)

		stat.FairnessScore = agentFairnessScore(stat, weekendMean, nightMean, closingMean)
		stat.PreferenceScore = preferenceScore(stat, notes[stat.AgentID])
		prefSum += stat.PreferenceScore

		report.Agents = append(report.Agents, stat)
	}

	sort.Slice(report.Agents, func(i, j int) bool {
		return report.Agents[i].AgentID < report.Agents[j].AgentID
	})

	report.PreferenceSatisfaction = clamp(prefSum/float64(len(accs)), 0, 100)

	return report
}

func accumulate(schedule []model.ScheduleRow, opts model.Options) map[string]*agentAccumulator {
	accs := make(map[string]*agentAccumulator)

	for _, row := range schedule {
		if row.AgentID == "" || row.Date.IsZero() {
			continue
		}

		acc := accs[row.AgentID]
		if acc == nil {
			acc = &agentAccumulator{
				stat:      model.AgentFairnessStat{AgentID: row.AgentID, AgentName: row.AgentName},
				skills:    make(map[string]bool),
				locations: make(map[string]bool),
			}
			accs[row.AgentID] = acc
		}

		end := row.EndMinutes
		if end <= row.StartMinutes {
			end += minutesPerDay
		}

		acc.stat.Shifts++
		acc.stat.Minutes += end - row.StartMinutes

		if opts.IsWeekend(row.Date.Weekday()) {
			acc.stat.WeekendShifts++
		}
		if row.StartMinutes >= opts.NightStartMinutes || row.EndMinutes <= opts.NightEndMinutes {
			acc.stat.NightShifts++
		}
		if row.StartMinutes <= opts.OpeningShiftMinutes {
			acc.stat.OpeningShifts++
		}
		// Closing uses the clock-face end so an overnight shift counts as
		// night work, not closing work
		if row.EndMinutes >= opts.ClosingShiftMinutes {
			acc.stat.ClosingShifts++
		}

		if row.Skill != "" {
			acc.skills[row.Skill] = true
		}
		if row.Location != "" {
			acc.locations[row.Location] = true
		}
	}

	return accs
}

// agentFairnessScore penalizes an agent's deviation from the population
// mean across the weekend, night and closing dimensions.
func agentFairnessScore(stat model.AgentFairnessStat, weekendMean, nightMean, closingMean float64) float64 {
	dev := normalizedVariance(math.Abs(float64(stat.WeekendShifts)-weekendMean), weekendMean) +
		normalizedVariance(math.Abs(float64(stat.NightShifts)-nightMean), nightMean) +
		normalizedVariance(math.Abs(float64(stat.ClosingShifts)-closingMean), closingMean)

	return clamp(100-20*dev, 0, 100)
}

// normalizedVariance scales a dispersion figure by the population mean,
// capped so one pathological dimension cannot dominate.
func normalizedVariance(stdDev, mean float64) float64 {
	return math.Min(maxNormalizedVariance, stdDev/math.Max(mean, 0.5))
}

func preferenceNotes(profiles []model.AgentProfile) map[string]string {
	notes := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if p.AgentID != "" && p.PreferenceNotes != "" {
			notes[p.AgentID] = p.PreferenceNotes
		}
	}
	return notes
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
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
