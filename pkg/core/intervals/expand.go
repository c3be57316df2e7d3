// Package intervals expands shifts and demand forecasts into the aligned
// interval buckets the coverage engine joins on.
package intervals

import (
	"github.com/halewood/schedulepulse/pkg/core/model"
	"github.com/halewood/schedulepulse/pkg/core/timeutil"
)

const minutesPerDay = 24 * 60

// DemandInterval is one bucket of required staffing derived from a
// forecast row.
type DemandInterval struct {
	Key         string
	RequiredFTE float64
	Contacts    float64
}

// ExpandShiftIntervals returns the interval keys a shift actually staffs.
// Break and lunch windows, widened by bufferMinutes on both sides, mask out
// any bucket whose midpoint falls inside them. Shifts ending at or before
// their start wrap past midnight onto the next calendar date.
func ExpandShiftIntervals(row model.ScheduleRow, bucketMinutes, bufferMinutes int) []string {
	if bucketMinutes <= 0 || row.Date.IsZero() {
		return nil
	}

	start := row.StartMinutes
	end := row.EndMinutes
	if end <= start {
		end += minutesPerDay
	}

	breaks := make([]model.BreakWindow, 0, len(row.Breaks))
	for _, b := range row.Breaks {
		bs, be := b.StartMinutes, b.EndMinutes
		if be <= bs {
			be += minutesPerDay
		}
		// A break ending at or before the shift start belongs to the
		// morning side of an overnight shift and wraps with it
		if be <= start {
			bs += minutesPerDay
			be += minutesPerDay
		}
		breaks = append(breaks, model.BreakWindow{
			StartMinutes: bs - bufferMinutes,
			EndMinutes:   be + bufferMinutes,
		})
	}

	var keys []string
	for m := start; m < end; m += bucketMinutes {
		midpoint := m + bucketMinutes/2
		if inAnyBreak(midpoint, breaks) {
			continue
		}
		keys = append(keys, timeutil.IntervalKey(row.Date, m, bucketMinutes))
	}

	return keys
}

// ExpandDemandIntervals returns the per-bucket staffing requirement for a
// forecast row. A row with an explicit end apportions the same requirement
// to every bucket it spans; without one it covers a single bucket. When the
// row carries no explicit RequiredFTE the requirement is derived from
// volume and handle time, with shrinkage inflation floored so a forecast
// with extreme shrinkage cannot blow the requirement up unboundedly.
func ExpandDemandIntervals(row model.DemandRow, bucketMinutes int) []DemandInterval {
	if bucketMinutes <= 0 || row.Date.IsZero() {
		return nil
	}

	required := row.RequiredFTE
	if required <= 0 {
		required = deriveRequiredFTE(row, bucketMinutes)
	}

	if row.EndMinutes < 0 || row.EndMinutes <= row.StartMinutes {
		return []DemandInterval{{
			Key:         timeutil.IntervalKey(row.Date, row.StartMinutes, bucketMinutes),
			RequiredFTE: required,
			Contacts:    row.Contacts,
		}}
	}

	var out []DemandInterval
	for m := row.StartMinutes; m < row.EndMinutes; m += bucketMinutes {
		out = append(out, DemandInterval{
			Key:         timeutil.IntervalKey(row.Date, m, bucketMinutes),
			RequiredFTE: required,
			Contacts:    row.Contacts,
		})
	}

	return out
}

// deriveRequiredFTE estimates required staffing as workload seconds per
// bucket second, inflated by shrinkage. The 0.5 floor on (1 - shrinkage)
// bounds the inflation at 2x.
func deriveRequiredFTE(row model.DemandRow, bucketMinutes int) float64 {
	if row.Contacts <= 0 || row.AHTSeconds <= 0 {
		return 0
	}

	bucketSeconds := float64(bucketMinutes) * 60
	productive := 1 - row.Shrinkage
	if productive < 0.5 {
		productive = 0.5
	}

	return row.Contacts * row.AHTSeconds / bucketSeconds / productive
}

func inAnyBreak(minute int, breaks []model.BreakWindow) bool {
	for _, b := range breaks {
		if minute >= b.StartMinutes && minute < b.EndMinutes {
			return true
		}
	}
	return false
}
