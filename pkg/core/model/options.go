package model

import "time"

// Options configures all three engines and the composite weighting.
// The zero value is unusable; start from DefaultOptions or call Normalized.
type Options struct {
	// Interval bucketing
	IntervalMinutes    int `validate:"gt=0,max=240"`
	BreakBufferMinutes int `validate:"gte=0"`

	// Coverage
	PeakWindowWeight   float64 `validate:"gte=1"`
	OpeningHour        int     `validate:"gte=0,lte=23"`
	ClosingHour        int     `validate:"gte=1,lte=24"`
	BaselineASASeconds float64 `validate:"gt=0"`
	TargetServiceLevel float64 `validate:"gt=0,lte=1"`

	// Ratio sentinels for intervals with zero required FTE. Staffed is the
	// reported ratio when agents are rostered against no demand, Idle when
	// neither side has anything.
	ZeroDemandStaffedRatio float64 `validate:"gt=0"`
	ZeroDemandIdleRatio    float64 `validate:"gt=0"`

	UnderstaffedThreshold float64 `validate:"gt=0"`
	OverstaffedThreshold  float64 `validate:"gt=0"`

	// Fairness
	WeekendDays          []time.Weekday `validate:"min=1"`
	NightStartMinutes    int            `validate:"gte=0,lt=1440"`
	NightEndMinutes      int            `validate:"gte=0,lt=1440"`
	OpeningShiftMinutes  int            `validate:"gte=0,lt=1440"`
	ClosingShiftMinutes  int            `validate:"gte=0,lte=1440"`

	// Compliance
	MaxHoursPerDay      float64 `validate:"gt=0"`
	MinRestHours        float64 `validate:"gte=0"`
	MaxConsecutiveDays  int     `validate:"gt=0"`
	AllowedBreakOverlap int     `validate:"gte=0"`

	// Composite weights, expected to sum to roughly 1
	CoverageWeight   float64 `validate:"gte=0"`
	FairnessWeight   float64 `validate:"gte=0"`
	ComplianceWeight float64 `validate:"gte=0"`
	PreferenceWeight float64 `validate:"gte=0"`
}

// DefaultOptions returns the engine defaults. Thirty-minute buckets, a
// 12h/10h/6-day labor-rule baseline and a coverage-heavy composite.
func DefaultOptions() Options {
	return Options{
		IntervalMinutes:    30,
		BreakBufferMinutes: 5,

		PeakWindowWeight:   1.5,
		OpeningHour:        9,
		ClosingHour:        21,
		BaselineASASeconds: 20,
		TargetServiceLevel: 0.8,

		ZeroDemandStaffedRatio: 2.0,
		ZeroDemandIdleRatio:    1.0,

		UnderstaffedThreshold: 0.95,
		OverstaffedThreshold:  1.15,

		WeekendDays:         []time.Weekday{time.Saturday, time.Sunday},
		NightStartMinutes:   22 * 60,
		NightEndMinutes:     6 * 60,
		OpeningShiftMinutes: 9 * 60,
		ClosingShiftMinutes: 20 * 60,

		MaxHoursPerDay:      12,
		MinRestHours:        10,
		MaxConsecutiveDays:  6,
		AllowedBreakOverlap: 3,

		CoverageWeight:   0.45,
		FairnessWeight:   0.25,
		ComplianceWeight: 0.20,
		PreferenceWeight: 0.10,
	}
}

// Normalized fills every unset (zero) field with its default so callers can
// override just the knobs they care about. The zero value always means
// "unset": a literal zero cannot be configured for fields whose default is
// non-zero, notably OpeningHour (midnight opening reads as unset and becomes
// 9) and NightEndMinutes (a midnight night-window end becomes 06:00). Use
// WeekendDays to shift weekend semantics rather than a zero day list.
func (o Options) Normalized() Options {
	def := DefaultOptions()

	if o.IntervalMinutes == 0 {
		o.IntervalMinutes = def.IntervalMinutes
	}
	if o.BreakBufferMinutes == 0 {
		o.BreakBufferMinutes = def.BreakBufferMinutes
	}
	if o.PeakWindowWeight == 0 {
		o.PeakWindowWeight = def.PeakWindowWeight
	}
	if o.OpeningHour == 0 {
		o.OpeningHour = def.OpeningHour
	}
	if o.ClosingHour == 0 {
		o.ClosingHour = def.ClosingHour
	}
	if o.BaselineASASeconds == 0 {
		o.BaselineASASeconds = def.BaselineASASeconds
	}
	if o.TargetServiceLevel == 0 {
		o.TargetServiceLevel = def.TargetServiceLevel
	}
	if o.ZeroDemandStaffedRatio == 0 {
		o.ZeroDemandStaffedRatio = def.ZeroDemandStaffedRatio
	}
	if o.ZeroDemandIdleRatio == 0 {
		o.ZeroDemandIdleRatio = def.ZeroDemandIdleRatio
	}
	if o.UnderstaffedThreshold == 0 {
		o.UnderstaffedThreshold = def.UnderstaffedThreshold
	}
	if o.OverstaffedThreshold == 0 {
		o.OverstaffedThreshold = def.OverstaffedThreshold
	}
	if len(o.WeekendDays) == 0 {
		o.WeekendDays = def.WeekendDays
	}
	if o.NightStartMinutes == 0 {
		o.NightStartMinutes = def.NightStartMinutes
	}
	if o.NightEndMinutes == 0 {
		o.NightEndMinutes = def.NightEndMinutes
	}
	if o.OpeningShiftMinutes == 0 {
		o.OpeningShiftMinutes = def.OpeningShiftMinutes
	}
	if o.ClosingShiftMinutes == 0 {
		o.ClosingShiftMinutes = def.ClosingShiftMinutes
	}
	if o.MaxHoursPerDay == 0 {
		o.MaxHoursPerDay = def.MaxHoursPerDay
	}
	if o.MinRestHours == 0 {
		o.MinRestHours = def.MinRestHours
	}
	if o.MaxConsecutiveDays == 0 {
		o.MaxConsecutiveDays = def.MaxConsecutiveDays
	}
	if o.AllowedBreakOverlap == 0 {
		o.AllowedBreakOverlap = def.AllowedBreakOverlap
	}
	if o.CoverageWeight == 0 && o.FairnessWeight == 0 && o.ComplianceWeight == 0 && o.PreferenceWeight == 0 {
		o.CoverageWeight = def.CoverageWeight
		o.FairnessWeight = def.FairnessWeight
		o.ComplianceWeight = def.ComplianceWeight
		o.PreferenceWeight = def.PreferenceWeight
	}

	return o
}

// IsWeekend reports whether d falls on a configured weekend day.
func (o Options) IsWeekend(d time.Weekday) bool {
	for _, w := range o.WeekendDays {
		if w == d {
			return true
		}
	}
	return false
}
