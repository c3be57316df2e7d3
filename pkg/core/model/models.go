package model

import "time"

// BreakWindow is a break or lunch inside a shift, as minutes since midnight.
// The window is half-open: [StartMinutes, EndMinutes).
type BreakWindow struct {
	StartMinutes int
	EndMinutes   int
}

// ScheduleRow is one agent-shift assignment. Rows are produced by the
// scheduler (or loaded from a store) and are never mutated by the engines.
type ScheduleRow struct {
	AgentID   string
	AgentName string

	// Date is the calendar date of the shift start, at midnight UTC
	Date time.Time

	// Shift start/end as minutes since midnight. An end at or before the
	// start means the shift runs past midnight into the next day.
	StartMinutes int
	EndMinutes   int

	Breaks []BreakWindow

	Skill    string
	Campaign string
	Location string

	// FTE is the staffing weight of this assignment (1 = full agent)
	FTE float64
}

// DemandRow is one forecast interval of required staffing.
type DemandRow struct {
	Campaign string
	Skill    string

	Date         time.Time
	StartMinutes int

	// EndMinutes is negative when the forecast covers a single bucket only
	EndMinutes int

	// Contacts is the forecast contact volume for the interval
	Contacts float64

	// AHTSeconds is the forecast average handle time
	AHTSeconds float64

	// Shrinkage is the fraction of paid time lost to non-productive work
	Shrinkage float64

	// RequiredFTE overrides the derived requirement when positive
	RequiredFTE float64

	TargetServiceLevel float64
	TargetASASeconds   float64

	// Recurrence is an optional RFC 5545 rule that replicates this row
	// across the dates the rule yields (e.g. "FREQ=WEEKLY;BYDAY=MO,TU")
	Recurrence string
}

// AgentProfile carries per-agent metadata used by the fairness engine.
type AgentProfile struct {
	AgentID string
	Name    string

	// PreferenceNotes is free text, e.g. "no weekends, prefers mornings"
	PreferenceNotes string
}
