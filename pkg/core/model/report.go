package model

import "time"

// CoverageEntry is the computed record for one interval bucket.
type CoverageEntry struct {
	Interval    string   `json:"interval"`
	RequiredFTE float64  `json:"requiredFte"`
	StaffedFTE  float64  `json:"staffedFte"`
	Ratio       float64  `json:"ratio"`
	Variance    float64  `json:"variance"`
	Contacts    float64  `json:"contacts,omitempty"`
	Agents      []string `json:"agents,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Campaigns   []string `json:"campaigns,omitempty"`
	Peak        bool     `json:"peak"`
}

// BacklogRisk is an understaffed interval ranked by absolute FTE deficit.
type BacklogRisk struct {
	Interval    string  `json:"interval"`
	RequiredFTE float64 `json:"requiredFte"`
	StaffedFTE  float64 `json:"staffedFte"`
	Deficit     float64 `json:"deficit"`
}

// CoverageReport is the coverage engine output. ASA, abandon rate and
// occupancy are heuristic approximations derived from the average coverage
// ratio, not queueing-theory results.
type CoverageReport struct {
	ServiceLevel       float64 `json:"serviceLevel"`
	ASASeconds         float64 `json:"asa"`
	AbandonRate        float64 `json:"abandonRate"`
	Occupancy          float64 `json:"occupancy"`
	AvgCoverageRatio   float64 `json:"avgCoverageRatio"`
	ScheduleEfficiency float64 `json:"scheduleEfficiency"`

	TotalIntervals        int `json:"totalIntervals"`
	UnderstaffedIntervals int `json:"understaffedIntervals"`
	OverstaffedIntervals  int `json:"overstaffedIntervals"`

	BacklogRiskIntervals []BacklogRisk   `json:"backlogRiskIntervals"`
	Intervals            []CoverageEntry `json:"intervals"`
}

// AgentFairnessStat is the per-agent record the fairness engine computes.
type AgentFairnessStat struct {
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName,omitempty"`

	Shifts  int `json:"shifts"`
	Minutes int `json:"minutes"`

	WeekendShifts int `json:"weekendShifts"`
	NightShifts   int `json:"nightShifts"`
	OpeningShifts int `json:"openingShifts"`
	ClosingShifts int `json:"closingShifts"`

	Skills    []string `json:"skills,omitempty"`
	Locations []string `json:"locations,omitempty"`

	PreferenceScore float64 `json:"preferenceScore"`
	FairnessScore   float64 `json:"fairnessScore"`
}

// FairnessReport is the fairness engine output.
type FairnessReport struct {
	FairnessIndex          float64             `json:"fairnessIndex"`
	PreferenceSatisfaction float64             `json:"preferenceSatisfaction"`
	RotationHealth         float64             `json:"rotationHealth"`
	Agents                 []AgentFairnessStat `json:"agents"`
}

// ViolationType identifies a labor-rule breach.
type ViolationType string

const (
	ViolationShiftDuration   ViolationType = "SHIFT_DURATION"
	ViolationRestPeriod      ViolationType = "REST_PERIOD"
	ViolationMissingBreak    ViolationType = "MISSING_BREAK"
	ViolationConsecutiveDays ViolationType = "CONSECUTIVE_DAYS"
)

// Violation is one detected compliance breach. Violations are data, not
// errors: they are accumulated and returned, never raised.
type Violation struct {
	Type      ViolationType `json:"type"`
	AgentID   string        `json:"agentId"`
	AgentName string        `json:"agentName,omitempty"`
	Date      string        `json:"date"`
	Detail    string        `json:"detail"`

	// Value is the measured quantity (hours worked, rest-gap hours, streak
	// length) and Limit the configured bound it breached.
	Value float64 `json:"value"`
	Limit float64 `json:"limit"`
}

// ComplianceReport is the compliance engine output.
type ComplianceReport struct {
	ComplianceScore float64     `json:"complianceScore"`
	Violations      []Violation `json:"violations"`

	RestViolations        int `json:"restViolations"`
	ConsecutiveViolations int `json:"consecutiveViolations"`

	// MaxBreakOverlap is the largest number of agents starting a break in
	// the same minute bucket; BreakOverlapExcess is how far that exceeds
	// the allowed overlap (0 when within bounds).
	MaxBreakOverlap    int `json:"maxBreakOverlap"`
	BreakOverlapExcess int `json:"breakOverlapExcess"`

	Recommendations []string `json:"recommendations"`
}

// Summary flattens each engine's headline metric for dashboards.
type Summary struct {
	ServiceLevel           float64 `json:"serviceLevel"`
	ASASeconds             float64 `json:"asa"`
	AbandonRate            float64 `json:"abandonRate"`
	Occupancy              float64 `json:"occupancy"`
	FairnessIndex          float64 `json:"fairnessIndex"`
	PreferenceSatisfaction float64 `json:"preferenceSatisfaction"`
	ComplianceScore        float64 `json:"complianceScore"`
	ScheduleEfficiency     float64 `json:"scheduleEfficiency"`
}

// HealthReport is the root evaluation output.
type HealthReport struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`

	// HealthScore is the weighted composite of the three engine scores and
	// preference satisfaction, 0-100.
	HealthScore int `json:"healthScore"`

	Coverage   CoverageReport   `json:"coverage"`
	Fairness   FairnessReport   `json:"fairness"`
	Compliance ComplianceReport `json:"compliance"`
	Summary    Summary          `json:"summary"`
}
