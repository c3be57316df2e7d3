package fairness

import (
	"strings"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// preferenceRule matches a free-text preference and returns how many of the
// agent's shifts violate it.
type preferenceRule struct {
	// keywords that activate the rule when found in the notes
	keywords []string

	// violations counts the shifts that go against the stated preference
	violations func(stat model.AgentFairnessStat) int

	// penaltyPerShift and maxPenalty bound the deduction
	penaltyPerShift float64
	maxPenalty      float64
}

var preferenceRules = []preferenceRule{
	{
		keywords:        []string{"no weekend", "avoid weekend", "not on weekend"},
		violations:      func(s model.AgentFairnessStat) int { return s.WeekendShifts },
		penaltyPerShift: 15,
		maxPenalty:      60,
	},
	{
		keywords:        []string{"no night", "avoid night", "not at night"},
		violations:      func(s model.AgentFairnessStat) int { return s.NightShifts },
		penaltyPerShift: 15,
		maxPenalty:      60,
	},
	{
		keywords:        []string{"prefer morning", "prefers morning", "morning person", "early shifts"},
		violations:      func(s model.AgentFairnessStat) int { return s.ClosingShifts + s.NightShifts },
		penaltyPerShift: 10,
		maxPenalty:      40,
	},
	{
		keywords:        []string{"prefer evening", "prefers evening", "late shifts", "prefer closing"},
		violations:      func(s model.AgentFairnessStat) int { return s.OpeningShifts },
		penaltyPerShift: 10,
		maxPenalty:      40,
	},
	{
		keywords:        []string{"prefer weekday", "prefers weekday", "weekdays only"},
		violations:      func(s model.AgentFairnessStat) int { return s.WeekendShifts },
		penaltyPerShift: 10,
		maxPenalty:      40,
	},
}

// preferenceScore scores how well an agent's actual shift mix honours the
// free-text preference notes. Agents with no notes score 100.
func preferenceScore(stat model.AgentFairnessStat, notes string) float64 {
	if notes == "" {
		return 100
	}

	lowered := strings.ToLower(notes)

	score := 100.0
	for _, rule := range preferenceRules {
		if !matchesAny(lowered, rule.keywords) {
			continue
		}
		penalty := float64(rule.violations(stat)) * rule.penaltyPerShift
		if penalty > rule.maxPenalty {
			penalty = rule.maxPenalty
		}
		score -= penalty
	}

	return clamp(score, 0, 100)
}

func matchesAny(notes string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(notes, kw) {
			return true
		}
	}
	return false
}
