package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleSchedule() []model.ScheduleRow {
	var rows []model.ScheduleRow
	for _, agent := range []string{"a1", "a2", "a3"} {
		for d := 2; d <= 6; d++ {
			rows = append(rows, model.ScheduleRow{
				AgentID:      agent,
				Date:         day(d),
				StartMinutes: 9 * 60,
				EndMinutes:   17 * 60,
				Breaks:       []model.BreakWindow{{StartMinutes: 12 * 60, EndMinutes: 12*60 + 30}},
				FTE:          1,
			})
		}
	}
	return rows
}

func sampleDemand() []model.DemandRow {
	var rows []model.DemandRow
	for d := 2; d <= 6; d++ {
		rows = append(rows, model.DemandRow{
			Date:         day(d),
			StartMinutes: 9 * 60,
			EndMinutes:   17 * 60,
			RequiredFTE:  3,
		})
	}
	return rows
}

func evaluate(t *testing.T, schedule []model.ScheduleRow, demand []model.DemandRow, profiles []model.AgentProfile) *model.HealthReport {
	t.Helper()
	report, err := EvaluateSchedule(context.Background(), schedule, demand, profiles, model.Options{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func TestEvaluateSchedule_AllScoresInRange(t *testing.T) {
	report := evaluate(t, sampleSchedule(), sampleDemand(), nil)

	assert.GreaterOrEqual(t, report.HealthScore, 0)
	assert.LessOrEqual(t, report.HealthScore, 100)

	for name, score := range map[string]float64{
		"serviceLevel":           report.Summary.ServiceLevel,
		"fairnessIndex":          report.Summary.FairnessIndex,
		"complianceScore":        report.Summary.ComplianceScore,
		"preferenceSatisfaction": report.Summary.PreferenceSatisfaction,
		"scheduleEfficiency":     report.Summary.ScheduleEfficiency,
	} {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 100.0, name)
	}

	assert.GreaterOrEqual(t, report.Summary.ASASeconds, 5.0)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestEvaluateSchedule_Idempotent(t *testing.T) {
	schedule, demand := sampleSchedule(), sampleDemand()

	first := evaluate(t, schedule, demand, nil)
	second := evaluate(t, schedule, demand, nil)

	// Identical modulo the report's own identity fields
	assert.Equal(t, first.HealthScore, second.HealthScore)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Coverage, second.Coverage)
	assert.Equal(t, first.Fairness, second.Fairness)
	assert.Equal(t, first.Compliance, second.Compliance)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEvaluateSchedule_EmptyScheduleAgainstDemand(t *testing.T) {
	report := evaluate(t, nil, sampleDemand(), nil)

	assert.InDelta(t, 0.0, report.Summary.ServiceLevel, 1e-9)
	assert.InDelta(t, 100.0, report.Summary.FairnessIndex, 1e-9)
	assert.InDelta(t, 100.0, report.Summary.ComplianceScore, 1e-9)
}

func TestEvaluateSchedule_EmptyDemand(t *testing.T) {
	report := evaluate(t, sampleSchedule(), nil, nil)
	assert.Equal(t, 0, report.Coverage.UnderstaffedIntervals)
}

func TestEvaluateSchedule_EmptyEverything(t *testing.T) {
	report := evaluate(t, nil, nil, nil)

	assert.InDelta(t, 100.0, report.Summary.ServiceLevel, 1e-9)
	assert.InDelta(t, 100.0, report.Summary.FairnessIndex, 1e-9)
	assert.InDelta(t, 100.0, report.Summary.ComplianceScore, 1e-9)
	assert.Equal(t, 100, report.HealthScore)
}

func TestEvaluateSchedule_InvalidOptionsFailFast(t *testing.T) {
	opts := model.DefaultOptions()
	opts.IntervalMinutes = -5

	_, err := EvaluateSchedule(context.Background(), nil, nil, nil, opts, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid engine options")
}

func TestEvaluateSchedule_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateSchedule(ctx, nil, nil, nil, model.Options{}, zap.NewNop())
	assert.Error(t, err)
}

func TestEvaluateSchedule_PreferenceFeedsComposite(t *testing.T) {
	schedule := sampleSchedule()
	demand := sampleDemand()

	baseline := evaluate(t, schedule, demand, nil)

	// a1 hates exactly what they are scheduled for
	weekendRow := model.ScheduleRow{
		AgentID: "a1", Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		StartMinutes: 9 * 60, EndMinutes: 17 * 60,
		Breaks: []model.BreakWindow{{StartMinutes: 12 * 60, EndMinutes: 12*60 + 30}},
	}
	profiles := []model.AgentProfile{{AgentID: "a1", PreferenceNotes: "no weekends"}}

	report := evaluate(t, append(schedule, weekendRow), demand, profiles)

	assert.Less(t, report.Summary.PreferenceSatisfaction, 100.0)
	_ = baseline
}

func TestEvaluateSchedule_CompositeWeighting(t *testing.T) {
	// Force a schedule that is compliant and fair but covers nothing
	report := evaluate(t, nil, sampleDemand(), nil)

	// coverage 0, fairness 100, compliance 100, preference 100
	// composite = 0*.45 + 1*.25 + 1*.20 + 1*.10 = 0.55
	assert.Equal(t, 55, report.HealthScore)
}
