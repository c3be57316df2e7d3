package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testOpts() model.Options {
	opts := model.DefaultOptions()
	opts.BreakBufferMinutes = 0
	return opts
}

func agentShift(id string, d time.Time, start, end int) model.ScheduleRow {
	return model.ScheduleRow{AgentID: id, Date: d, StartMinutes: start, EndMinutes: end, FTE: 1}
}

func TestEvaluate_PerfectCoverage(t *testing.T) {
	d := day(2024, 1, 2)
	schedule := []model.ScheduleRow{
		agentShift("a1", d, 9*60, 10*60),
		agentShift("a2", d, 9*60, 10*60),
	}
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 9 * 60, EndMinutes: 10 * 60, RequiredFTE: 2},
	}

	report := Evaluate(schedule, demand, testOpts(), zap.NewNop())

	assert.InDelta(t, 100.0, report.ServiceLevel, 1e-9)
	assert.Equal(t, 0, report.UnderstaffedIntervals)
	assert.Empty(t, report.BacklogRiskIntervals)
	assert.InDelta(t, 100.0, report.ScheduleEfficiency, 1e-9)
}

func TestEvaluate_DeficitAppearsInBacklogRisk(t *testing.T) {
	d := day(2024, 1, 2)

	// Demand requires 10 FTE at 09:00, only 6 staffed
	var schedule []model.ScheduleRow
	for i := 0; i < 6; i++ {
		schedule = append(schedule, agentShift(string(rune('a'+i)), d, 9*60, 9*60+30))
	}
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 9 * 60, EndMinutes: -1, RequiredFTE: 10},
	}

	report := Evaluate(schedule, demand, testOpts(), zap.NewNop())

	require.Len(t, report.BacklogRiskIntervals, 1)
	risk := report.BacklogRiskIntervals[0]
	assert.Equal(t, "2024-01-02T09:00", risk.Interval)
	assert.InDelta(t, 4.0, risk.Deficit, 1e-9)
	assert.Equal(t, 1, report.UnderstaffedIntervals)
}

func TestEvaluate_BacklogSortedByDeficitAndCapped(t *testing.T) {
	d := day(2024, 1, 2)

	var demand []model.DemandRow
	for i := 0; i < 12; i++ {
		demand = append(demand, model.DemandRow{
			Date:         d,
			StartMinutes: 8*60 + i*30,
			EndMinutes:   -1,
			RequiredFTE:  float64(i + 1),
		})
	}

	report := Evaluate(nil, demand, testOpts(), zap.NewNop())

	require.Len(t, report.BacklogRiskIntervals, 10)
	assert.InDelta(t, 12.0, report.BacklogRiskIntervals[0].Deficit, 1e-9)
	assert.True(t, sortedByDeficitDesc(report.BacklogRiskIntervals))
}

func TestEvaluate_EmptyScheduleAgainstDemand(t *testing.T) {
	d := day(2024, 1, 2)
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 9 * 60, EndMinutes: 10 * 60, RequiredFTE: 5},
	}

	report := Evaluate(nil, demand, testOpts(), zap.NewNop())

	assert.InDelta(t, 0.0, report.ServiceLevel, 1e-9)
	assert.Equal(t, 2, report.UnderstaffedIntervals)
	assert.InDelta(t, 100.0, report.ScheduleEfficiency, 1e-9, "nothing staffed, nothing wasted")
}

func TestEvaluate_EmptyDemandMarksStaffedIntervalsOverstaffed(t *testing.T) {
	d := day(2024, 1, 2)
	schedule := []model.ScheduleRow{agentShift("a1", d, 9*60, 10*60)}

	report := Evaluate(schedule, nil, testOpts(), zap.NewNop())

	assert.Equal(t, 0, report.UnderstaffedIntervals)
	assert.Equal(t, 2, report.OverstaffedIntervals)
	for _, entry := range report.Intervals {
		assert.InDelta(t, 2.0, entry.Ratio, 1e-9, "zero-demand staffed sentinel")
	}
}

func TestEvaluate_EmptyEverythingIsNeutral(t *testing.T) {
	report := Evaluate(nil, nil, testOpts(), zap.NewNop())

	assert.InDelta(t, 100.0, report.ServiceLevel, 1e-9)
	assert.Equal(t, 0, report.TotalIntervals)
	assert.InDelta(t, 20.0, report.ASASeconds, 1e-9)
	assert.InDelta(t, 0.0, report.AbandonRate, 1e-9)
}

func TestEvaluate_HeuristicsDegradeWithCoverage(t *testing.T) {
	d := day(2024, 1, 2)
	// Half coverage in every bucket
	schedule := []model.ScheduleRow{agentShift("a1", d, 12*60, 13*60)}
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 12 * 60, EndMinutes: 13 * 60, RequiredFTE: 2},
	}

	report := Evaluate(schedule, demand, testOpts(), zap.NewNop())

	assert.InDelta(t, 50.0, report.ServiceLevel, 1e-9)
	assert.InDelta(t, 40.0, report.ASASeconds, 1e-9, "baseline 20s doubled at 0.5 coverage")
	assert.InDelta(t, 12.5, report.AbandonRate, 1e-9)
	assert.InDelta(t, 50.0, report.Occupancy, 1e-9, "floored at 50")
}

func TestEvaluate_PeakWindowsWeighHeavier(t *testing.T) {
	d := day(2024, 1, 2)
	opts := testOpts()

	// Full coverage off-peak (12:00), zero coverage in the 08:00 opening
	// window. With peak weight 1.5 the opening gap drags the average below
	// the unweighted 0.5.
	schedule := []model.ScheduleRow{agentShift("a1", d, 12*60, 12*60+30)}
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 12 * 60, EndMinutes: -1, RequiredFTE: 1},
		{Date: d, StartMinutes: 8 * 60, EndMinutes: -1, RequiredFTE: 1},
	}

	report := Evaluate(schedule, demand, opts, zap.NewNop())

	// weighted: (1.0*1 + 1.5*0) / (1 + 1.5) = 0.4
	assert.InDelta(t, 40.0, report.ServiceLevel, 1e-9)
}

func TestEvaluate_MultipleDemandRowsSumPerBucket(t *testing.T) {
	d := day(2024, 1, 2)
	demand := []model.DemandRow{
		{Date: d, StartMinutes: 9 * 60, EndMinutes: -1, RequiredFTE: 2, Campaign: "sales"},
		{Date: d, StartMinutes: 9 * 60, EndMinutes: -1, RequiredFTE: 3, Campaign: "support"},
	}

	report := Evaluate(nil, demand, testOpts(), zap.NewNop())

	require.Len(t, report.Intervals, 1)
	assert.InDelta(t, 5.0, report.Intervals[0].RequiredFTE, 1e-9)
}

func sortedByDeficitDesc(risks []model.BacklogRisk) bool {
	for i := 1; i < len(risks); i++ {
		if risks[i].Deficit > risks[i-1].Deficit {
			return false
		}
	}
	return true
}
