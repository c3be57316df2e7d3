package intervals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandShiftIntervals_SimpleShift(t *testing.T) {
	row := model.ScheduleRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   11 * 60,
	}

	keys := ExpandShiftIntervals(row, 30, 0)
	assert.Equal(t, []string{
		"2024-01-02T09:00",
		"2024-01-02T09:30",
		"2024-01-02T10:00",
		"2024-01-02T10:30",
	}, keys)
}

func TestExpandShiftIntervals_BreakMasksBucketByMidpoint(t *testing.T) {
	// 09:00-09:45 shift with a 09:15-09:30 break. The 09:00 bucket midpoint
	// (09:15) sits exactly on the break start, which is inclusive, so that
	// bucket is masked; the 09:30 bucket midpoint (09:45) is clear.
	row := model.ScheduleRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   9*60 + 45,
		Breaks: []model.BreakWindow{
			{StartMinutes: 9*60 + 15, EndMinutes: 9*60 + 30},
		},
	}

	keys := ExpandShiftIntervals(row, 30, 0)
	assert.Equal(t, []string{"2024-01-02T09:30"}, keys)
}

func TestExpandShiftIntervals_BufferWidensBreak(t *testing.T) {
	// Lunch 12:00-12:30; with a 10-minute buffer the masked window is
	// 11:50-12:40, which also swallows the 11:30 bucket (midpoint 11:45 is
	// clear) - check only the 12:30 bucket midpoint 12:45 survives.
	row := model.ScheduleRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 11 * 60,
		EndMinutes:   13 * 60,
		Breaks: []model.BreakWindow{
			{StartMinutes: 12 * 60, EndMinutes: 12*60 + 30},
		},
	}

	keys := ExpandShiftIntervals(row, 30, 10)
	assert.Equal(t, []string{
		"2024-01-02T11:00",
		"2024-01-02T11:30",
		"2024-01-02T12:30",
	}, keys)
}

func TestExpandShiftIntervals_OvernightWrapsToNextDay(t *testing.T) {
	row := model.ScheduleRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 23 * 60,
		EndMinutes:   1 * 60,
	}

	keys := ExpandShiftIntervals(row, 30, 0)
	assert.Equal(t, []string{
		"2024-01-02T23:00",
		"2024-01-02T23:30",
		"2024-01-03T00:00",
		"2024-01-03T00:30",
	}, keys)
}

func TestExpandShiftIntervals_OvernightBreakAfterMidnight(t *testing.T) {
	// A 22:00-06:00 shift with a 02:00-02:30 lunch. The break's clock-face
	// minutes sit below the shift start, so it wraps with the shift and
	// masks the post-midnight buckets it covers.
	row := model.ScheduleRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 22 * 60,
		EndMinutes:   6 * 60,
		Breaks: []model.BreakWindow{
			{StartMinutes: 2 * 60, EndMinutes: 2*60 + 30},
		},
	}

	keys := ExpandShiftIntervals(row, 30, 0)
	assert.NotContains(t, keys, "2024-01-03T02:00")
	assert.Contains(t, keys, "2024-01-03T01:30")
	assert.Contains(t, keys, "2024-01-03T02:30", "bucket midpoint 02:45 is past the break end")
	assert.Len(t, keys, 15, "16 buckets in the shift, one masked by the break")
}

func TestExpandShiftIntervals_NoDate(t *testing.T) {
	keys := ExpandShiftIntervals(model.ScheduleRow{StartMinutes: 540, EndMinutes: 600}, 30, 0)
	assert.Nil(t, keys)
}

func TestExpandDemandIntervals_ExplicitEndSpansBuckets(t *testing.T) {
	row := model.DemandRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   10 * 60,
		RequiredFTE:  4,
		Contacts:     80,
	}

	out := ExpandDemandIntervals(row, 30)
	require.Len(t, out, 2)
	assert.Equal(t, "2024-01-02T09:00", out[0].Key)
	assert.Equal(t, "2024-01-02T09:30", out[1].Key)
	for _, di := range out {
		assert.Equal(t, 4.0, di.RequiredFTE)
		assert.Equal(t, 80.0, di.Contacts)
	}
}

func TestExpandDemandIntervals_NoEndIsSingleBucket(t *testing.T) {
	row := model.DemandRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   -1,
		RequiredFTE:  2.5,
	}

	out := ExpandDemandIntervals(row, 30)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-01-02T09:00", out[0].Key)
	assert.Equal(t, 2.5, out[0].RequiredFTE)
}

func TestExpandDemandIntervals_DerivesRequiredFTE(t *testing.T) {
	// 60 contacts x 180s AHT over an 1800s bucket = 6 FTE of raw workload,
	// inflated by 20% shrinkage to 7.5
	row := model.DemandRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   -1,
		Contacts:     60,
		AHTSeconds:   180,
		Shrinkage:    0.2,
	}

	out := ExpandDemandIntervals(row, 30)
	require.Len(t, out, 1)
	assert.InDelta(t, 7.5, out[0].RequiredFTE, 1e-9)
}

func TestExpandDemandIntervals_ShrinkageFloor(t *testing.T) {
	// 90% shrinkage would inflate 10x; the 0.5 productive floor caps it at 2x
	row := model.DemandRow{
		Date:         day(2024, 1, 2),
		StartMinutes: 9 * 60,
		EndMinutes:   -1,
		Contacts:     30,
		AHTSeconds:   180,
		Shrinkage:    0.9,
	}

	out := ExpandDemandIntervals(row, 30)
	require.Len(t, out, 1)
	assert.InDelta(t, 6.0, out[0].RequiredFTE, 1e-9)
}
