// Package health runs the coverage, fairness and compliance engines over a
// normalized schedule and blends their scores into one health report.
package health

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/halewood/schedulepulse/pkg/core/compliance"
	"github.com/halewood/schedulepulse/pkg/core/coverage"
	"github.com/halewood/schedulepulse/pkg/core/fairness"
	"github.com/halewood/schedulepulse/pkg/core/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// EvaluateSchedule is the engine entry point: a pure function of
// (schedule, demand, profiles, options). Unset options fall back to
// defaults; invalid options are the only failure mode. The three engines
// share no state and run concurrently.
func EvaluateSchedule(
	ctx context.Context,
	schedule []model.ScheduleRow,
	demand []model.DemandRow,
	profiles []model.AgentProfile,
	opts model.Options,
	logger *zap.Logger,
) (*model.HealthReport, error) {
	opts = opts.Normalized()
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("evaluating schedule",
		zap.Int("schedule_rows", len(schedule)),
		zap.Int("demand_rows", len(demand)),
		zap.Int("profiles", len(profiles)),
		zap.Int("interval_minutes", opts.IntervalMinutes))

	var (
		wg             sync.WaitGroup
		coverageReport model.CoverageReport
		fairnessReport model.FairnessReport
		complianceRep  model.ComplianceReport
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		coverageReport = coverage.Evaluate(schedule, demand, opts, logger)
	}()
	go func() {
		defer wg.Done()
		fairnessReport = fairness.Evaluate(schedule, profiles, opts, logger)
	}()
	go func() {
		defer wg.Done()
		complianceRep = compliance.Evaluate(schedule, opts, logger)
	}()
	wg.Wait()

	composite := coverageReport.ServiceLevel/100*opts.CoverageWeight +
		fairnessReport.FairnessIndex/100*opts.FairnessWeight +
		complianceRep.ComplianceScore/100*opts.ComplianceWeight +
		fairnessReport.PreferenceSatisfaction/100*opts.PreferenceWeight

	weightTotal := opts.CoverageWeight + opts.FairnessWeight + opts.ComplianceWeight + opts.PreferenceWeight
	if weightTotal > 0 {
		composite /= weightTotal
	}

	score := int(math.Round(clamp(composite*100, 0, 100)))

	report := &model.HealthReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		HealthScore: score,
		Coverage:    coverageReport,
		Fairness:    fairnessReport,
		Compliance:  complianceRep,
		Summary: model.Summary{
			ServiceLevel:           coverageReport.ServiceLevel,
			ASASeconds:             coverageReport.ASASeconds,
			AbandonRate:            coverageReport.AbandonRate,
			Occupancy:              coverageReport.Occupancy,
			FairnessIndex:          fairnessReport.FairnessIndex,
			PreferenceSatisfaction: fairnessReport.PreferenceSatisfaction,
			ComplianceScore:        complianceRep.ComplianceScore,
			ScheduleEfficiency:     coverageReport.ScheduleEfficiency,
		},
	}

	logger.Info("schedule evaluated",
		zap.String("report_id", report.ID),
		zap.Int("health_score", report.HealthScore),
		zap.Float64("service_level", report.Summary.ServiceLevel),
		zap.Float64("fairness_index", report.Summary.FairnessIndex),
		zap.Float64("compliance_score", report.Summary.ComplianceScore))

	return report, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
