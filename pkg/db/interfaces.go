// Package db defines the data-source contracts the evaluator consumes.
// Sources hand back raw records (field names as they appear in the export);
// pkg/ingest reconciles them into canonical rows.
package db

import (
	"context"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// RawRow is one record from a source, keyed by whatever the export calls
// its columns.
type RawRow map[string]any

// ScheduleSource provides the three row sets an evaluation consumes.
type ScheduleSource interface {
	ScheduleRows(ctx context.Context) ([]RawRow, error)
	DemandRows(ctx context.Context) ([]RawRow, error)
	AgentProfiles(ctx context.Context) ([]RawRow, error)
}

// ReportSink persists finished health reports.
type ReportSink interface {
	SaveReport(ctx context.Context, report *model.HealthReport) error
}
