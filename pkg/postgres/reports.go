package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/halewood/schedulepulse/pkg/core/model"
)

// SaveReport persists a finished health report, full body as JSONB with
// the headline score lifted into its own column for querying.
func (d *DB) SaveReport(ctx context.Context, report *model.HealthReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal health report: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO health_report (id, generated_at, health_score, report)
		VALUES ($1, $2, $3, $4)
	`, report.ID, report.GeneratedAt, report.HealthScore, body)
	if err != nil {
		return fmt.Errorf("failed to insert health report: %w", err)
	}

	return nil
}
