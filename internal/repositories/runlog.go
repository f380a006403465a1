package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/studiopulse/aggregator/internal/models"
)

// RunCounters are the per-run statistics recorded in the aggregation log.
type RunCounters struct {
	Processed int
	Inserted  int
	Updated   int
	Cancelled int
}

// BeginRun creates a running aggregation log entry and returns it.
func BeginRun(ctx context.Context, db bun.IDB, runID, source string, startedAt time.Time) (*models.AggregationLog, error) {
	entry := &models.AggregationLog{
		RunID:     runID,
		Source:    source,
		StartedAt: startedAt,
		Status:    models.RunRunning,
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// CompleteRun finalizes a log entry as completed with its counters. The
// completion timestamp becomes the checkpoint for the next run. A run can
// only be finalized once.
func CompleteRun(ctx context.Context, db bun.IDB, entry *models.AggregationLog, counters RunCounters, completedAt time.Time) error {
	if entry.Finalized() {
		return fmt.Errorf("run %s already finalized as %s", entry.RunID, entry.Status)
	}
	entry.CompletedAt = &completedAt
	entry.RecordsProcessed = counters.Processed
	entry.RecordsInserted = counters.Inserted
	entry.RecordsUpdated = counters.Updated
	entry.RecordsCancelled = counters.Cancelled
	entry.Status = models.RunCompleted

	_, err := db.NewUpdate().
		Model(entry).
		Column("completed_at", "records_processed", "records_inserted",
			"records_updated", "records_cancelled", "status").
		WherePK().
		Exec(ctx)

	return err
}

// FailRun finalizes a log entry as failed. Failed runs never advance the
// checkpoint, so the next run re-reads the same window.
func FailRun(ctx context.Context, db bun.IDB, entry *models.AggregationLog, message string, failedAt time.Time) error {
	if entry.Finalized() {
		return fmt.Errorf("run %s already finalized as %s", entry.RunID, entry.Status)
	}
	entry.CompletedAt = &failedAt
	entry.Status = models.RunFailed
	entry.ErrorMessage = &message

	_, err := db.NewUpdate().
		Model(entry).
		Column("completed_at", "status", "error_message").
		WherePK().
		Exec(ctx)

	return err
}

// LastCompletedAt returns the checkpoint: the latest completion timestamp
// among completed runs, or nil when no run has ever completed.
func LastCompletedAt(ctx context.Context, db bun.IDB) (*time.Time, error) {
	var completed *time.Time
	err := db.NewSelect().
		Model((*models.AggregationLog)(nil)).
		ColumnExpr("MAX(completed_at)").
		Where("status = ?", models.RunCompleted).
		Scan(ctx, &completed)
	if err != nil {
		return nil, err
	}
	return completed, nil
}
