package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/studiopulse/aggregator/internal/models"
)

// SnapshotsSince returns raw observations scraped after the given checkpoint,
// ordered by source and newest first within each source.
func SnapshotsSince(ctx context.Context, db bun.IDB, since time.Time) ([]*models.ScheduleSnapshot, error) {
	var snaps []*models.ScheduleSnapshot
	err := db.NewSelect().
		Model(&snaps).
		Where("scraped_at > ?", since).
		Order("source ASC").
		OrderExpr("scraped_at DESC").
		Scan(ctx)

	return snaps, err
}

// InsertScrapeRun records a scraper run header.
func InsertScrapeRun(ctx context.Context, db bun.IDB, run *models.ScrapeRun) error {
	_, err := db.NewInsert().Model(run).Exec(ctx)
	return err
}

// InsertSnapshots appends raw observations for a run.
func InsertSnapshots(ctx context.Context, db bun.IDB, snaps []*models.ScheduleSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&snaps).Exec(ctx)
	return err
}
