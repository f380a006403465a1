package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/studiopulse/aggregator/internal/models"
)

// ClassByID fetches a canonical class record, or nil when none exists.
func ClassByID(ctx context.Context, db bun.IDB, classID string) (*models.SilverClass, error) {
	class := new(models.SilverClass)
	err := db.NewSelect().
		Model(class).
		Where("class_id = ?", classID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return class, nil
}

// InsertClass creates a canonical record for a newly seen occurrence.
func InsertClass(ctx context.Context, db bun.IDB, class *models.SilverClass) error {
	if err := class.Validate(); err != nil {
		return err
	}
	_, err := db.NewInsert().Model(class).Exec(ctx)
	return err
}

// UpdateClass overwrites the mutable fields of an existing canonical record
// with the latest observation. The cancelled flag is always cleared: a fresh
// observation means the occurrence is live again.
func UpdateClass(ctx context.Context, db bun.IDB, class *models.SilverClass, now time.Time) error {
	if err := class.Validate(); err != nil {
		return err
	}
	class.LastUpdatedAt = now
	class.IsCancelled = false

	_, err := db.NewUpdate().
		Model(class).
		Column("class_name", "instructor", "location",
			"start_ts", "end_ts", "capacity", "spots_available", "status", "url",
			"last_updated_at", "last_scraped_at", "is_cancelled", "is_past",
			"source_run_id", "source_snapshot_id", "raw_data").
		WherePK().
		Exec(ctx)

	return err
}

// FutureActiveClasses returns canonical records that start after now and are
// not yet marked cancelled. Only the columns needed by the cancellation sweep
// are selected.
func FutureActiveClasses(ctx context.Context, db bun.IDB, now time.Time) ([]*models.SilverClass, error) {
	var classes []*models.SilverClass
	err := db.NewSelect().
		Model(&classes).
		Column("class_id", "source").
		Where("start_ts > ?", now).
		Where("is_cancelled = ?", false).
		Scan(ctx)

	return classes, err
}

// MarkClassCancelled flags a canonical record as cancelled. Display fields are
// untouched so the final known state of the occurrence is preserved.
func MarkClassCancelled(ctx context.Context, db bun.IDB, classID string, now time.Time) error {
	_, err := db.NewUpdate().
		Model((*models.SilverClass)(nil)).
		Set("is_cancelled = ?", true).
		Set("last_updated_at = ?", now).
		Where("class_id = ?", classID).
		Exec(ctx)

	return err
}
