package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS ix_snapshots_source_start ON schedule_snapshots(source, start_ts)",
			"CREATE INDEX IF NOT EXISTS ix_snapshots_uid ON schedule_snapshots(source, item_uid, start_ts)",
			"CREATE INDEX IF NOT EXISTS ix_snapshots_scraped ON schedule_snapshots(scraped_at)",
			"CREATE INDEX IF NOT EXISTS ix_silver_source_start ON silver_classes(source, start_ts)",
			"CREATE INDEX IF NOT EXISTS ix_silver_status ON silver_classes(is_cancelled, is_past)",
			"CREATE INDEX IF NOT EXISTS ix_silver_updated ON silver_classes(last_updated_at)",
			"CREATE INDEX IF NOT EXISTS ix_aggregation_log_status ON silver_aggregation_log(status, completed_at)",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"DROP INDEX IF EXISTS ix_snapshots_source_start",
			"DROP INDEX IF EXISTS ix_snapshots_uid",
			"DROP INDEX IF EXISTS ix_snapshots_scraped",
			"DROP INDEX IF EXISTS ix_silver_source_start",
			"DROP INDEX IF EXISTS ix_silver_status",
			"DROP INDEX IF EXISTS ix_silver_updated",
			"DROP INDEX IF EXISTS ix_aggregation_log_status",
		}

		for _, idx := range indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return err
			}
		}

		return nil
	})
}
