package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/studiopulse/aggregator/internal/models"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.ScrapeRun)(nil),
			(*models.ScheduleSnapshot)(nil),
			(*models.SilverClass)(nil),
			(*models.AggregationLog)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		modelsList := []interface{}{
			(*models.AggregationLog)(nil),
			(*models.SilverClass)(nil),
			(*models.ScheduleSnapshot)(nil),
			(*models.ScrapeRun)(nil),
		}

		for _, model := range modelsList {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})
}
