package migrations

import (
	"context"
	"testing"

	"github.com/studiopulse/aggregator/internal/database"
)

func TestMigrationNamesFollowBunFormat(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) != 2 {
		t.Fatalf("expected 2 registered migrations, got %d", len(sorted))
	}
	if sorted[0].Name != "20250501000000" {
		t.Fatalf("unexpected first migration name: %s", sorted[0].Name)
	}
	if sorted[1].Name != "20250501000001" {
		t.Fatalf("unexpected second migration name: %s", sorted[1].Name)
	}
}

func TestRunMigrationsCreatesSchema(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDB("file:migrations_test?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for _, table := range []string{"scrape_runs", "schedule_snapshots", "silver_classes", "silver_aggregation_log"} {
		if _, err := db.ExecContext(ctx, "SELECT count(*) FROM "+table); err != nil {
			t.Fatalf("table %s missing after migration: %v", table, err)
		}
	}

	// A second invocation finds nothing pending.
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}
}
