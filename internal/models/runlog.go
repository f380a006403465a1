package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AggregationLog records one invocation of the silver aggregation engine.
// A row is created when the run starts and finalized exactly once, either as
// completed with its counters or as failed with an error message. The maximum
// completed_at among completed rows is the checkpoint for the next run.
type AggregationLog struct {
	bun.BaseModel `bun:"table:silver_aggregation_log,alias:l"`

	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	RunID            string     `bun:"run_id,notnull" json:"run_id"`
	Source           string     `bun:"source,notnull" json:"source"`
	StartedAt        time.Time  `bun:"started_at,nullzero,notnull,default:current_timestamp" json:"started_at"`
	CompletedAt      *time.Time `bun:"completed_at" json:"completed_at,omitempty"`
	RecordsProcessed int        `bun:"records_processed,default:0" json:"records_processed"`
	RecordsInserted  int        `bun:"records_inserted,default:0" json:"records_inserted"`
	RecordsUpdated   int        `bun:"records_updated,default:0" json:"records_updated"`
	RecordsCancelled int        `bun:"records_cancelled,default:0" json:"records_cancelled"`
	Status           RunStatus  `bun:"status,notnull,default:'running'" json:"status"`
	ErrorMessage     *string    `bun:"error_message" json:"error_message,omitempty"`
}

// Finalized reports whether the run has reached a terminal status.
func (l *AggregationLog) Finalized() bool {
	return l.Status == RunCompleted || l.Status == RunFailed
}
