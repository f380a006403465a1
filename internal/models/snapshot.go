package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// ScrapeRun is the header row a scraper writes before its snapshots.
type ScrapeRun struct {
	bun.BaseModel `bun:"table:scrape_runs,alias:r"`

	RunID     string    `bun:"run_id,pk" json:"run_id"`
	Source    string    `bun:"source,notnull" json:"source"`
	StartedAt time.Time `bun:"started_at,nullzero,notnull,default:current_timestamp" json:"started_at"`
	GitSHA    *string   `bun:"git_sha" json:"git_sha,omitempty"`
}

// ScheduleSnapshot is one raw observation of a class occurrence as seen by a
// scraper on one visit. Rows are append-only; the aggregator never mutates them.
type ScheduleSnapshot struct {
	bun.BaseModel `bun:"table:schedule_snapshots,alias:s"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	RunID          string     `bun:"run_id,notnull" json:"run_id"`
	Source         string     `bun:"source,notnull" json:"source"`
	ItemUID        *string    `bun:"item_uid" json:"item_uid,omitempty"`
	ClassName      *string    `bun:"class_name" json:"class_name,omitempty"`
	Instructor     *string    `bun:"instructor" json:"instructor,omitempty"`
	Location       *string    `bun:"location" json:"location,omitempty"`
	StartTS        *time.Time `bun:"start_ts" json:"start_ts,omitempty"`
	EndTS          *time.Time `bun:"end_ts" json:"end_ts,omitempty"`
	Capacity       *int       `bun:"capacity" json:"capacity,omitempty"`
	SpotsAvailable *int       `bun:"spots_available" json:"spots_available,omitempty"`
	Status         *string    `bun:"status" json:"status,omitempty"`
	URL            *string    `bun:"url" json:"url,omitempty"`
	ScrapedAt      time.Time  `bun:"scraped_at,nullzero,notnull,default:current_timestamp" json:"scraped_at"`
	Raw            RawMap     `bun:"raw,type:json,notnull" json:"raw"`
}

// Validate checks that required snapshot fields are present.
func (s *ScheduleSnapshot) Validate() error {
	if s.RunID == "" {
		return errors.New("run id is required")
	}
	if s.Source == "" {
		return errors.New("source is required")
	}
	if s.ScrapedAt.IsZero() {
		return errors.New("scraped_at is required")
	}
	return nil
}
