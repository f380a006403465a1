package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// SilverClass is the canonical record for one real-world class occurrence,
// deduplicated across repeated scrapes. One row per derived class id.
type SilverClass struct {
	bun.BaseModel `bun:"table:silver_classes,alias:c"`

	ClassID        string     `bun:"class_id,pk" json:"class_id"`
	Source         string     `bun:"source,notnull" json:"source"`
	ClassName      *string    `bun:"class_name" json:"class_name,omitempty"`
	Instructor     *string    `bun:"instructor" json:"instructor,omitempty"`
	Location       *string    `bun:"location" json:"location,omitempty"`
	StartTS        *time.Time `bun:"start_ts" json:"start_ts,omitempty"`
	EndTS          *time.Time `bun:"end_ts" json:"end_ts,omitempty"`
	Capacity       *int       `bun:"capacity" json:"capacity,omitempty"`
	SpotsAvailable *int       `bun:"spots_available" json:"spots_available,omitempty"`
	Status         *string    `bun:"status" json:"status,omitempty"`
	URL            *string    `bun:"url" json:"url,omitempty"`

	FirstSeenAt   time.Time `bun:"first_seen_at,nullzero,notnull,default:current_timestamp" json:"first_seen_at"`
	LastUpdatedAt time.Time `bun:"last_updated_at,nullzero,notnull,default:current_timestamp" json:"last_updated_at"`
	LastScrapedAt time.Time `bun:"last_scraped_at,notnull" json:"last_scraped_at"`
	IsCancelled   bool      `bun:"is_cancelled,default:false" json:"is_cancelled"`
	IsPast        bool      `bun:"is_past,default:false" json:"is_past"`

	SourceRunID      *string `bun:"source_run_id" json:"source_run_id,omitempty"`
	SourceSnapshotID *int64  `bun:"source_snapshot_id" json:"source_snapshot_id,omitempty"`
	RawData          RawMap  `bun:"raw_data,type:json" json:"raw_data,omitempty"`
}

// Validate checks that required class fields are present.
func (c *SilverClass) Validate() error {
	if c.ClassID == "" {
		return errors.New("class id is required")
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.LastScrapedAt.IsZero() {
		return errors.New("last scraped timestamp is required")
	}
	return nil
}
