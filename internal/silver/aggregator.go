// Package silver implements the bronze-to-silver incremental aggregation:
// raw per-visit schedule snapshots are deduplicated into one canonical record
// per real-world class occurrence, refreshed as re-scrapes arrive.
//
// The business rules are deliberately explicit in Run:
//   - past occurrences are frozen; re-scrapes never mutate them
//   - future occurrences always take the latest observed state
//   - a future occurrence missing from a fresh scrape of its source is
//     inferred cancelled; it is never deleted
//   - a failed run never advances the checkpoint, so its input window is
//     reprocessed on the next attempt
package silver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/studiopulse/aggregator/internal/identity"
	"github.com/studiopulse/aggregator/internal/models"
	"github.com/studiopulse/aggregator/internal/repositories"
	"github.com/studiopulse/aggregator/internal/sources"
)

// defaultBootstrapWindow bounds the very first run, before any checkpoint
// exists.
const defaultBootstrapWindow = 24 * time.Hour

// Stats summarizes one aggregation pass.
type Stats struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Cancelled int `json:"cancelled"`
}

func (s Stats) counters() repositories.RunCounters {
	return repositories.RunCounters{
		Processed: s.Processed,
		Inserted:  s.Inserted,
		Updated:   s.Updated,
		Cancelled: s.Cancelled,
	}
}

// Options tunes an Aggregator. Zero values fall back to defaults.
type Options struct {
	// BootstrapWindow is how far back the first-ever run reads.
	BootstrapWindow time.Duration
	// Now overrides the wall clock, for tests.
	Now func() time.Time
	// Logger receives run progress; defaults to slog.Default().
	Logger *slog.Logger
}

// Aggregator runs one sequential bronze-to-silver pass per invocation. It is
// the only writer of the silver tables; overlapping runs are the caller's
// responsibility to prevent.
type Aggregator struct {
	db        *bun.DB
	deriver   *identity.Deriver
	enhancers map[string]sources.Enhancer
	window    time.Duration
	now       func() time.Time
	log       *slog.Logger
}

// New creates an aggregator over the given store.
func New(db *bun.DB, deriver *identity.Deriver, enhancers map[string]sources.Enhancer, opts Options) *Aggregator {
	if opts.BootstrapWindow <= 0 {
		opts.BootstrapWindow = defaultBootstrapWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{
		db:        db,
		deriver:   deriver,
		enhancers: enhancers,
		window:    opts.BootstrapWindow,
		now:       opts.Now,
		log:       opts.Logger,
	}
}

// Run executes one aggregation pass and records it in the run log. On a store
// failure the run is finalized as failed and the error returned; mutations
// already committed stay in place, the checkpoint does not move.
func (a *Aggregator) Run(ctx context.Context) (Stats, error) {
	runID := uuid.NewString()

	entry, err := repositories.BeginRun(ctx, a.db, runID, models.ScopeAll, a.now())
	if err != nil {
		return Stats{}, fmt.Errorf("begin aggregation run: %w", err)
	}
	a.log.Info("aggregation run started", "run_id", runID)

	stats, err := a.process(ctx)
	if err != nil {
		if failErr := repositories.FailRun(ctx, a.db, entry, err.Error(), a.now()); failErr != nil {
			a.log.Error("finalize failed run", "run_id", runID, "error", failErr)
		}
		return Stats{}, err
	}

	if err := repositories.CompleteRun(ctx, a.db, entry, stats.counters(), a.now()); err != nil {
		return Stats{}, fmt.Errorf("complete aggregation run: %w", err)
	}

	a.log.Info("aggregation run completed", "run_id", runID,
		"processed", stats.Processed, "inserted", stats.Inserted,
		"updated", stats.Updated, "cancelled", stats.Cancelled)
	return stats, nil
}

func (a *Aggregator) process(ctx context.Context) (Stats, error) {
	var stats Stats

	since, err := a.checkpoint(ctx)
	if err != nil {
		return stats, fmt.Errorf("read checkpoint: %w", err)
	}

	snaps, err := repositories.SnapshotsSince(ctx, a.db, since)
	if err != nil {
		return stats, fmt.Errorf("read snapshots: %w", err)
	}
	if len(snaps) == 0 {
		a.log.Info("no new snapshots to process", "since", since)
		return stats, nil
	}
	a.log.Info("processing snapshots", "count", len(snaps), "since", since)

	groups := a.groupByIdentity(snaps)
	stats.Processed = len(groups)

	now := a.now()
	for classID, snap := range groups {
		a.enhance(snap)
		isPast := snap.StartTS != nil && snap.StartTS.Before(now)

		existing, err := repositories.ClassByID(ctx, a.db, classID)
		if err != nil {
			return Stats{}, fmt.Errorf("load class %s: %w", classID, err)
		}

		switch {
		case existing == nil:
			if err := repositories.InsertClass(ctx, a.db, a.classFromSnapshot(classID, snap, isPast, now)); err != nil {
				return Stats{}, fmt.Errorf("insert class %s: %w", classID, err)
			}
			stats.Inserted++
		case existing.IsPast:
			// Past is frozen; whatever a late scrape claims, the final
			// state stands.
			a.log.Debug("skipping past class", "class_id", classID)
		default:
			if err := repositories.UpdateClass(ctx, a.db, a.classFromSnapshot(classID, snap, isPast, now), now); err != nil {
				return Stats{}, fmt.Errorf("update class %s: %w", classID, err)
			}
			stats.Updated++
		}
	}

	cancelled, err := a.sweepCancellations(ctx, groups, now)
	if err != nil {
		return Stats{}, err
	}
	stats.Cancelled = cancelled

	return stats, nil
}

// checkpoint returns the lower bound of the snapshot window: the last
// completed run, or the bootstrap window when no run ever completed.
func (a *Aggregator) checkpoint(ctx context.Context) (time.Time, error) {
	last, err := repositories.LastCompletedAt(ctx, a.db)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		return a.now().Add(-a.window), nil
	}
	return *last, nil
}

// groupByIdentity buckets snapshots by derived class id, keeping only the
// observation with the greatest scraped_at per bucket. Ties keep the first
// seen; identical timestamps are expected to carry identical payloads.
func (a *Aggregator) groupByIdentity(snaps []*models.ScheduleSnapshot) map[string]*models.ScheduleSnapshot {
	groups := make(map[string]*models.ScheduleSnapshot)
	for _, snap := range snaps {
		classID := a.deriver.Derive(snap)
		if current, ok := groups[classID]; !ok || snap.ScrapedAt.After(current.ScrapedAt) {
			groups[classID] = snap
		}
	}
	return groups
}

// enhance fills still-empty structured fields from the raw payload using the
// source's grammar. Populated fields are never overwritten; sources without
// an enhancer pass through untouched.
func (a *Aggregator) enhance(snap *models.ScheduleSnapshot) {
	enhancer, ok := a.enhancers[snap.Source]
	if !ok {
		return
	}

	fields := enhancer.Enhance(snap.Raw)
	if snap.StartTS == nil && fields.StartTS != nil {
		snap.StartTS = fields.StartTS
	}
	if snap.EndTS == nil && fields.EndTS != nil {
		snap.EndTS = fields.EndTS
	}
	if snap.Capacity == nil && fields.Capacity != nil {
		snap.Capacity = fields.Capacity
	}
	if snap.SpotsAvailable == nil && fields.SpotsAvailable != nil {
		snap.SpotsAvailable = fields.SpotsAvailable
	}
}

// sweepCancellations flags future, still-active classes whose source was
// scraped in this batch but whose identity did not show up. Sources with no
// observations at all this run are left alone: silence is indistinguishable
// from a scrape failure, and inferring mass cancellation from it would be
// wrong.
func (a *Aggregator) sweepCancellations(ctx context.Context, groups map[string]*models.ScheduleSnapshot, now time.Time) (int, error) {
	seenSources := make(map[string]bool)
	for _, snap := range groups {
		seenSources[snap.Source] = true
	}

	future, err := repositories.FutureActiveClasses(ctx, a.db, now)
	if err != nil {
		return 0, fmt.Errorf("load future classes: %w", err)
	}

	cancelled := 0
	for _, class := range future {
		if !seenSources[class.Source] {
			continue
		}
		if _, seen := groups[class.ClassID]; seen {
			continue
		}
		if err := repositories.MarkClassCancelled(ctx, a.db, class.ClassID, now); err != nil {
			return 0, fmt.Errorf("cancel class %s: %w", class.ClassID, err)
		}
		a.log.Info("class inferred cancelled", "class_id", class.ClassID, "source", class.Source)
		cancelled++
	}
	return cancelled, nil
}

// classFromSnapshot shapes an enhanced observation into its canonical row.
func (a *Aggregator) classFromSnapshot(classID string, snap *models.ScheduleSnapshot, isPast bool, now time.Time) *models.SilverClass {
	runID := snap.RunID
	snapshotID := snap.ID
	return &models.SilverClass{
		ClassID:          classID,
		Source:           snap.Source,
		ClassName:        snap.ClassName,
		Instructor:       snap.Instructor,
		Location:         snap.Location,
		StartTS:          snap.StartTS,
		EndTS:            snap.EndTS,
		Capacity:         snap.Capacity,
		SpotsAvailable:   snap.SpotsAvailable,
		Status:           snap.Status,
		URL:              snap.URL,
		FirstSeenAt:      now,
		LastUpdatedAt:    now,
		LastScrapedAt:    snap.ScrapedAt,
		IsCancelled:      false,
		IsPast:           isPast,
		SourceRunID:      &runID,
		SourceSnapshotID: &snapshotID,
		RawData:          snap.Raw,
	}
}
