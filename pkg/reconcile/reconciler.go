package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/textfix/pkg/logger"
)

// Reconciler scans registered targets, repairs broken text and, in apply
// mode, writes the corrections back. A Reconciler holds no state between
// runs; every Run gets its own cursors, visited sets and sample buffer.
type Reconciler struct {
	registry     *Registry
	logger       *slog.Logger
	checkpointer Checkpointer
	sampleSize   int
	writeRetries int
	writeBackoff time.Duration
	now          func() time.Time
	newRunID     func() string
}

// New creates a reconciler over the targets of registry.
func New(registry *Registry, opts ...Option) (*Reconciler, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	r := &Reconciler{
		registry:     registry,
		logger:       slog.Default(),
		checkpointer: NopCheckpointer{},
		sampleSize:   DefaultSampleSize,
		writeRetries: DefaultWriteRetries,
		writeBackoff: DefaultWriteBackoff,
		now:          time.Now,
		newRunID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run scans the selected targets one after another in registration order.
//
// Invalid options fail before any record is read. Write failures are logged,
// counted and recorded in the report without stopping the scan; a failing
// page read ends only the affected target. When ctx is cancelled Run stops
// between records and returns the partial report together with ctx.Err().
func (r *Reconciler) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	targets, err := r.registry.Select(opts.Targets)
	if err != nil {
		return nil, err
	}

	runID := r.newRunID()
	log := r.logger.With(logger.RunID(runID), logger.Mode(string(opts.Mode)))
	rn := &run{
		Reconciler: r,
		opts:       opts,
		lc:         newLifecycle(log),
		log:        log,
		report: &Report{
			RunID:     runID,
			Mode:      opts.Mode,
			StartedAt: r.now(),
			Targets:   make([]TargetStats, 0, len(targets)),
			Samples:   make([]Sample, 0, r.sampleSize),
		},
	}
	return rn.execute(ctx, targets)
}

// run is the state of a single Run call.
type run struct {
	*Reconciler
	opts    RunOptions
	lc      *lifecycle
	log     *slog.Logger
	report  *Report
	scanned int
}

func (rn *run) execute(ctx context.Context, targets []Target) (*Report, error) {
	if err := rn.lc.Fire(ctx, eventStart); err != nil {
		return nil, err
	}
	rn.log.InfoContext(ctx, "run started",
		slog.Int("targets", len(targets)),
		slog.Int("batch_size", rn.opts.BatchSize),
		slog.Int("limit", rn.opts.Limit))

	for _, t := range targets {
		stats := rn.scanTarget(ctx, t)
		rn.report.Targets = append(rn.report.Targets, stats)
		rn.report.Total.add(stats.Stats)
		if ctx.Err() != nil {
			break
		}
	}

	rn.report.FinishedAt = rn.now()

	if err := ctx.Err(); err != nil {
		if lcErr := rn.lc.Fire(ctx, eventInterrupt); lcErr != nil {
			err = errors.Join(err, lcErr)
		}
		rn.report.State = rn.lc.Current()
		rn.log.WarnContext(ctx, "run interrupted",
			slog.String("total", rn.report.Total.String()),
			logger.Error(err))
		return rn.report, err
	}

	if err := rn.lc.Fire(ctx, eventFinish); err != nil {
		rn.report.State = rn.lc.Current()
		return rn.report, err
	}
	rn.report.State = rn.lc.Current()
	rn.log.InfoContext(ctx, "run finished",
		slog.String("total", rn.report.Total.String()),
		slog.Int("errors", rn.report.Total.Failed+len(rn.report.TargetErrors)),
		logger.Duration(rn.report.Duration()))
	return rn.report, nil
}

// remaining returns how many records the global limit still allows, or -1
// when there is no limit.
func (rn *run) remaining() int {
	if rn.opts.Limit == 0 {
		return -1
	}
	return max(rn.opts.Limit-rn.scanned, 0)
}

func (rn *run) scanTarget(ctx context.Context, t Target) TargetStats {
	stats := TargetStats{Target: t.Name}
	log := rn.log.With(logger.Target(t.Name))

	cursor := rn.startCursor(ctx, t, log)
	stats.ResumedFrom = cursor
	stats.Cursor = cursor

	// Ids visited in this run. A store that hands out an id twice would
	// otherwise make the scan loop forever.
	visited := make(map[string]struct{})

	log.InfoContext(ctx, "scanning target", logger.Cursor(cursor))

	// checkpoint is the last id up to which every record is settled. It
	// stops moving at the first record whose write did not go through.
	checkpoint, saved := cursor, cursor
	held, synced := false, false

	for {
		if ctx.Err() != nil {
			return stats
		}

		pageSize := rn.opts.BatchSize
		if left := rn.remaining(); left >= 0 {
			if left == 0 {
				log.InfoContext(ctx, "scan limit reached", slog.Int("limit", rn.opts.Limit))
				return stats
			}
			pageSize = min(pageSize, left)
		}

		page, err := t.Store.ListPage(ctx, t.pageQuery(cursor, pageSize))
		if err != nil {
			if ctx.Err() != nil {
				return stats
			}
			rn.targetFailed(ctx, log, t.Name, errors.Join(ErrReadPage, err))
			return stats
		}

		for _, rec := range page {
			if ctx.Err() != nil {
				return stats
			}
			if _, seen := visited[rec.ID]; seen || rec.ID == "" || (cursor != "" && rec.ID == cursor) {
				rn.targetFailed(ctx, log, t.Name, errors.Join(ErrCursorStalled, fmt.Errorf("record id %q after cursor %q", rec.ID, cursor)))
				return stats
			}
			visited[rec.ID] = struct{}{}

			stats.Scanned++
			rn.scanned++
			cursor = rec.ID
			stats.Cursor = cursor

			settled := rn.reconcileRecord(ctx, log, t, rec, &stats.Stats)
			if !settled && !held {
				held = true
				log.WarnContext(ctx, "checkpoint held before unsaved record",
					logger.RecordID(rec.ID), logger.Cursor(checkpoint))
			}
			if !held {
				checkpoint = rec.ID
			}
		}

		if rn.opts.Mode == ModeApply && len(page) > 0 && (!synced || checkpoint != saved) {
			rn.saveCheckpoint(ctx, log, t.Name, checkpoint)
			saved, synced = checkpoint, true
		}

		if len(page) < pageSize {
			break
		}
	}

	stats.Completed = true
	if rn.opts.Mode == ModeApply {
		// A target with unsaved records keeps its checkpoint so a resumed
		// run visits them again.
		if held {
			rn.saveCheckpoint(ctx, log, t.Name, checkpoint)
		} else {
			rn.saveCheckpoint(ctx, log, t.Name, "")
		}
	}

	log.InfoContext(ctx, "target done", slog.String("stats", stats.Stats.String()))
	return stats
}

func (rn *run) startCursor(ctx context.Context, t Target, log *slog.Logger) string {
	if !rn.opts.Resume {
		return ""
	}
	cursor, ok, err := rn.checkpointer.Load(ctx, t.Name)
	if err != nil {
		log.WarnContext(ctx, "failed to load checkpoint, scanning from the start",
			logger.Error(errors.Join(ErrCheckpoint, err)))
		return ""
	}
	if !ok {
		return ""
	}
	return cursor
}

// saveCheckpoint stores cursor for target. An empty cursor clears it.
func (rn *run) saveCheckpoint(ctx context.Context, log *slog.Logger, target, cursor string) {
	if cursor == "" {
		if err := rn.checkpointer.Clear(ctx, target); err != nil {
			log.WarnContext(ctx, "failed to clear checkpoint", logger.Error(errors.Join(ErrCheckpoint, err)))
		}
		return
	}
	if err := rn.checkpointer.Save(ctx, target, cursor); err != nil {
		log.WarnContext(ctx, "failed to save checkpoint",
			logger.Cursor(cursor), logger.Error(errors.Join(ErrCheckpoint, err)))
	}
}

// reconcileRecord inspects rec and, in apply mode, writes its corrections.
// It reports whether the record is settled: clean, dry-run or written.
func (rn *run) reconcileRecord(ctx context.Context, log *slog.Logger, t Target, rec Record, stats *Stats) bool {
	cs := t.Inspect(rec)
	if cs.Empty() {
		return true
	}

	stats.ChangedRecords++
	stats.FieldChanges += len(cs.Changes)
	for _, ch := range cs.Changes {
		rn.sample(t.Name, rec.ID, ch)
	}

	if rn.opts.Mode != ModeApply {
		return true
	}

	if err := rn.persist(ctx, t, cs); err != nil {
		if ctx.Err() != nil {
			// Interrupted, not failed. The scan stops before the next record.
			log.DebugContext(ctx, "update interrupted", logger.RecordID(rec.ID), logger.Error(err))
			return false
		}
		stats.Failed++
		err = errors.Join(ErrUpdateRecord, err)
		if len(rn.report.Errors) < maxRecordedErrors {
			rn.report.Errors = append(rn.report.Errors, RecordError{Target: t.Name, RecordID: rec.ID, Err: err})
		}
		log.ErrorContext(ctx, "failed to update record",
			logger.RecordID(rec.ID),
			logger.Error(err))
		return false
	}
	stats.Applied++
	log.DebugContext(ctx, "record updated",
		logger.RecordID(rec.ID),
		slog.Int("fields", len(cs.Changes)))
	return true
}

// persist issues the single partial update for a change set. Only errors the
// store marked with retry.RetryableError are retried.
func (rn *run) persist(ctx context.Context, t Target, cs ChangeSet) error {
	patch := cs.Patch()
	backoff := retry.WithMaxRetries(uint64(rn.writeRetries), retry.NewExponential(rn.writeBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return t.Store.UpdateByID(ctx, cs.RecordID, patch)
	})
}

func (rn *run) sample(target, recordID string, ch FieldChange) {
	if len(rn.report.Samples) >= rn.sampleSize {
		return
	}
	rn.report.Samples = append(rn.report.Samples, Sample{
		Target:   target,
		RecordID: recordID,
		Field:    ch.Field,
		Before:   truncateRunes(ch.Before.String(), sampleValueLimit),
		After:    truncateRunes(ch.After.String(), sampleValueLimit),
	})
}

func (rn *run) targetFailed(ctx context.Context, log *slog.Logger, target string, err error) {
	rn.report.TargetErrors = append(rn.report.TargetErrors, TargetError{Target: target, Err: err})
	log.ErrorContext(ctx, "target scan aborted", logger.Error(err))
}
