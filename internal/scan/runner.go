package scan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"vidsweep/internal/content"
	"vidsweep/internal/logging"
	"vidsweep/internal/remediate"
	"vidsweep/internal/settings"
)

const (
	modeFull  = "full"
	modeBatch = "batch"
)

// ErrPageOutOfRange is returned by RunBatch when index*size does not fit an int.
var ErrPageOutOfRange = errors.New("batch page out of range")

// Runner processes video records with a fixed settings snapshot.
type Runner struct {
	store    content.Store
	checker  remediate.Checker
	settings settings.ScanSettings
	sink     *logging.Sink
	now      func() time.Time
}

// NewRunner builds a Runner. A nil sink discards log lines.
func NewRunner(store content.Store, checker remediate.Checker, s settings.ScanSettings, sink *logging.Sink) *Runner {
	if sink == nil {
		sink = logging.NewSink(nil, false)
	}
	return &Runner{store: store, checker: checker, settings: s, sink: sink, now: time.Now}
}

// Settings returns the settings snapshot the runner applies.
func (r *Runner) Settings() settings.ScanSettings {
	return r.settings
}

// RunFullScan enumerates and processes every video record. When ctx ends
// the records not yet reached are left untouched and ctx's error is returned.
func (r *Runner) RunFullScan(ctx context.Context) (Report, error) {
	start := r.now()
	runsTotal.WithLabelValues(modeFull).Inc()

	records, err := r.store.ListVideos(ctx, 0, 0)
	if err != nil {
		return Report{}, fmt.Errorf("enumerate videos: %w", err)
	}

	report := newReport(start)
	sink := r.sink.With(logging.String(logging.FieldRunID, report.RunID))
	sink.Info("scan started", logging.Int("videos", len(records)))

	var errs remediate.ErrorList
	done, err := r.process(ctx, sink, records, &errs)
	if err != nil {
		sink.Warn("scan interrupted", logging.Int("processed", done.processed), logging.Error(err))
		return Report{}, fmt.Errorf("scan interrupted: %w", err)
	}
	report.Outcomes = done.outcomes
	report.TotalScanned = len(records)
	report.Skipped = done.skipped
	report.BrokenCount = len(report.Outcomes)
	report.Errors = errs.Messages()
	report.Duration = r.now().Sub(start)
	runDuration.WithLabelValues(modeFull).Observe(report.Duration.Seconds())

	sink.Info("scan completed",
		logging.Int("total_scanned", report.TotalScanned),
		logging.Int("broken", report.BrokenCount),
		logging.Int("errors", len(report.Errors)),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// RunBatch processes the page at offset index*size. A size of zero or less
// uses the configured batch size.
func (r *Runner) RunBatch(ctx context.Context, index, size int) (BatchResult, error) {
	if index < 0 {
		return BatchResult{}, fmt.Errorf("batch index %d: must not be negative", index)
	}
	if size <= 0 {
		size = r.settings.BatchSize
	}
	if index > math.MaxInt/size {
		return BatchResult{}, fmt.Errorf("batch index %d with size %d: %w", index, size, ErrPageOutOfRange)
	}
	start := r.now()
	runsTotal.WithLabelValues(modeBatch).Inc()

	records, err := r.store.ListVideos(ctx, index*size, size)
	if err != nil {
		return BatchResult{}, fmt.Errorf("enumerate videos page %d: %w", index, err)
	}

	sink := r.sink.With(logging.Int("batch", index))
	var errs remediate.ErrorList
	done, err := r.process(ctx, sink, records, &errs)
	if err != nil {
		sink.Warn("batch interrupted", logging.Int("processed", done.processed), logging.Error(err))
		return BatchResult{}, fmt.Errorf("batch %d interrupted: %w", index, err)
	}
	result := BatchResult{
		Index:     index,
		Size:      size,
		Processed: len(records),
		Skipped:   done.skipped,
		Broken:    done.outcomes,
		Errors:    errs.Messages(),
	}
	runDuration.WithLabelValues(modeBatch).Observe(r.now().Sub(start).Seconds())
	sink.Info("batch completed",
		logging.Int("processed", result.Processed),
		logging.Int("broken", len(result.Broken)),
	)
	return result, nil
}

// RunAllBatches calls RunBatch for successive indices until a short page or
// ceil(total/size) pages, passing each result to fn. fn may be nil; a non-nil
// error from fn stops the sequence and is returned. The merged Report covers
// the pages that ran.
func (r *Runner) RunAllBatches(ctx context.Context, size int, fn func(BatchResult) error) (Report, error) {
	if size <= 0 {
		size = r.settings.BatchSize
	}
	start := r.now()
	total, err := r.store.CountVideos(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count videos: %w", err)
	}
	pages := (total + size - 1) / size

	var results []BatchResult
	for index := 0; index < pages; index++ {
		if err := ctx.Err(); err != nil {
			return mergeSince(start, r.now(), results), err
		}
		res, err := r.RunBatch(ctx, index, size)
		if err != nil {
			return mergeSince(start, r.now(), results), err
		}
		results = append(results, res)
		if fn != nil {
			if err := fn(res); err != nil {
				return mergeSince(start, r.now(), results), err
			}
		}
		if res.Last() {
			break
		}
	}
	return mergeSince(start, r.now(), results), nil
}

func mergeSince(start, end time.Time, results []BatchResult) Report {
	report := Merge(results...)
	report.Timestamp = start.UTC()
	report.Duration = end.Sub(start)
	return report
}

type tally struct {
	outcomes  []remediate.Outcome
	processed int
	skipped   int
}

// process runs records in order and stops before the next record once ctx
// is done.
func (r *Runner) process(ctx context.Context, sink *logging.Sink, records []content.MediaRecord, errs *remediate.ErrorList) (tally, error) {
	orch := remediate.New(r.store, r.checker, r.settings, sink)
	t := tally{outcomes: []remediate.Outcome{}}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return t, err
		}
		before := errs.Len()
		res := orch.Process(ctx, rec, errs)
		recordsTotal.WithLabelValues(res.State.String()).Inc()
		for _, e := range errs.Since(before) {
			errorsTotal.WithLabelValues(e.ErrorKind()).Inc()
		}
		t.processed++
		if rec.Quarantined() {
			t.skipped++
		}
		if res.Outcome != nil {
			t.outcomes = append(t.outcomes, *res.Outcome)
		}
	}
	return t, ctx.Err()
}
