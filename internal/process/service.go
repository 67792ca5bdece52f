// Package process runs the full reconciliation pipeline: read the stored
// roster, read an uploaded absence sheet, match the two and report stats.
package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"absencer/internal/absence"
	"absencer/internal/metrics"
	"absencer/internal/runs"
	"absencer/internal/storage"
	"absencer/internal/tabular"
	"absencer/internal/tabular/csvfile"
	"absencer/internal/tabular/xlsxfile"
)

// ErrNoRoster is returned when no employee roster has been uploaded yet.
var ErrNoRoster = errors.New("no employee roster uploaded")

// Pipeline wires storage, instrumentation and optional run history together.
// Metrics and Runs may be nil.
type Pipeline struct {
	Storage *storage.Store
	Metrics *metrics.Collector
	Runs    *runs.Store

	// Now anchors date plausibility checks. Tests pin it.
	Now func() time.Time
}

func NewPipeline(store *storage.Store, collector *metrics.Collector, history *runs.Store) *Pipeline {
	return &Pipeline{Storage: store, Metrics: collector, Runs: history, Now: time.Now}
}

// Outcome is everything one run produced.
type Outcome struct {
	Results   []absence.Result
	Employees int
	Skipped   int
	Processed int
	Excluded  int
	Errors    []absence.RowError
	Warnings  []absence.RowWarning
	Stats     absence.MatchStats
	Duration  time.Duration
}

// Run reconciles the absence sheet at absencePath against the stored roster.
// sourceName and format are recorded in the run history only.
func (p *Pipeline) Run(ctx context.Context, absencePath, sourceName, format string) (*Outcome, error) {
	started := time.Now()

	rosterPath, ok := p.Storage.RosterPath()
	if !ok {
		return nil, ErrNoRoster
	}

	rosterSrc, closeRoster, err := openSource(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer closeRoster()

	absenceSrc, closeAbsences, err := openSource(absencePath)
	if err != nil {
		return nil, fmt.Errorf("open absence sheet: %w", err)
	}
	defer closeAbsences()

	now := p.Now
	if now == nil {
		now = time.Now
	}
	extractor := absence.NewExtractor(absence.NewValidator(now()))

	roster, err := extractor.Employees(rosterSrc)
	if err != nil {
		return nil, err
	}

	batch, err := extractor.Absences(absenceSrc)
	if err != nil {
		return nil, err
	}

	for _, rowErr := range batch.Errors {
		slog.Warn("absence row dropped", "row", rowErr.Row, "err", rowErr.Err)
	}
	for _, warning := range batch.Warnings {
		slog.Warn("absence row flagged", "row", warning.Row, "message", warning.Message)
	}

	results, stats := absence.Reconcile(batch.Absences, roster.Employees)
	for _, name := range stats.UnmatchedNames {
		slog.Warn("no roster match for absence", "name", name)
	}
	for _, key := range stats.Collisions {
		slog.Warn("roster name collision", "name", key)
	}

	outcome := &Outcome{
		Results:   results,
		Employees: len(roster.Employees),
		Skipped:   roster.Skipped,
		Processed: batch.Processed,
		Excluded:  batch.Excluded,
		Errors:    batch.Errors,
		Warnings:  batch.Warnings,
		Stats:     stats,
		Duration:  time.Since(started),
	}
	p.record(ctx, sourceName, format, outcome)

	slog.Info("reconciliation run finished",
		"employees", outcome.Employees,
		"processed", outcome.Processed,
		"excluded", outcome.Excluded,
		"errors", len(outcome.Errors),
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"durationMs", outcome.Duration.Milliseconds(),
	)
	return outcome, nil
}

func (p *Pipeline) record(ctx context.Context, sourceName, format string, outcome *Outcome) {
	if p.Metrics != nil {
		p.Metrics.RowsProcessed.Add(float64(outcome.Processed))
		p.Metrics.RowsExcluded.Add(float64(outcome.Excluded))
		p.Metrics.RowErrors.Add(float64(len(outcome.Errors)))
		p.Metrics.StaleDates.Add(float64(len(outcome.Warnings)))
		p.Metrics.Matched.Add(float64(outcome.Stats.Matched))
		p.Metrics.Unmatched.Add(float64(outcome.Stats.Unmatched))
		p.Metrics.RunDuration.Observe(outcome.Duration.Seconds())
	}

	if p.Runs == nil {
		return
	}
	run := runs.Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		SourceFile: sourceName,
		Format:     format,
		Employees:  outcome.Employees,
		Processed:  outcome.Processed,
		Excluded:   outcome.Excluded,
		Errored:    len(outcome.Errors),
		Matched:    outcome.Stats.Matched,
		Unmatched:  outcome.Stats.Unmatched,
		DurationMs: outcome.Duration.Milliseconds(),
	}
	if err := p.Runs.Insert(ctx, run); err != nil {
		slog.Error("persist run history", "err", err)
	}
}

// openSource picks the reader matching the file extension. The returned
// close function is a no-op for CSV sources.
func openSource(path string) (tabular.Source, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		reader, err := xlsxfile.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return reader, func() { reader.Close() }, nil
	case ".csv":
		reader, err := csvfile.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return reader, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedFile, filepath.Base(path))
	}
}
