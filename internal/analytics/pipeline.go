package analytics

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/observability"
)

// RecordSource yields the detection log contents: all rows in file order
// (malformed rows retained with the invalid sentinel) plus the malformed
// count. A missing source returns domain.ErrNoData.
type RecordSource interface {
	ReadAll() ([]domain.DetectionRecord, int, error)
}

// Options are the analytical constants for one Pipeline.
type Options struct {
	// Window is the trailing filter duration relative to "now".
	Window time.Duration
	// Origin is the fallback location for records without coordinates.
	Origin domain.LocationKey
	// ArrowLength is the wind-arrow displacement in coordinate degrees.
	ArrowLength float64
	// ArrowheadSize is an opaque rendering hint echoed into snapshots.
	ArrowheadSize float64
}

// Pipeline runs the full read-filter-aggregate-project pass. It holds no
// state between passes beyond a readiness latch; every Refresh recomputes
// everything from the log, so re-invoking it at any cadence is safe.
type Pipeline struct {
	source  RecordSource
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline over the given source.
func New(source RecordSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one pass has completed. A no-data
// pass counts: serving the placeholder is a valid serving state.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a refresh yet")
	}
	return nil
}

// Refresh performs one full pass and returns the snapshot for the
// presentation layer. A missing log is not an error: it yields a NoData
// snapshot with empty tables so every consumer's contract stays total. Any
// other source failure is returned as-is.
func (p *Pipeline) Refresh(_ context.Context) (domain.Snapshot, error) {
	start := time.Now()
	now := domain.Now()

	snap := domain.Snapshot{
		GeneratedAt:   now,
		Window:        p.opts.Window,
		ArrowheadSize: p.opts.ArrowheadSize,
	}

	records, malformed, err := p.source.ReadAll()
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			p.logger.Info("no detection log yet, serving placeholder")
			p.metrics.RefreshNoData.Inc()
			p.metrics.Refreshes.Inc()
			snap.NoData = true
			p.ready.Store(true)
			return snap, nil
		}
		return domain.Snapshot{}, err
	}

	filtered := FilterWindow(records, now, p.opts.Window)

	snap.HourlyCounts = HourlyCounts(filtered)
	snap.Hotspots = Hotspots(filtered, p.opts.Origin)
	snap.SeverityWind = SeverityWind(filtered)
	snap.DirectionHistogram = DirectionHistogram(filtered)
	snap.WindSeries = WindSeries(filtered)

	for i := range snap.Hotspots {
		h := &snap.Hotspots[i]
		if h.MeanWindDirDeg == nil {
			continue // no bearing in the group; arrow skipped, count stands
		}
		v := ProjectWindVector(h.Location, *h.MeanWindDirDeg, p.opts.ArrowLength)
		h.Vector = &v
	}

	mismatches := 0
	for _, rec := range filtered {
		if domain.CompassMismatch(rec) {
			mismatches++
		}
	}

	snap.Diagnostics = domain.Diagnostics{
		RowsRead:          len(records),
		MalformedRows:     malformed,
		CompassMismatches: mismatches,
	}

	p.metrics.Refreshes.Inc()
	p.metrics.RowsRead.Add(float64(len(records)))
	p.metrics.RowsMalformed.Add(float64(malformed))
	p.metrics.Hotspots.Set(float64(len(snap.Hotspots)))
	p.metrics.CompassMismatches.Set(float64(mismatches))
	p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	if mismatches > 0 {
		p.logger.Warn("compass label disagrees with numeric bearing",
			"count", mismatches, "window_records", len(filtered))
	}

	p.logger.Debug("refresh complete",
		"rows", len(records),
		"malformed", malformed,
		"in_window", len(filtered),
		"hotspots", len(snap.Hotspots),
	)

	p.ready.Store(true)
	return snap, nil
}
