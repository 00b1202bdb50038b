// Package analytics derives the dashboard tables from detection log records:
// trailing-window filtering, hourly bucketing, hotspot aggregation with
// circular wind-bearing means, wind-arrow projection, and correlation
// summaries. Every function is a pure transformation; the Pipeline type wires
// them into one instrumented refresh pass.
package analytics

import (
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// FilterWindow returns the records whose timestamp t satisfies
// now-window <= t <= now, preserving input order. Records carrying the
// invalid-timestamp sentinel are excluded here, before any aggregation sees
// them. The output is always a subset of the input; empty is a valid result.
func FilterWindow(records []domain.DetectionRecord, now time.Time, window time.Duration) []domain.DetectionRecord {
	cutoff := now.Add(-window)

	filtered := make([]domain.DetectionRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		if rec.Timestamp.Before(cutoff) || rec.Timestamp.After(now) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
