package analytics

import (
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// Shared fixture helpers. The base day is arbitrary; tests pass "now"
// explicitly or freeze the domain clock.

var baseDay = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return baseDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func detection(ts time.Time) domain.DetectionRecord {
	return domain.DetectionRecord{Timestamp: ts, Filename: "frame.jpg"}
}

func detectionWithBearing(ts time.Time, deg float64) domain.DetectionRecord {
	rec := detection(ts)
	rec.WindDirDeg = fptr(deg)
	return rec
}
