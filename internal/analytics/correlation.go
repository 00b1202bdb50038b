package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// SeverityWind builds the severity-vs-wind scatter: one point per record
// where both the bounding-box count and the wind speed are present. Records
// missing either field are excluded, never imputed. The summary carries the
// Pearson coefficient over the points (0 when undefined: fewer than two
// points, or a degenerate zero-variance axis).
func SeverityWind(records []domain.DetectionRecord) domain.SeverityWind {
	points := make([]domain.SeverityPoint, 0, len(records))
	var speeds, boxes []float64

	for _, rec := range records {
		if rec.NumBoxes == nil || rec.WindSpeedKmh == nil {
			continue
		}
		points = append(points, domain.SeverityPoint{
			WindSpeedKmh: *rec.WindSpeedKmh,
			NumBoxes:     *rec.NumBoxes,
		})
		speeds = append(speeds, *rec.WindSpeedKmh)
		boxes = append(boxes, float64(*rec.NumBoxes))
	}

	result := domain.SeverityWind{Points: points}
	if len(points) >= 2 {
		if r := stat.Correlation(speeds, boxes, nil); !math.IsNaN(r) {
			result.PearsonR = r
		}
	}
	return result
}

// DirectionHistogram counts detections per logged compass label, in
// first-seen label order. Labels come verbatim from the log: the histogram
// is never derived from the numeric bearing, and no compass vocabulary is
// enforced, so an inconsistent label simply becomes its own bucket (the
// compass-mismatch diagnostic makes such drift visible). Records with no
// label are skipped.
func DirectionHistogram(records []domain.DetectionRecord) []domain.DirectionCount {
	counts := make(map[string]int)
	order := make([]string, 0, 16)

	for _, rec := range records {
		if rec.WindDirCompass == "" {
			continue
		}
		if _, seen := counts[rec.WindDirCompass]; !seen {
			order = append(order, rec.WindDirCompass)
		}
		counts[rec.WindDirCompass]++
	}

	result := make([]domain.DirectionCount, 0, len(order))
	for _, label := range order {
		result = append(result, domain.DirectionCount{Label: label, Count: counts[label]})
	}
	return result
}

// WindSeries extracts the wind-speed time series: records carrying a wind
// speed, in input order.
func WindSeries(records []domain.DetectionRecord) []domain.WindSample {
	series := make([]domain.WindSample, 0, len(records))
	for _, rec := range records {
		if rec.WindSpeedKmh == nil {
			continue
		}
		series = append(series, domain.WindSample{
			Timestamp:    rec.Timestamp,
			WindSpeedKmh: *rec.WindSpeedKmh,
		})
	}
	return series
}
