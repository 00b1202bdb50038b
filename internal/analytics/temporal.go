package analytics

import "github.com/couchcryptid/emission-dashboard/internal/domain"

// HourlyCounts buckets records by the hour-of-day of their timestamp and
// counts detections per bucket. Hours without detections are omitted, and
// buckets appear in first-seen order rather than a 0-23 sweep; chart
// consumers key the x-axis off appearance order, so this ordering is part of
// the output contract. No timezone conversion happens; the hour is read off
// the timestamp as parsed.
func HourlyCounts(records []domain.DetectionRecord) []domain.HourlyCount {
	counts := make(map[int]int, 24)
	order := make([]int, 0, 24)

	for _, rec := range records {
		hour := rec.Timestamp.Hour()
		if _, seen := counts[hour]; !seen {
			order = append(order, hour)
		}
		counts[hour]++
	}

	result := make([]domain.HourlyCount, 0, len(order))
	for _, hour := range order {
		result = append(result, domain.HourlyCount{Hour: hour, Count: counts[hour]})
	}
	return result
}
