package analytics

import (
	"math"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// Hotspots groups records by location and aggregates each group into one
// Hotspot: the detection count and the circular mean of the group's wind
// bearings. Records without their own coordinates fall back to origin.
// Groups appear in first-seen order.
//
// Records lacking a bearing still count toward EmissionCount but contribute
// nothing to the mean; a group with no bearings at all gets a nil mean, and
// vector projection is skipped for it downstream.
//
// In the current deployment every record shares the origin coordinate, so
// this degenerates to a single group, but nothing here assumes that.
func Hotspots(records []domain.DetectionRecord, origin domain.LocationKey) []domain.Hotspot {
	type group struct {
		count          int
		sumSin, sumCos float64
		bearings       int
	}

	groups := make(map[domain.LocationKey]*group)
	order := make([]domain.LocationKey, 0, 1)

	for _, rec := range records {
		key := origin
		if rec.Lat != nil && rec.Lon != nil {
			key = domain.NewLocationKey(*rec.Lat, *rec.Lon)
		}

		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}

		g.count++
		if rec.WindDirDeg != nil {
			rad := *rec.WindDirDeg * math.Pi / 180
			g.sumSin += math.Sin(rad)
			g.sumCos += math.Cos(rad)
			g.bearings++
		}
	}

	hotspots := make([]domain.Hotspot, 0, len(order))
	for _, key := range order {
		g := groups[key]
		h := domain.Hotspot{Location: key, EmissionCount: g.count}
		if g.bearings > 0 {
			mean := circularMeanDeg(g.sumSin, g.sumCos)
			h.MeanWindDirDeg = &mean
		}
		hotspots = append(hotspots, h)
	}
	return hotspots
}

// circularMeanDeg recovers a bearing in [0, 360) from summed unit-vector
// components. This is the circular mean: an arithmetic mean of degree values
// is wrong across the 0/360 discontinuity ({350, 10} would average to 180,
// the opposite direction), while atan2 of the averaged vector yields 0.
func circularMeanDeg(sumSin, sumCos float64) float64 {
	deg := math.Atan2(sumSin, sumCos) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
