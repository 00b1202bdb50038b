package analytics

import (
	"math"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// ProjectWindVector displaces an origin along a bearing to produce the map
// arrow for a hotspot: endLat = lat + L*cos(rad), endLon = lon + L*sin(rad),
// with the bearing passed through as the arrowhead rotation.
//
// This is a planar small-angle approximation, not a geodesic projection. The
// arrow length is a fixed fraction of a coordinate degree chosen to stay
// visually small at map zoom, so the flat-earth error is invisible; it must
// not be reused for anything where geodesic accuracy matters.
func ProjectWindVector(origin domain.LocationKey, bearingDeg, arrowLength float64) domain.WindVector {
	rad := bearingDeg * math.Pi / 180
	return domain.WindVector{
		OriginLat:  origin.Lat,
		OriginLon:  origin.Lon,
		EndLat:     origin.Lat + arrowLength*math.Cos(rad),
		EndLon:     origin.Lon + arrowLength*math.Sin(rad),
		BearingDeg: bearingDeg,
	}
}
