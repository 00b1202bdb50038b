package domain

import (
	"errors"
	"math"
	"time"
)

// ErrNoData indicates the detection log does not exist yet. Consumers render a
// placeholder instead of failing; the next refresh simply retries.
var ErrNoData = errors.New("no detection data available")

// DetectionRecord is one row of the detection log after parsing.
// A zero Timestamp marks a malformed row retained for observability; the
// window filter excludes it from every aggregation.
type DetectionRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Filename       string    `json:"filename"`
	NumBoxes       *int      `json:"num_boxes,omitempty"`      // nil = unknown severity
	WindSpeedKmh   *float64  `json:"wind_speed_kmh,omitempty"` // nil = not measured
	WindDirDeg     *float64  `json:"wind_dir_deg,omitempty"`   // compass bearing in [0,360)
	WindDirCompass string    `json:"wind_dir_compass,omitempty"`
	Lat            *float64  `json:"lat,omitempty"` // nil = use the configured origin
	Lon            *float64  `json:"lon,omitempty"`
}

// Valid reports whether the record carries a parseable timestamp.
func (r DetectionRecord) Valid() bool {
	return !r.Timestamp.IsZero()
}

// LocationKey identifies a detection site at fixed precision. Rounding to
// 1e-4 degrees (~11m) collapses GPS jitter into one hotspot while keeping
// genuinely distinct sites apart.
type LocationKey struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewLocationKey rounds a coordinate pair to the key precision.
func NewLocationKey(lat, lon float64) LocationKey {
	const precision = 1e4
	return LocationKey{
		Lat: math.Round(lat*precision) / precision,
		Lon: math.Round(lon*precision) / precision,
	}
}

// HourlyCount is one bar of the detection-trend table. Hours appear in
// first-seen order, matching the chart consumers already render.
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Hotspot aggregates all detections at one location within the window.
// MeanWindDirDeg is nil when no record in the group carried a bearing, in
// which case Vector is nil too.
type Hotspot struct {
	Location       LocationKey `json:"location"`
	EmissionCount  int         `json:"emission_count"`
	MeanWindDirDeg *float64    `json:"mean_wind_dir_deg,omitempty"`
	Vector         *WindVector `json:"vector,omitempty"`
}

// WindVector is the map-overlay arrow for a hotspot: a short displaced
// endpoint plus the bearing reused as the arrowhead rotation. Recomputed on
// every refresh, never persisted.
type WindVector struct {
	OriginLat  float64 `json:"origin_lat"`
	OriginLon  float64 `json:"origin_lon"`
	EndLat     float64 `json:"end_lat"`
	EndLon     float64 `json:"end_lon"`
	BearingDeg float64 `json:"bearing_deg"`
}

// SeverityPoint pairs a wind speed with a bounding-box count for the
// severity-vs-wind scatter. Only records carrying both fields produce points.
type SeverityPoint struct {
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	NumBoxes     int     `json:"num_boxes"`
}

// SeverityWind is the severity-vs-wind table with its correlation summary.
// PearsonR is 0 when fewer than two points exist.
type SeverityWind struct {
	Points   []SeverityPoint `json:"points"`
	PearsonR float64         `json:"pearson_r"`
}

// DirectionCount is one bucket of the compass-direction histogram. Labels are
// taken verbatim from the log; malformed labels form their own buckets.
type DirectionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WindSample is one point of the wind-speed time series.
type WindSample struct {
	Timestamp    time.Time `json:"timestamp"`
	WindSpeedKmh float64   `json:"wind_speed_kmh"`
}

// Diagnostics surfaces data-quality counters for one refresh pass so silent
// loss is detectable. CompassMismatches counts records whose logged compass
// label disagrees with the sector derived from the numeric bearing; the two
// fields are logged independently upstream and are never reconciled here.
type Diagnostics struct {
	RowsRead          int `json:"rows_read"`
	MalformedRows     int `json:"malformed_rows"`
	CompassMismatches int `json:"compass_mismatches"`
}

// Snapshot is everything one refresh pass hands to the presentation layer.
// NoData is true when the log file is absent; all tables are then empty and
// the consumer renders a placeholder.
type Snapshot struct {
	NoData      bool          `json:"no_data"`
	GeneratedAt time.Time     `json:"generated_at"`
	Window      time.Duration `json:"window"`

	// ArrowheadSize is an opaque rendering hint passed through to the map
	// layer alongside the vectors.
	ArrowheadSize float64 `json:"arrowhead_size"`

	HourlyCounts       []HourlyCount    `json:"hourly_counts"`
	Hotspots           []Hotspot        `json:"hotspots"`
	SeverityWind       SeverityWind     `json:"severity_wind"`
	DirectionHistogram []DirectionCount `json:"direction_histogram"`
	WindSeries         []WindSample     `json:"wind_series"`

	Diagnostics Diagnostics `json:"diagnostics"`
}
