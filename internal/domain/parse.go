package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Detection log column names. Column order is not significant; the reader
// indexes columns by header and ignores anything it does not recognize.
const (
	ColDateTime       = "DateTime"
	ColFilename       = "Filename"
	ColNumBoxes       = "Num_Boxes"
	ColWindSpeedKmh   = "WindSpeed_kmh"
	ColWindDirDeg     = "WindDir_deg"
	ColWindDirCompass = "WindDir_compass"
	ColLatitude       = "Latitude"
	ColLongitude      = "Longitude"
)

// timestampLayouts are accepted DateTime formats, tried in order. Detector
// timestamps are naive local time, so layouts parse in time.Local and no
// timezone conversion happens afterwards.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseRow converts one header-indexed log row into a DetectionRecord.
//
// Empty numeric fields are absent, not malformed. A row is malformed when the
// timestamp fails to parse or a non-empty numeric field does; the returned
// record then carries the zero-timestamp sentinel so the window filter drops
// it, and the error describes the offending field.
func ParseRow(fields map[string]string) (DetectionRecord, error) {
	rec := DetectionRecord{
		Filename:       strings.TrimSpace(fields[ColFilename]),
		WindDirCompass: strings.TrimSpace(fields[ColWindDirCompass]),
	}

	ts, err := parseTimestamp(fields[ColDateTime])
	if err != nil {
		return rec, err
	}

	numBoxes, err := parseOptionalCount(fields[ColNumBoxes])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColNumBoxes, err)
	}

	windSpeed, err := parseOptionalNonNegative(fields[ColWindSpeedKmh])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColWindSpeedKmh, err)
	}

	windDir, err := parseOptionalBearing(fields[ColWindDirDeg])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColWindDirDeg, err)
	}

	lat, err := parseOptionalFloat(fields[ColLatitude])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColLatitude, err)
	}
	lon, err := parseOptionalFloat(fields[ColLongitude])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColLongitude, err)
	}

	rec.Timestamp = ts
	rec.NumBoxes = numBoxes
	rec.WindSpeedKmh = windSpeed
	rec.WindDirDeg = windDir
	rec.Lat = lat
	rec.Lon = lon
	return rec, nil
}

// parseTimestamp tries each accepted layout in local time.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s: empty", ColDateTime)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unparseable timestamp %q", ColDateTime, s)
}

// parseOptionalCount parses a non-negative integer, returning nil for an
// empty field.
func parseOptionalCount(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative count: %d", n)
	}
	return &n, nil
}

// parseOptionalNonNegative parses a non-negative real, returning nil for an
// empty field.
func parseOptionalNonNegative(s string) (*float64, error) {
	v, err := parseOptionalFloat(s)
	if err != nil || v == nil {
		return v, err
	}
	if *v < 0 {
		return nil, fmt.Errorf("negative value: %g", *v)
	}
	return v, nil
}

// parseOptionalBearing parses a compass bearing and normalizes it into
// [0, 360). Wrapping rather than rejecting keeps rows with 360.0 or small
// negative readings usable.
func parseOptionalBearing(s string) (*float64, error) {
	v, err := parseOptionalFloat(s)
	if err != nil || v == nil {
		return v, err
	}
	deg := normalizeBearing(*v)
	return &deg, nil
}

// normalizeBearing wraps a bearing into [0, 360).
func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}

// compassSectors is the 16-wind rose, 22.5 degrees per sector, N centered
// on 0.
var compassSectors = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// SectorFromBearing maps a bearing in degrees to its 16-wind compass label.
// Used only for the compass-mismatch diagnostic; the direction histogram
// always buckets by the logged label.
func SectorFromBearing(deg float64) string {
	deg = normalizeBearing(deg)
	idx := int(math.Floor(deg/22.5+0.5)) % 16
	return compassSectors[idx]
}

// CompassMismatch reports whether a record's logged compass label disagrees
// with the sector derived from its numeric bearing. Records missing either
// field never mismatch.
func CompassMismatch(rec DetectionRecord) bool {
	if rec.WindDirDeg == nil || rec.WindDirCompass == "" {
		return false
	}
	return !strings.EqualFold(rec.WindDirCompass, SectorFromBearing(*rec.WindDirDeg))
}
