package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RawEvent is one message consumed from the detection topic, carrying
// provenance for logging and a commit callback for offset management.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Headers   map[string]string
	Commit    func(ctx context.Context) error
}

// DetectionEvent is the wire form of one detection as published by the
// capture process. The timestamp is a naive local-time string in the same
// layouts the log file uses.
type DetectionEvent struct {
	Timestamp      string   `json:"timestamp"`
	Filename       string   `json:"filename"`
	NumBoxes       *int     `json:"num_boxes,omitempty"`
	WindSpeedKmh   *float64 `json:"wind_speed_kmh,omitempty"`
	WindDirDeg     *float64 `json:"wind_dir_deg,omitempty"`
	WindDirCompass string   `json:"wind_dir_compass,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
}

// Record validates the event and converts it to a DetectionRecord, applying
// the same field rules the log parser applies to CSV rows.
func (e DetectionEvent) Record() (DetectionRecord, error) {
	ts, err := parseTimestamp(e.Timestamp)
	if err != nil {
		return DetectionRecord{}, err
	}

	if e.NumBoxes != nil && *e.NumBoxes < 0 {
		return DetectionRecord{}, fmt.Errorf("num_boxes: negative count: %d", *e.NumBoxes)
	}
	if err := checkFinite("wind_speed_kmh", e.WindSpeedKmh); err != nil {
		return DetectionRecord{}, err
	}
	if e.WindSpeedKmh != nil && *e.WindSpeedKmh < 0 {
		return DetectionRecord{}, fmt.Errorf("wind_speed_kmh: negative value: %g", *e.WindSpeedKmh)
	}
	if err := checkFinite("wind_dir_deg", e.WindDirDeg); err != nil {
		return DetectionRecord{}, err
	}
	if err := checkFinite("lat", e.Lat); err != nil {
		return DetectionRecord{}, err
	}
	if err := checkFinite("lon", e.Lon); err != nil {
		return DetectionRecord{}, err
	}

	rec := DetectionRecord{
		Timestamp:      ts,
		Filename:       e.Filename,
		NumBoxes:       e.NumBoxes,
		WindSpeedKmh:   e.WindSpeedKmh,
		WindDirCompass: e.WindDirCompass,
		Lat:            e.Lat,
		Lon:            e.Lon,
	}
	if e.WindDirDeg != nil {
		deg := normalizeBearing(*e.WindDirDeg)
		rec.WindDirDeg = &deg
	}
	return rec, nil
}

func checkFinite(field string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%s: not a finite number", field)
	}
	return nil
}
