package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionEventRecord(t *testing.T) {
	t.Run("complete event converts", func(t *testing.T) {
		boxes, speed, deg := 3, 12.5, 45.0
		lat, lon := 30.767, 76.575
		event := DetectionEvent{
			Timestamp:      "2026-08-24 10:15:00",
			Filename:       "frame-001.jpg",
			NumBoxes:       &boxes,
			WindSpeedKmh:   &speed,
			WindDirDeg:     &deg,
			WindDirCompass: "NE",
			Lat:            &lat,
			Lon:            &lon,
		}

		rec, err := event.Record()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 24, 10, 15, 0, 0, time.Local), rec.Timestamp)
		assert.Equal(t, "frame-001.jpg", rec.Filename)
		assert.Equal(t, 3, *rec.NumBoxes)
		assert.Equal(t, 12.5, *rec.WindSpeedKmh)
		assert.Equal(t, 45.0, *rec.WindDirDeg)
		assert.Equal(t, "NE", rec.WindDirCompass)
		assert.Equal(t, 30.767, *rec.Lat)
	})

	t.Run("minimal event converts", func(t *testing.T) {
		rec, err := DetectionEvent{Timestamp: "2026-08-24T10:15:00", Filename: "f.jpg"}.Record()
		require.NoError(t, err)
		assert.True(t, rec.Valid())
		assert.Nil(t, rec.NumBoxes)
		assert.Nil(t, rec.WindDirDeg)
	})

	t.Run("bearing is wrapped", func(t *testing.T) {
		deg := -10.0
		rec, err := DetectionEvent{Timestamp: "2026-08-24 10:15:00", WindDirDeg: &deg}.Record()
		require.NoError(t, err)
		assert.Equal(t, 350.0, *rec.WindDirDeg)
	})

	t.Run("invalid events are rejected", func(t *testing.T) {
		negBoxes := -1
		negSpeed := -3.0
		nan := math.NaN()

		cases := []struct {
			name  string
			event DetectionEvent
		}{
			{"missing timestamp", DetectionEvent{Filename: "f.jpg"}},
			{"garbage timestamp", DetectionEvent{Timestamp: "yesterday"}},
			{"negative boxes", DetectionEvent{Timestamp: "2026-08-24 10:15:00", NumBoxes: &negBoxes}},
			{"negative speed", DetectionEvent{Timestamp: "2026-08-24 10:15:00", WindSpeedKmh: &negSpeed}},
			{"NaN bearing", DetectionEvent{Timestamp: "2026-08-24 10:15:00", WindDirDeg: &nan}},
			{"NaN latitude", DetectionEvent{Timestamp: "2026-08-24 10:15:00", Lat: &nan}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.event.Record()
				assert.Error(t, err)
			})
		}
	})
}
