package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

func TestSeverityWind(t *testing.T) {
	t.Run("pairs require both fields", func(t *testing.T) {
		both := detection(at(10, 0))
		both.NumBoxes, both.WindSpeedKmh = iptr(3), fptr(12.5)

		noBoxes := detection(at(11, 0))
		noBoxes.WindSpeedKmh = fptr(8.0)

		noSpeed := detection(at(12, 0))
		noSpeed.NumBoxes = iptr(1)

		neither := detection(at(13, 0))

		out := SeverityWind([]domain.DetectionRecord{both, noBoxes, noSpeed, neither})
		require.Len(t, out.Points, 1)
		assert.Equal(t, domain.SeverityPoint{WindSpeedKmh: 12.5, NumBoxes: 3}, out.Points[0])
	})

	t.Run("perfectly correlated points", func(t *testing.T) {
		var input []domain.DetectionRecord
		for i := 1; i <= 5; i++ {
			rec := detection(at(i, 0))
			rec.NumBoxes = iptr(i)
			rec.WindSpeedKmh = fptr(float64(2 * i))
			input = append(input, rec)
		}

		out := SeverityWind(input)
		require.Len(t, out.Points, 5)
		assert.InDelta(t, 1.0, out.PearsonR, 1e-9)
	})

	t.Run("single point has undefined correlation", func(t *testing.T) {
		rec := detection(at(10, 0))
		rec.NumBoxes, rec.WindSpeedKmh = iptr(2), fptr(5.0)

		out := SeverityWind([]domain.DetectionRecord{rec})
		require.Len(t, out.Points, 1)
		assert.Zero(t, out.PearsonR)
	})

	t.Run("zero-variance axis yields zero not NaN", func(t *testing.T) {
		var input []domain.DetectionRecord
		for i := 0; i < 3; i++ {
			rec := detection(at(i, 0))
			rec.NumBoxes = iptr(4)
			rec.WindSpeedKmh = fptr(float64(i))
			input = append(input, rec)
		}

		out := SeverityWind(input)
		assert.Zero(t, out.PearsonR)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		out := SeverityWind(nil)
		assert.Empty(t, out.Points)
		assert.Zero(t, out.PearsonR)
	})
}

func TestDirectionHistogram(t *testing.T) {
	withLabel := func(ts string) domain.DetectionRecord {
		rec := detection(at(10, 0))
		rec.WindDirCompass = ts
		return rec
	}

	t.Run("counts labels verbatim in first-seen order", func(t *testing.T) {
		input := []domain.DetectionRecord{
			withLabel("NE"),
			withLabel("SW"),
			withLabel("NE"),
			withLabel("ne"), // not normalized: its own bucket
			withLabel("NE"),
		}

		out := DirectionHistogram(input)
		require.Equal(t, []domain.DirectionCount{
			{Label: "NE", Count: 3},
			{Label: "SW", Count: 1},
			{Label: "ne", Count: 1},
		}, out)
	})

	t.Run("label is never derived from the numeric bearing", func(t *testing.T) {
		rec := detectionWithBearing(at(10, 0), 45) // NE by bearing, no label
		out := DirectionHistogram([]domain.DetectionRecord{rec})
		assert.Empty(t, out)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, DirectionHistogram(nil))
	})
}

func TestWindSeries(t *testing.T) {
	withSpeed := detection(at(10, 0))
	withSpeed.WindSpeedKmh = fptr(14.2)

	withoutSpeed := detection(at(11, 0))

	later := detection(at(12, 0))
	later.WindSpeedKmh = fptr(9.8)

	out := WindSeries([]domain.DetectionRecord{withSpeed, withoutSpeed, later})
	require.Len(t, out, 2)
	assert.Equal(t, domain.WindSample{Timestamp: at(10, 0), WindSpeedKmh: 14.2}, out[0])
	assert.Equal(t, domain.WindSample{Timestamp: at(12, 0), WindSpeedKmh: 9.8}, out[1])

	assert.Empty(t, WindSeries(nil))
}
