package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

func TestHourlyCounts(t *testing.T) {
	t.Run("counts per hour in first-seen order", func(t *testing.T) {
		input := []domain.DetectionRecord{
			detection(at(14, 5)),
			detection(at(9, 0)),
			detection(at(14, 50)),
			detection(at(22, 10)),
			detection(at(9, 59)),
			detection(at(14, 0)),
		}

		out := HourlyCounts(input)

		// 14 appears first in the data, then 9, then 22, not sorted 0-23.
		require.Equal(t, []domain.HourlyCount{
			{Hour: 14, Count: 3},
			{Hour: 9, Count: 2},
			{Hour: 22, Count: 1},
		}, out)
	})

	t.Run("sparse hours are omitted", func(t *testing.T) {
		out := HourlyCounts([]domain.DetectionRecord{detection(at(3, 0))})
		require.Len(t, out, 1)
		assert.Equal(t, 3, out[0].Hour)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		out := HourlyCounts(nil)
		assert.Empty(t, out)
	})
}
