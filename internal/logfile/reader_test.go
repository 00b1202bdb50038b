package logfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detections_log.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadAll_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.csv")
	_, _, err := NewReader(path, discardLogger()).ReadAll()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestReadAll_EmptyFile(t *testing.T) {
	path := writeLog(t, "")
	records, malformed, err := NewReader(path, discardLogger()).ReadAll()

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, malformed)
}

func TestReadAll_HeaderOnly(t *testing.T) {
	path := writeLog(t, "DateTime,Filename,Num_Boxes,WindSpeed_kmh,WindDir_deg,WindDir_compass\n")
	records, malformed, err := NewReader(path, discardLogger()).ReadAll()

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, malformed)
}

func TestReadAll_ParsesRowsInOrder(t *testing.T) {
	path := writeLog(t,
		"DateTime,Filename,Num_Boxes,WindSpeed_kmh,WindDir_deg,WindDir_compass\n"+
			"2026-08-24 10:00:00,a.jpg,2,10.5,45,NE\n"+
			"2026-08-24 11:00:00,b.jpg,,,,\n")

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Zero(t, malformed)

	assert.Equal(t, "a.jpg", records[0].Filename)
	require.NotNil(t, records[0].NumBoxes)
	assert.Equal(t, 2, *records[0].NumBoxes)
	assert.Equal(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local), records[0].Timestamp)

	assert.Equal(t, "b.jpg", records[1].Filename)
	assert.Nil(t, records[1].NumBoxes)
	assert.Nil(t, records[1].WindSpeedKmh)
}

func TestReadAll_ColumnOrderInsignificant(t *testing.T) {
	path := writeLog(t,
		"WindDir_compass,Filename,DateTime,WindSpeed_kmh,Extra_Column,Num_Boxes,WindDir_deg\n"+
			"SW,c.jpg,2026-08-24 09:15:00,7.2,ignored,5,225\n")

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, malformed)

	rec := records[0]
	assert.Equal(t, "c.jpg", rec.Filename)
	assert.Equal(t, "SW", rec.WindDirCompass)
	require.NotNil(t, rec.NumBoxes)
	assert.Equal(t, 5, *rec.NumBoxes)
	require.NotNil(t, rec.WindDirDeg)
	assert.Equal(t, 225.0, *rec.WindDirDeg)
}

func TestReadAll_MalformedRowsRetainedAndCounted(t *testing.T) {
	path := writeLog(t,
		"DateTime,Filename,Num_Boxes,WindSpeed_kmh,WindDir_deg,WindDir_compass\n"+
			"2026-08-24 10:00:00,good.jpg,1,5,90,E\n"+
			"not-a-timestamp,bad.jpg,1,5,90,E\n"+
			"2026-08-24 11:00:00,also-bad.jpg,many,5,90,E\n"+
			"2026-08-24 12:00:00,good2.jpg,2,,,\n")

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)

	// Malformed plus valid equals total rows read.
	require.Len(t, records, 4)
	assert.Equal(t, 2, malformed)

	var valid int
	for _, rec := range records {
		if rec.Valid() {
			valid++
		}
	}
	assert.Equal(t, len(records)-malformed, valid)
}

func TestReadAll_PartialTrailingRow(t *testing.T) {
	// Simulates a concurrent appender caught mid-write: the last line has
	// only a fragment of the timestamp column.
	path := writeLog(t,
		"DateTime,Filename,Num_Boxes,WindSpeed_kmh,WindDir_deg,WindDir_compass\n"+
			"2026-08-24 10:00:00,ok.jpg,1,5,90,E\n"+
			"2026-08-24 10:0")

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, malformed)
	assert.True(t, records[0].Valid())
	assert.False(t, records[1].Valid())
}

func TestAppender_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections_log.csv")

	a, err := OpenAppender(path)
	require.NoError(t, err)

	boxes := 4
	speed := 13.7
	dir := 310.0
	rec := domain.DetectionRecord{
		Timestamp:      time.Date(2026, 8, 24, 16, 45, 0, 0, time.Local),
		Filename:       "frame_16450.jpg",
		NumBoxes:       &boxes,
		WindSpeedKmh:   &speed,
		WindDirDeg:     &dir,
		WindDirCompass: "NW",
	}
	require.NoError(t, a.Append(rec))
	require.NoError(t, a.Append(domain.DetectionRecord{
		Timestamp: time.Date(2026, 8, 24, 16, 46, 0, 0, time.Local),
		Filename:  "frame_16460.jpg",
	}))
	require.NoError(t, a.Close())

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Zero(t, malformed)

	got := records[0]
	assert.Equal(t, rec.Timestamp, got.Timestamp)
	assert.Equal(t, rec.Filename, got.Filename)
	require.NotNil(t, got.NumBoxes)
	assert.Equal(t, boxes, *got.NumBoxes)
	require.NotNil(t, got.WindSpeedKmh)
	assert.Equal(t, speed, *got.WindSpeedKmh)
	require.NotNil(t, got.WindDirDeg)
	assert.Equal(t, dir, *got.WindDirDeg)
	assert.Equal(t, "NW", got.WindDirCompass)

	assert.Nil(t, records[1].NumBoxes)
	assert.Nil(t, records[1].WindSpeedKmh)
}

func TestAppender_AppendsToExistingLog(t *testing.T) {
	path := writeLog(t,
		"DateTime,Filename,Num_Boxes,WindSpeed_kmh,WindDir_deg,WindDir_compass\n"+
			"2026-08-24 10:00:00,old.jpg,1,5,90,E\n")

	a, err := OpenAppender(path)
	require.NoError(t, err)
	require.NoError(t, a.Append(domain.DetectionRecord{
		Timestamp: time.Date(2026, 8, 24, 11, 0, 0, 0, time.Local),
		Filename:  "new.jpg",
	}))
	require.NoError(t, a.Close())

	records, malformed, err := NewReader(path, discardLogger()).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Zero(t, malformed)
	assert.Equal(t, "old.jpg", records[0].Filename)
	assert.Equal(t, "new.jpg", records[1].Filename)
}
