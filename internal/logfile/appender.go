package logfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// logTimeLayout is the DateTime format the detector writes and the reader
// accepts first.
const logTimeLayout = "2006-01-02 15:04:05"

// appendHeader is the column set written when the appender creates the log.
var appendHeader = []string{
	domain.ColDateTime,
	domain.ColFilename,
	domain.ColNumBoxes,
	domain.ColWindSpeedKmh,
	domain.ColWindDirDeg,
	domain.ColWindDirCompass,
}

// Appender writes detection rows to the end of the log, creating it with a
// header when absent. Safe for concurrent use; rows are flushed per append so
// a reader scanning mid-write sees at most one partial line.
type Appender struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// OpenAppender opens (or creates) the log at path for appending.
func OpenAppender(path string) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open detection log for append: %w", err)
	}

	a := &Appender{f: f, w: csv.NewWriter(f)}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat detection log: %w", err)
	}
	if info.Size() == 0 {
		if err := a.w.Write(appendHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		a.w.Flush()
		if err := a.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush header: %w", err)
		}
	}
	return a, nil
}

// Append writes one record as a log row and flushes it.
func (a *Appender) Append(rec domain.DetectionRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.w.Write(formatRow(rec)); err != nil {
		return fmt.Errorf("append detection row: %w", err)
	}
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return fmt.Errorf("flush detection row: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (a *Appender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.w.Flush()
	if err := a.w.Error(); err != nil {
		a.f.Close()
		return err
	}
	return a.f.Close()
}

// formatRow renders a record in appendHeader column order. Absent optional
// fields become empty cells, matching what the detector writes.
func formatRow(rec domain.DetectionRecord) []string {
	var numBoxes, windSpeed, windDir string
	if rec.NumBoxes != nil {
		numBoxes = strconv.Itoa(*rec.NumBoxes)
	}
	if rec.WindSpeedKmh != nil {
		windSpeed = strconv.FormatFloat(*rec.WindSpeedKmh, 'f', -1, 64)
	}
	if rec.WindDirDeg != nil {
		windDir = strconv.FormatFloat(*rec.WindDirDeg, 'f', -1, 64)
	}

	return []string{
		rec.Timestamp.Format(logTimeLayout),
		rec.Filename,
		numBoxes,
		windSpeed,
		windDir,
		rec.WindDirCompass,
	}
}
