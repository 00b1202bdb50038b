// Package logfile reads and appends the detection log CSV. The analytics
// side only ever reads; the appender exists for the ingest service, which
// plays the external-producer role.
package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// Reader scans the detection log into parsed records.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the log at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// ReadAll scans the whole log. It returns every row in file order plus the
// malformed count; malformed rows are retained with the invalid-timestamp
// sentinel rather than dropped, so parse failures stay observable and
// malformed plus valid always equals len(records).
//
// A missing file returns domain.ErrNoData. Rows broken by a concurrent
// appender (partial trailing line, field-count mismatch) count as malformed
// and never abort the scan.
func (r *Reader) ReadAll() ([]domain.DetectionRecord, int, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%s: %w", r.path, domain.ErrNoData)
		}
		return nil, 0, fmt.Errorf("open detection log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // tolerate short/long rows; parsing decides validity

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	var records []domain.DetectionRecord
	var malformed int
	line := 1

	for {
		line++
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// CSV-level breakage, e.g. an unterminated quote from a row
			// still being written. Retain a sentinel record and move on.
			r.logger.Warn("unreadable log row", "line", line, "error", err)
			records = append(records, domain.DetectionRecord{})
			malformed++
			continue
		}

		rec, err := domain.ParseRow(fieldsByHeader(header, row))
		if err != nil {
			r.logger.Warn("malformed log row", "line", line, "error", err)
			malformed++
		}
		records = append(records, rec)
	}

	return records, malformed, nil
}

// fieldsByHeader maps a row's values to column names. Missing trailing fields
// become empty strings; surplus fields are ignored.
func fieldsByHeader(header, row []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(row) {
			fields[name] = row[i]
		} else {
			fields[name] = ""
		}
	}
	return fields
}
