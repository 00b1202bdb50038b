// Command validate performs integrity checks on a detections log: parse
// accounting, row ordering, compass alignment, and window coverage. Run it
// against a log the ingest service or the detector has been writing to
// confirm the analytics side will see what you expect.
//
// Usage:
//
//	go run ./cmd/validate -log detections_log.csv -window 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/logfile"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	logPath := flag.String("log", "detections_log.csv", "path to the detections log")
	window := flag.Duration("window", 24*time.Hour, "trailing window the dashboard aggregates over")
	flag.Parse()

	if code := run(*logPath, *window); code != 0 {
		os.Exit(code)
	}
}

func run(logPath string, window time.Duration) int {
	fmt.Println("=== Detection Log Integrity Validation ===")
	fmt.Println()

	reader := logfile.NewReader(logPath, slog.New(slog.DiscardHandler))
	records, malformed, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read log: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateParseAccounting(records, malformed),
		validateOrdering(records),
		validateCompassAlignment(records),
		validateWindowCoverage(records, window),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d total, %d valid, %d malformed\n",
		len(records), countValid(records), malformed)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func countValid(records []domain.DetectionRecord) int {
	n := 0
	for _, rec := range records {
		if rec.Valid() {
			n++
		}
	}
	return n
}

// Phase 1: every row is accounted for, either valid or malformed.
func validateParseAccounting(records []domain.DetectionRecord, malformed int) *phase {
	p := &phase{name: "Phase 1: Parse Accounting"}

	valid := countValid(records)
	if valid+malformed != len(records) {
		p.errorf("valid (%d) + malformed (%d) != total (%d)", valid, malformed, len(records))
	}
	return p
}

// Phase 2: the detector appends chronologically, so out-of-order timestamps
// indicate a hand-edited or merged log.
func validateOrdering(records []domain.DetectionRecord) *phase {
	p := &phase{name: "Phase 2: Row Ordering"}

	var prev time.Time
	for i, rec := range records {
		if !rec.Valid() {
			continue
		}
		if !prev.IsZero() && rec.Timestamp.Before(prev) {
			p.errorf("row %d: timestamp %s precedes previous row's %s",
				i+1, rec.Timestamp.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		prev = rec.Timestamp
	}
	return p
}

// Phase 3: the logged compass label should agree with the numeric bearing.
func validateCompassAlignment(records []domain.DetectionRecord) *phase {
	p := &phase{name: "Phase 3: Compass Alignment"}

	for i, rec := range records {
		if !domain.CompassMismatch(rec) {
			continue
		}
		p.errorf("row %d: label %q disagrees with bearing %g (sector %s)",
			i+1, rec.WindDirCompass, *rec.WindDirDeg, domain.SectorFromBearing(*rec.WindDirDeg))
	}
	return p
}

// Phase 4: a non-empty log whose rows all fall outside the window means the
// dashboard will render empty tables; usually a stale or misconfigured log.
func validateWindowCoverage(records []domain.DetectionRecord, window time.Duration) *phase {
	p := &phase{name: "Phase 4: Window Coverage"}

	valid := countValid(records)
	if valid == 0 {
		return p
	}

	now := time.Now()
	cutoff := now.Add(-window)
	inWindow := 0
	for _, rec := range records {
		if !rec.Valid() || rec.Timestamp.Before(cutoff) || rec.Timestamp.After(now) {
			continue
		}
		inWindow++
	}

	if inWindow == 0 {
		p.errorf("log has %d valid rows but none within the last %s", valid, window)
	}
	return p
}
