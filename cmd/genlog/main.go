// Command genlog writes a synthetic detections log for local runs and
// demos. It uses the real appender and parser so the generated file is
// byte-compatible with what the detector writes.
//
// Usage:
//
//	go run ./cmd/genlog -out detections_log.csv -count 200 -window 24h
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/logfile"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "detections_log.csv", "output path for the generated log")
	count := flag.Int("count", 200, "number of detection rows to generate")
	window := flag.Duration("window", 24*time.Hour, "spread rows across this trailing duration")
	seed := flag.Int64("seed", 1, "random seed for reproducible output")
	mismatchRate := flag.Float64("mismatch-rate", 0.02, "fraction of rows with a compass label that disagrees with the bearing")
	flag.Parse()

	if *count < 1 {
		return fmt.Errorf("-count must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	now := time.Now()

	records := make([]domain.DetectionRecord, 0, *count)
	for i := 0; i < *count; i++ {
		records = append(records, makeRecord(rng, now, *window, i, *mismatchRate))
	}

	// The detector appends chronologically.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	appender, err := logfile.OpenAppender(*out)
	if err != nil {
		return err
	}
	defer appender.Close()

	var withBoxes, withWind, mismatched int
	for _, rec := range records {
		if err := appender.Append(rec); err != nil {
			return err
		}
		if rec.NumBoxes != nil {
			withBoxes++
		}
		if rec.WindSpeedKmh != nil {
			withWind++
		}
		if domain.CompassMismatch(rec) {
			mismatched++
		}
	}

	log.Printf("wrote %d rows to %s", len(records), *out)
	log.Printf("with boxes: %d, with wind: %d, compass mismatches: %d", withBoxes, withWind, mismatched)
	return nil
}

func makeRecord(rng *rand.Rand, now time.Time, window time.Duration, i int, mismatchRate float64) domain.DetectionRecord {
	ts := now.Add(-time.Duration(rng.Float64() * float64(window)))

	rec := domain.DetectionRecord{
		Timestamp: ts,
		Filename:  fmt.Sprintf("frame-%04d.jpg", i),
	}

	// Most rows carry a box count; some readings are missing, like the
	// real detector output.
	if rng.Float64() < 0.9 {
		boxes := rng.Intn(6)
		rec.NumBoxes = &boxes
	}
	if rng.Float64() < 0.85 {
		speed := rng.Float64() * 30
		rec.WindSpeedKmh = &speed
	}
	if rng.Float64() < 0.85 {
		deg := rng.Float64() * 360
		rec.WindDirDeg = &deg
		rec.WindDirCompass = domain.SectorFromBearing(deg)
		if rng.Float64() < mismatchRate {
			rec.WindDirCompass = domain.SectorFromBearing(deg + 180)
		}
	}

	return rec
}
