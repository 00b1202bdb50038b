// Package domain models the emission detection log and the derived tables
// the dashboard consumes.
//
// # Data Source
//
// The detection log is an append-only CSV owned by the upstream detector: a
// camera pipeline runs bounding-box inference on site imagery, looks up local
// wind conditions, and appends one row per processed frame. This service only
// ever reads the file; a row being written while a scan is in progress parses
// as a malformed row on that pass and cleanly on the next.
//
// # Log Conventions
//
// Columns (order insignificant, extra columns ignored):
//
//	DateTime         naive local timestamp, "2006-01-02 15:04:05"
//	                 (ISO-8601 variants also accepted)
//	Filename         source image name; unique-ish, not enforced unique
//	Num_Boxes        bounding boxes in the frame = emission severity;
//	                 empty means severity unknown
//	WindSpeed_kmh    wind speed at detection time; empty means unmeasured
//	WindDir_deg      compass bearing in [0, 360), degrees clockwise from
//	                 north; empty means unmeasured
//	WindDir_compass  16-wind label ("NE", "SSW", ...) logged by the weather
//	                 lookup independently of WindDir_deg
//	Latitude         optional per-record site coordinate; when absent the
//	Longitude        configured origin coordinate applies
//
// The compass label and the numeric bearing come from separate upstream
// lookups and are not guaranteed consistent. They stay separate here: the
// direction histogram buckets by the logged label, and disagreements are
// surfaced as a diagnostic count rather than reconciled.
//
// # Malformed Rows
//
// A row is malformed when its timestamp or a non-empty numeric field fails to
// parse. Malformed rows are retained with a zero-timestamp sentinel and
// counted, so data loss stays observable, then excluded by the window filter
// before any aggregation. Malformed plus valid always equals total rows read.
//
// # Circular Wind Bearings
//
// Bearings wrap at 0/360, so the hotspot mean uses the circular mean: each
// bearing becomes a unit vector, the vectors are averaged, and atan2 of the
// averaged components recovers the bearing. An arithmetic mean of {350, 10}
// yields 180, the opposite direction; the circular mean yields 0.
package domain
