package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
// The dashboard and the ingest service share one Config; each binary only
// reads the fields it needs.
type Config struct {
	// Detection log and capture folder.
	LogFile   string
	ImagesDir string

	// Analytics constants.
	Window        time.Duration
	ArrowLength   float64
	ArrowheadSize float64
	OriginLat     float64
	OriginLon     float64
	RecentImages  int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Ingest-only settings.
	KafkaBrokers       []string
	KafkaTopic         string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	window, err := parseDuration("WINDOW", "24h")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	arrowLength, err := parseFloat("ARROW_LENGTH", "0.001")
	if err != nil {
		return nil, err
	}

	arrowheadSize, err := parseFloat("ARROWHEAD_SIZE", "14")
	if err != nil {
		return nil, err
	}

	originLat, err := parseCoordinate("ORIGIN_LAT", "30.767", 90)
	if err != nil {
		return nil, err
	}

	originLon, err := parseCoordinate("ORIGIN_LON", "76.575", 180)
	if err != nil {
		return nil, err
	}

	recentImages, err := parseCount("RECENT_IMAGES", "6", 100)
	if err != nil {
		return nil, err
	}

	batchSize, err := parseCount("BATCH_SIZE", "50", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogFile:   envOrDefault("LOG_FILE", "detections_log.csv"),
		ImagesDir: envOrDefault("IMAGES_DIR", "detections"),

		Window:        window,
		ArrowLength:   arrowLength,
		ArrowheadSize: arrowheadSize,
		OriginLat:     originLat,
		OriginLon:     originLon,
		RecentImages:  recentImages,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         envOrDefault("KAFKA_TOPIC", "emission-detections"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "emission-ingest"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.LogFile == "" {
		return nil, errors.New("LOG_FILE is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseFloat(key, fallback string) (float64, error) {
	f, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return f, nil
}

func parseCoordinate(key, fallback string, bound float64) (float64, error) {
	f, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || f < -bound || f > bound {
		return 0, fmt.Errorf("invalid %s: must be in [%v, %v]", key, -bound, bound)
	}
	return f, nil
}

func parseCount(key, fallback string, max int) (int, error) {
	n, err := strconv.Atoi(envOrDefault(key, fallback))
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("invalid %s: must be between 1 and %d", key, max)
	}
	return n, nil
}
