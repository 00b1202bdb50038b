// Package ingest runs the consume-decode-append loop that turns detection
// events from the source topic into rows of the detection log. The analytics
// side only ever reads the log; this package is its only writer besides the
// detector itself.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/emission-dashboard/internal/domain"
	"github.com/couchcryptid/emission-dashboard/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// RowAppender writes one detection row to the log.
type RowAppender interface {
	Append(rec domain.DetectionRecord) error
}

// Service orchestrates the consume-decode-append loop.
type Service struct {
	extractor BatchExtractor
	appender  RowAppender
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Service with the given stages and observability.
func New(e BatchExtractor, a RowAppender, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Service {
	return &Service{
		extractor: e,
		appender:  a,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the service has appended at least one row,
// or an error describing why it is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("ingest has not appended any rows yet")
	}
	return nil
}

// Run executes the ingest loop until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("ingest started", "batch_size", s.batchSize)
	s.metrics.IngestRunning.Set(1)
	defer s.metrics.IngestRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingest stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !s.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one consume-decode-append cycle. Returns false if the
// service should stop.
func (s *Service) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	rawBatch, err := s.extractor.ExtractBatch(ctx, s.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.logger.Error("extract batch failed", "error", err)
		return s.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	s.metrics.EventsConsumed.Add(float64(len(rawBatch)))
	s.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	appended := 0
	for _, raw := range rawBatch {
		rec, err := decodeEvent(raw.Value)
		if err != nil {
			// A bad event never becomes a good one; commit it so the
			// group moves on.
			s.logger.Warn("undecodable event, skipping",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			s.metrics.AppendErrors.Inc()
			s.commitOffset(ctx, raw)
			continue
		}

		if err := s.appender.Append(rec); err != nil {
			// Append failures are retryable: leave the offset uncommitted
			// and back off. Earlier commits in this batch stand.
			s.logger.Error("append failed", "error", err, "offset", raw.Offset)
			s.metrics.AppendErrors.Inc()
			return s.backoffOrStop(ctx, backoff, maxBackoff)
		}

		s.metrics.RowsAppended.Inc()
		s.commitOffset(ctx, raw)
		appended++
	}

	if appended > 0 {
		s.ready.Store(true)
	}
	return true
}

// decodeEvent unmarshals and validates one detection event payload.
func decodeEvent(value []byte) (domain.DetectionRecord, error) {
	var event domain.DetectionEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return domain.DetectionRecord{}, err
	}
	return event.Record()
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the service should stop.
func (s *Service) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (s *Service) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		s.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
