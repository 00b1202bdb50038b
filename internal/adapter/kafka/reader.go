package kafka

import (
	"context"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/emission-dashboard/internal/config"
	"github.com/couchcryptid/emission-dashboard/internal/domain"
)

// Reader consumes detection events from the source Kafka topic using a
// consumer group. It implements ingest.BatchExtractor. Offsets are committed
// per message through the RawEvent.Commit callback, only after the row has
// been appended to the log.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &Reader{reader: r, logger: logger}
}

// ExtractBatch blocks for the first message, then drains whatever is already
// buffered up to batchSize so quiet topics still flush promptly.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	events := []domain.RawEvent{r.withCommit(first)}

	for len(events) < batchSize {
		drainCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		msg, err := r.reader.FetchMessage(drainCtx)
		cancel()
		if err != nil {
			break
		}
		events = append(events, r.withCommit(msg))
	}
	return events, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func (r *Reader) withCommit(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

// mapMessageToRawEvent copies a Kafka message into the transport-neutral
// domain type.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Headers:   headers,
	}
}
