// Package events ретранслирует события жизненного цикла записей из outbox в Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/repository"
)

// MessageWriter — часть kafka.Writer, которой пользуется Relay.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type RelayConfig struct {
	PollEvery time.Duration
	BatchSize int
}

type Relay struct {
	repo      repository.EventRepository
	writer    MessageWriter
	log       *zap.Logger
	pollEvery time.Duration
	batchSize int
	now       func() time.Time
}

func NewRelay(repo repository.EventRepository, writer MessageWriter, cfg RelayConfig, log *zap.Logger) *Relay {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Relay{
		repo:      repo,
		writer:    writer,
		log:       log.With(zap.String("component", "event_relay")),
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
		now:       time.Now,
	}
}

// NewKafkaWriter — writer с хешированием по ключу, чтобы события одной записи шли по порядку.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// Run опрашивает outbox до отмены ctx.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PublishPending(ctx)
			if err != nil {
				r.log.Error("outbox publish failed", zap.Error(err))
				continue
			}
			if n > 0 {
				r.log.Debug("outbox batch published", zap.Int("count", n))
			}
		}
	}
}

// PublishPending отправляет одну пачку неотправленных событий и возвращает их число.
// Если запись в Kafka не удалась, события остаются неотправленными.
func (r *Relay) PublishPending(ctx context.Context) (int, error) {
	records, err := r.repo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	ids := make([]uuid.UUID, 0, len(records))
	for _, ev := range records {
		msgs = append(msgs, kafka.Message{
			Topic: string(ev.EventType),
			Key:   []byte(ev.AppointmentID.String()),
			Value: ev.Payload,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(ev.ID.String())},
				{Key: "event_type", Value: []byte(ev.EventType)},
			},
			Time: ev.CreatedAt,
		})
		ids = append(ids, ev.ID)
	}

	if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("kafka write: %w", err)
	}
	if err := r.repo.MarkPublished(ctx, ids, r.now()); err != nil {
		return 0, err
	}
	return len(records), nil
}
