package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap/zaptest"

	"github.com/hugo050303/barber-saas/internal/db"
	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/repository"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func newEventRepo(t *testing.T) *repository.GormEventRepository {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return repository.NewGormEventRepository(gdb)
}

func appendEvent(t *testing.T, repo repository.EventRepository, typ model.EventType) uuid.UUID {
	t.Helper()
	apptID := uuid.New()
	err := repo.Append(context.Background(), &model.AppointmentEvent{
		EventType:     typ,
		AppointmentID: apptID,
		Payload:       []byte(`{"status":"pending"}`),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return apptID
}

func TestRelay_PublishPending(t *testing.T) {
	repo := newEventRepo(t)
	w := &fakeWriter{}
	relay := NewRelay(repo, w, RelayConfig{}, zaptest.NewLogger(t))

	apptID := appendEvent(t, repo, model.EventTypeAppointmentCreated)
	appendEvent(t, repo, model.EventTypeAppointmentDeleted)

	n, err := relay.PublishPending(context.Background())
	if err != nil {
		t.Fatalf("PublishPending: %v", err)
	}
	if n != 2 || len(w.msgs) != 2 {
		t.Fatalf("expected 2 messages, got n=%d msgs=%d", n, len(w.msgs))
	}
	if w.msgs[0].Topic != "appointment_created" || string(w.msgs[0].Key) != apptID.String() {
		t.Fatalf("unexpected first message: topic=%s key=%s", w.msgs[0].Topic, w.msgs[0].Key)
	}

	n, err = relay.PublishPending(context.Background())
	if err != nil {
		t.Fatalf("second PublishPending: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing left to publish, got %d", n)
	}
}

func TestRelay_WriteFailureKeepsEventsPending(t *testing.T) {
	repo := newEventRepo(t)
	w := &fakeWriter{err: errors.New("broker down")}
	relay := NewRelay(repo, w, RelayConfig{BatchSize: 10}, zaptest.NewLogger(t))

	appendEvent(t, repo, model.EventTypeAppointmentStatusChanged)

	if _, err := relay.PublishPending(context.Background()); err == nil {
		t.Fatalf("expected write error")
	}

	pending, err := repo.FetchUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchUnpublished: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected event to stay pending, got %d", len(pending))
	}
}
