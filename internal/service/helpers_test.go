package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/db"
	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/repository"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/session"
)

var cst = time.FixedZone("CST", -6*60*60)

type harnessOptions struct {
	clients     repository.ClientRepository
	events      repository.EventRepository
	transitions scheduling.TransitionPolicy
	conflict    scheduling.ConflictCheck
}

type harness struct {
	db   *gorm.DB
	logs *observer.ObservedLogs

	appointments *AppointmentService
	booking      *BookingService
	board        *BoardService
	wizard       *WizardService

	provider model.Provider
	service  model.Service
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	if opts.clients == nil {
		opts.clients = repository.NewGormClientRepository(gdb)
	}
	if opts.events == nil {
		opts.events = repository.NewGormEventRepository(gdb)
	}

	appts := NewAppointmentService(
		repository.NewGormProviderRepository(gdb),
		repository.NewGormServiceRepository(gdb),
		repository.NewGormAppointmentRepository(gdb),
		opts.events,
		AppointmentOptions{Location: cst, Transitions: opts.transitions, Conflict: opts.conflict},
		log,
	)
	clients := NewClientDirectory(opts.clients, log)
	booking := NewBookingService(appts, clients, log)

	h := &harness{
		db:           gdb,
		logs:         logs,
		appointments: appts,
		booking:      booking,
		board:        NewBoardService(appts, log),
		wizard: NewWizardService(appts, booking, session.NewMemoryStore(), WizardOptions{
			BusinessOpen:   "09:00",
			BusinessClose:  "12:00",
			SuggestionStep: time.Hour,
			SessionTTL:     time.Minute,
		}, log),
	}

	h.provider = h.seedProvider(t, "Carlos")
	h.service = h.seedService(t, "Corte clásico", 150, minutes(45))
	return h
}

func (h *harness) seedProvider(t *testing.T, name string) model.Provider {
	t.Helper()
	p := model.Provider{DisplayName: name}
	if err := h.db.Create(&p).Error; err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return p
}

func (h *harness) seedService(t *testing.T, name string, price float64, durationMin *int64) model.Service {
	t.Helper()
	s := model.Service{Name: name, Price: price, DurationMin: durationMin}
	if err := h.db.Create(&s).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return s
}

func (h *harness) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (h *harness) staffForm(name, date, clock string) StaffBookingForm {
	return StaffBookingForm{
		ClientName:  name,
		ClientPhone: "555-123-4567",
		Date:        date,
		Time:        clock,
		ProviderID:  h.provider.ID.String(),
		ServiceID:   h.service.ID.String(),
	}
}

func minutes(n int64) *int64 { return &n }

var errConnRefused = errors.New("connection refused")

// Справочник клиентов, который всегда недоступен.
type failingClientRepo struct{}

func (failingClientRepo) FindByName(context.Context, string) (*model.Client, error) {
	return nil, scheduling.StoreFailure("find client", errConnRefused)
}

func (failingClientRepo) EnsureByName(context.Context, string, string, string) (*model.Client, bool, error) {
	return nil, false, scheduling.StoreFailure("find client", errConnRefused)
}

type failingEventRepo struct {
	repository.EventRepository
}

func (failingEventRepo) Append(context.Context, *model.AppointmentEvent) error {
	return scheduling.StoreFailure("append event", errConnRefused)
}
