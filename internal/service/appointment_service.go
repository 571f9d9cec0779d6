package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/repository"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

// NewAppointment — входные данные для создания записи.
type NewAppointment struct {
	Client     model.ClientSnapshot
	StartsAt   time.Time
	ProviderID string
	ServiceID  string
}

type AppointmentOptions struct {
	// Локальный часовой пояс салона.
	Location *time.Location
	// nil — PermissiveTransitions.
	Transitions scheduling.TransitionPolicy
	// nil — пересечения разрешены, проверка не выполняется.
	Conflict scheduling.ConflictCheck
}

// AppointmentService — доступ к записям и машина состояний статуса.
type AppointmentService struct {
	providers    repository.ProviderRepository
	services     repository.ServiceRepository
	appointments repository.AppointmentRepository
	events       repository.EventRepository

	loc         *time.Location
	transitions scheduling.TransitionPolicy
	conflict    scheduling.ConflictCheck

	log *zap.Logger
}

func NewAppointmentService(
	providers repository.ProviderRepository,
	services repository.ServiceRepository,
	appointments repository.AppointmentRepository,
	events repository.EventRepository,
	opts AppointmentOptions,
	log *zap.Logger,
) *AppointmentService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Transitions == nil {
		opts.Transitions = scheduling.PermissiveTransitions{}
	}
	return &AppointmentService{
		providers:    providers,
		services:     services,
		appointments: appointments,
		events:       events,
		loc:          opts.Location,
		transitions:  opts.Transitions,
		conflict:     opts.Conflict,
		log:          log.With(zap.String("component", "appointments")),
	}
}

func (s *AppointmentService) Location() *time.Location {
	return s.loc
}

func (s *AppointmentService) ListProvidersSorted(ctx context.Context) ([]model.Provider, error) {
	return s.providers.ListSorted(ctx)
}

func (s *AppointmentService) ListServices(ctx context.Context) ([]model.Service, error) {
	return s.services.List(ctx)
}

func (s *AppointmentService) GetService(ctx context.Context, id string) (*model.Service, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, scheduling.Invalid("serviceId", "must be a valid id")
	}
	return s.services.GetByID(ctx, id)
}

// ProviderFor возвращает мастера или UnknownProvider, если его уже нет.
func (s *AppointmentService) ProviderFor(ctx context.Context, id uuid.UUID) (model.Provider, error) {
	p, err := s.providers.GetByID(ctx, id.String())
	if scheduling.IsNotFound(err) {
		return model.UnknownProvider, nil
	}
	if err != nil {
		return model.Provider{}, err
	}
	return *p, nil
}

// ListAppointmentsInWindow — записи с началом в [from, to] вместе с данными услуги.
func (s *AppointmentService) ListAppointmentsInWindow(ctx context.Context, from, to time.Time) ([]model.AppointmentDetail, error) {
	if to.Before(from) {
		return nil, scheduling.Invalid("window", "end must not be before start")
	}
	return s.appointments.ListInWindow(ctx, from, to)
}

func (s *AppointmentService) ListProviderAppointmentsInWindow(
	ctx context.Context,
	providerID string,
	from, to time.Time,
) ([]model.AppointmentDetail, error) {
	if _, err := uuid.Parse(providerID); err != nil {
		return nil, scheduling.Invalid("providerId", "must be a valid id")
	}
	if to.Before(from) {
		return nil, scheduling.Invalid("window", "end must not be before start")
	}
	return s.appointments.ListByProviderInWindow(ctx, providerID, from, to)
}

// CreateAppointment создаёт запись в статусе pending.
func (s *AppointmentService) CreateAppointment(ctx context.Context, in NewAppointment) (*model.Appointment, error) {
	appt, _, err := s.create(ctx, in)
	return appt, err
}

// create возвращает запись и предупреждения о сбоях вторичных записей.
func (s *AppointmentService) create(ctx context.Context, in NewAppointment) (*model.Appointment, []string, error) {
	p, err := s.prepare(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return s.persist(ctx, p)
}

// prepared — проверенная заявка, готовая к записи в хранилище.
type prepared struct {
	in         NewAppointment
	providerID uuid.UUID
	serviceID  uuid.UUID
}

// validateNew проверяет заявку, не обращаясь к хранилищу.
func validateNew(in NewAppointment) (prepared, error) {
	if err := scheduling.CheckSelection(in.ProviderID, in.ServiceID); err != nil {
		return prepared{}, err
	}
	providerID, err := uuid.Parse(in.ProviderID)
	if err != nil {
		return prepared{}, scheduling.Invalid("providerId", "must be a valid id")
	}
	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		return prepared{}, scheduling.Invalid("serviceId", "must be a valid id")
	}
	if in.StartsAt.IsZero() {
		return prepared{}, scheduling.Invalid("startsAt", "is required")
	}
	return prepared{in: in, providerID: providerID, serviceID: serviceID}, nil
}

// prepare — все проверки до первой записи: поля заявки и, если подключена, проверка пересечений.
// Хранилище здесь только читается.
func (s *AppointmentService) prepare(ctx context.Context, in NewAppointment) (prepared, error) {
	p, err := validateNew(in)
	if err != nil {
		return prepared{}, err
	}
	if s.conflict != nil {
		if err := s.checkConflict(ctx, p.providerID, in.ServiceID, in.StartsAt); err != nil {
			return prepared{}, err
		}
	}
	return p, nil
}

// persist сохраняет запись в статусе pending и добавляет событие в outbox.
func (s *AppointmentService) persist(ctx context.Context, p prepared) (appt *model.Appointment, warnings []string, err error) {
	ctx, span := startSpan(ctx, "AppointmentService.CreateAppointment")
	defer func() { endSpan(span, err) }()

	appt = &model.Appointment{
		Client:     p.in.Client,
		StartsAt:   p.in.StartsAt,
		ProviderID: p.providerID,
		ServiceID:  p.serviceID,
		Status:     model.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		s.log.Error("create appointment failed", zap.Error(err))
		return nil, nil, err
	}

	s.log.Info("appointment created",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("provider_id", appt.ProviderID.String()),
		zap.Time("starts_at", appt.StartsAt),
	)

	if w := s.recordEvent(ctx, model.EventTypeAppointmentCreated, appt, ""); w != "" {
		warnings = append(warnings, w)
	}
	return appt, warnings, nil
}

func (s *AppointmentService) checkConflict(ctx context.Context, providerID uuid.UUID, serviceID string, start time.Time) error {
	provider, err := s.ProviderFor(ctx, providerID)
	if err != nil {
		return err
	}

	var durationMin *int64
	svc, err := s.services.GetByID(ctx, serviceID)
	switch {
	case err == nil:
		durationMin = svc.DurationMin
	case !scheduling.IsNotFound(err):
		return err
	}
	proposed := scheduling.TimeRange{Start: start, End: scheduling.DerivedEnd(start, durationMin)}

	// Запись предыдущего дня может заходить на этот, а новая может заходить на следующий.
	day := scheduling.DayWindow(start.In(s.loc), s.loc)
	until := day.End
	if proposed.End.After(until) {
		until = proposed.End
	}
	existing, err := s.appointments.ListByProviderInWindow(ctx, providerID.String(), day.Start.AddDate(0, 0, -1), until)
	if err != nil {
		return err
	}

	spans := make([]scheduling.Span, 0, len(existing))
	for _, a := range existing {
		spans = append(spans, scheduling.Span{
			AppointmentID: a.ID.String(),
			Range: scheduling.TimeRange{
				Start: a.StartsAt,
				End:   scheduling.DerivedEnd(a.StartsAt, a.ServiceDurationMin),
			},
		})
	}

	if s.conflict(provider, proposed, spans) {
		return &scheduling.ValidationError{
			Field:  "time",
			Reason: "overlaps an existing appointment",
			Err:    scheduling.ErrSlotConflict,
		}
	}
	return nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (*model.AppointmentDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, scheduling.Invalid("appointmentId", "must be a valid id")
	}
	return s.appointments.GetByID(ctx, id)
}

// SetStatus записывает новый статус. По умолчанию переход из любого статуса разрешён.
// Второе значение — предупреждения о сбоях вторичных записей.
func (s *AppointmentService) SetStatus(
	ctx context.Context,
	id string,
	status model.AppointmentStatus,
) (appt *model.AppointmentDetail, warnings []string, err error) {
	ctx, span := startSpan(ctx, "AppointmentService.SetStatus")
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return nil, nil, scheduling.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.transitions.CheckStatus(current.Status, status); err != nil {
		return nil, nil, err
	}

	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, nil, err
	}

	previous := current.Status
	current.Status = status

	s.log.Info("appointment status changed",
		zap.String("appointment_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	if w := s.recordEvent(ctx, model.EventTypeAppointmentStatusChanged, &current.Appointment, previous); w != "" {
		warnings = append(warnings, w)
	}
	return current, warnings, nil
}

// DeleteAppointment удаляет запись безвозвратно. Подтверждение — забота вызывающего.
// Возвращает предупреждения о сбоях вторичных записей.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id string) (warnings []string, err error) {
	ctx, span := startSpan(ctx, "AppointmentService.DeleteAppointment")
	defer func() { endSpan(span, err) }()

	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transitions.CheckDelete(current.Status); err != nil {
		return nil, err
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.log.Info("appointment deleted", zap.String("appointment_id", id))
	if w := s.recordEvent(ctx, model.EventTypeAppointmentDeleted, &current.Appointment, current.Status); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// ListRevenueFacts — факты для финансовых отчётов. Агрегация — забота потребителя.
// Нулевые From/To означают отсутствие границы.
func (s *AppointmentService) ListRevenueFacts(ctx context.Context, f repository.RevenueFilter) ([]model.RevenueFact, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, scheduling.Invalid("status", fmt.Sprintf("unknown status %q", f.Status))
	}
	if f.ProviderID != "" {
		if _, err := uuid.Parse(f.ProviderID); err != nil {
			return nil, 0, scheduling.Invalid("providerId", "must be a valid id")
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, 0, scheduling.Invalid("window", "end must not be before start")
	}
	return s.appointments.ListRevenueFacts(ctx, f)
}

type eventPayload struct {
	AppointmentID  string    `json:"appointmentId"`
	ProviderID     string    `json:"providerId"`
	ServiceID      string    `json:"serviceId"`
	StartsAt       time.Time `json:"startsAt"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
}

// recordEvent добавляет событие в outbox. Сбой не отменяет основную запись:
// он логируется и возвращается как текст предупреждения.
func (s *AppointmentService) recordEvent(
	ctx context.Context,
	typ model.EventType,
	appt *model.Appointment,
	previous model.AppointmentStatus,
) string {
	if s.events == nil {
		return ""
	}

	payload, err := json.Marshal(eventPayload{
		AppointmentID:  appt.ID.String(),
		ProviderID:     appt.ProviderID.String(),
		ServiceID:      appt.ServiceID.String(),
		StartsAt:       appt.StartsAt.UTC(),
		Status:         string(appt.Status),
		PreviousStatus: string(previous),
	})
	if err == nil {
		err = s.events.Append(ctx, &model.AppointmentEvent{
			EventType:     typ,
			AppointmentID: appt.ID,
			Payload:       datatypes.JSON(payload),
		})
	}
	if err == nil {
		return ""
	}

	s.log.Warn("append lifecycle event failed",
		zap.String("event_type", string(typ)),
		zap.String("appointment_id", appt.ID.String()),
		zap.Error(err),
	)
	return "lifecycle event not recorded: " + err.Error()
}
