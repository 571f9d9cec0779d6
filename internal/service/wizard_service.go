package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
	"github.com/hugo050303/barber-saas/internal/session"
)

// Шаги публичного мастера записи.
const (
	StepSelection = 1
	StepSchedule  = 2
	StepContact   = 3
	StepDone      = 4
)

// WizardState — состояние одной попытки публичной записи. Хранится в session.Store.
type WizardState struct {
	ID   string `json:"id"`
	Step int    `json:"step"`

	ProviderID   string `json:"providerId,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	ServiceID    string `json:"serviceId,omitempty"`
	ServiceName  string `json:"serviceName,omitempty"`

	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`

	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`

	// Заполняются на шаге 4.
	AppointmentID string   `json:"appointmentId,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Catalog — то, из чего клиент выбирает на шаге 1.
type Catalog struct {
	Providers []model.Provider `json:"providers"`
	Services  []model.Service  `json:"services"`
}

type WizardOptions struct {
	BusinessOpen   string
	BusinessClose  string
	SuggestionStep time.Duration
	SessionTTL     time.Duration
}

// WizardService — четырёхшаговый мастер публичной записи.
type WizardService struct {
	appointments *AppointmentService
	booking      *BookingService
	sessions     session.Store
	opts         WizardOptions
	log          *zap.Logger
}

func NewWizardService(
	appointments *AppointmentService,
	booking *BookingService,
	sessions session.Store,
	opts WizardOptions,
	log *zap.Logger,
) *WizardService {
	if opts.SuggestionStep <= 0 {
		opts.SuggestionStep = scheduling.DefaultDuration
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	return &WizardService{
		appointments: appointments,
		booking:      booking,
		sessions:     sessions,
		opts:         opts,
		log:          log.With(zap.String("component", "wizard")),
	}
}

func (w *WizardService) Catalog(ctx context.Context) (*Catalog, error) {
	providers, err := w.appointments.ListProvidersSorted(ctx)
	if err != nil {
		return nil, err
	}
	services, err := w.appointments.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{Providers: providers, Services: services}, nil
}

func (w *WizardService) Start(ctx context.Context) (*WizardState, error) {
	st := &WizardState{ID: uuid.NewString(), Step: StepSelection}
	if err := w.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (w *WizardService) Get(ctx context.Context, id string) (*WizardState, error) {
	return w.load(ctx, id)
}

// ChooseSelection — шаг 1: мастер и услуга должны быть выбраны и существовать.
func (w *WizardService) ChooseSelection(ctx context.Context, id, providerID, serviceID string) (*WizardState, error) {
	st, err := w.loadAt(ctx, id, StepSelection)
	if err != nil {
		return nil, err
	}
	if err := scheduling.CheckSelection(providerID, serviceID); err != nil {
		return nil, err
	}

	pid, err := uuid.Parse(providerID)
	if err != nil {
		return nil, scheduling.Invalid("providerId", "must be a valid id")
	}
	provider, err := w.appointments.ProviderFor(ctx, pid)
	if err != nil {
		return nil, err
	}
	if provider.IsUnknown() {
		return nil, scheduling.Invalid("providerId", "unknown provider")
	}

	svc, err := w.appointments.GetService(ctx, serviceID)
	if scheduling.IsNotFound(err) {
		return nil, scheduling.Invalid("serviceId", "unknown service")
	}
	if err != nil {
		return nil, err
	}

	st.ProviderID = provider.ID.String()
	st.ProviderName = provider.DisplayName
	st.ServiceID = svc.ID.String()
	st.ServiceName = svc.Name
	st.Step = StepSchedule

	if err := w.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SuggestTimes — варианты начала в рабочие часы. Выбор вне списка не запрещён.
func (w *WizardService) SuggestTimes(ctx context.Context, id, date string) ([]string, error) {
	if _, err := w.loadAt(ctx, id, StepSchedule); err != nil {
		return nil, err
	}
	loc := w.appointments.Location()
	day, err := scheduling.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	times, err := scheduling.SuggestTimes(day, w.opts.BusinessOpen, w.opts.BusinessClose, w.opts.SuggestionStep, loc)
	if err != nil {
		return nil, fmt.Errorf("suggest times: %w", err)
	}
	return times, nil
}

// ChooseSchedule — шаг 2: нужны и дата, и время.
func (w *WizardService) ChooseSchedule(ctx context.Context, id, date, clock string) (*WizardState, error) {
	st, err := w.loadAt(ctx, id, StepSchedule)
	if err != nil {
		return nil, err
	}
	if _, err := scheduling.CombineDateTime(date, clock, w.appointments.Location()); err != nil {
		return nil, err
	}

	st.Date = strings.TrimSpace(date)
	st.Time = strings.TrimSpace(clock)
	st.Step = StepContact

	if err := w.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Back — назад можно только с шагов 2 и 3.
func (w *WizardService) Back(ctx context.Context, id string) (*WizardState, error) {
	st, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Step != StepSchedule && st.Step != StepContact {
		return nil, scheduling.Invalid("step", fmt.Sprintf("cannot go back from step %d", st.Step))
	}

	st.Step--
	if err := w.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Submit — шаг 3: телефон ровно из 10 цифр. Сначала создаётся запись,
// сбой справочника клиентов попадает в Warnings и не мешает шагу 4.
func (w *WizardService) Submit(ctx context.Context, id, name, phone string) (*WizardState, error) {
	st, err := w.loadAt(ctx, id, StepContact)
	if err != nil {
		return nil, err
	}

	loc := w.appointments.Location()
	startsAt, err := scheduling.CombineDateTime(st.Date, st.Time, loc)
	if err != nil {
		return nil, err
	}

	res, err := w.booking.SubmitPublicBooking(ctx, PublicBooking{
		ProviderID:  st.ProviderID,
		ServiceID:   st.ServiceID,
		StartsAt:    startsAt,
		ClientName:  name,
		ClientPhone: phone,
	})
	if err != nil {
		return nil, err
	}

	st.ClientName = res.Appointment.Client.Name
	st.ClientPhone = res.Appointment.Client.Phone
	st.AppointmentID = res.Appointment.ID.String()
	st.Summary = scheduling.FormatSummary(st.ServiceName, st.ProviderName, res.Appointment.StartsAt, loc)
	st.Warnings = res.Warnings
	st.Step = StepDone

	if err := w.save(ctx, st); err != nil {
		// Запись уже создана, поэтому подтверждение всё равно отдаём.
		w.log.Warn("save wizard session failed", zap.String("session_id", id), zap.Error(err))
		st.Warnings = append(st.Warnings, "session not saved: "+err.Error())
	}
	return st, nil
}

// Restart начинает мастер заново в той же сессии.
func (w *WizardService) Restart(ctx context.Context, id string) (*WizardState, error) {
	if _, err := w.load(ctx, id); err != nil {
		return nil, err
	}
	st := &WizardState{ID: id, Step: StepSelection}
	if err := w.save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (w *WizardService) loadAt(ctx context.Context, id string, step int) (*WizardState, error) {
	st, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Step != step {
		return nil, scheduling.Invalid("step", fmt.Sprintf("wizard is at step %d, not %d", st.Step, step))
	}
	return st, nil
}

func (w *WizardService) load(ctx context.Context, id string) (*WizardState, error) {
	var st WizardState
	err := w.sessions.Load(ctx, id, &st)
	if errors.Is(err, session.ErrNotFound) {
		return nil, scheduling.NotFound("wizard session", id)
	}
	if err != nil {
		return nil, scheduling.StoreFailure("load wizard session", err)
	}
	return &st, nil
}

func (w *WizardService) save(ctx context.Context, st *WizardState) error {
	return scheduling.StoreFailure("save wizard session", w.sessions.Save(ctx, st.ID, st, w.opts.SessionTTL))
}
