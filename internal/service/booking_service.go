package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

// StaffBookingForm — поля модального окна записи из агенды.
type StaffBookingForm struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Date        string `json:"date"` // 2006-01-02
	Time        string `json:"time"` // 15:04
	ProviderID  string `json:"providerId"`
	ServiceID   string `json:"serviceId"`
}

// PublicBooking — данные, собранные мастером публичной записи.
type PublicBooking struct {
	ProviderID  string
	ServiceID   string
	StartsAt    time.Time
	ClientName  string
	ClientPhone string
}

// BookingResult — созданная запись и результат вторичных шагов.
type BookingResult struct {
	Appointment *model.Appointment
	// nil, если справочник клиентов не ответил.
	Client   *ClientRef
	Warnings []string
}

// BookingService — общее ядро двух точек входа бронирования.
type BookingService struct {
	appointments *AppointmentService
	clients      *ClientDirectory
	log          *zap.Logger
}

func NewBookingService(appointments *AppointmentService, clients *ClientDirectory, log *zap.Logger) *BookingService {
	return &BookingService{
		appointments: appointments,
		clients:      clients,
		log:          log.With(zap.String("component", "booking")),
	}
}

// SubmitStaffBooking: проверка формы и выбора, затем справочник клиентов, затем запись.
// Ошибка справочника не прерывает бронирование.
func (b *BookingService) SubmitStaffBooking(ctx context.Context, form StaffBookingForm) (res *BookingResult, err error) {
	ctx, span := startSpan(ctx, "BookingService.SubmitStaffBooking")
	defer func() { endSpan(span, err) }()

	policy := scheduling.StaffPolicy

	contact, err := policy.CheckContact(scheduling.ContactInput{Name: form.ClientName, Phone: form.ClientPhone})
	if err != nil {
		return nil, err
	}
	startsAt, err := scheduling.CombineDateTime(form.Date, form.Time, b.appointments.Location())
	if err != nil {
		return nil, err
	}

	// Все проверки, включая пересечения, до первой записи в хранилище.
	pending, err := b.appointments.prepare(ctx, NewAppointment{
		Client:     model.ClientSnapshot{Name: contact.Name, Phone: contact.Phone},
		StartsAt:   startsAt,
		ProviderID: form.ProviderID,
		ServiceID:  form.ServiceID,
	})
	if err != nil {
		return nil, err
	}

	res = &BookingResult{}

	ref, err := b.clients.ResolveOrCreate(ctx, contact.Name, contact.Phone, policy.ClientNote)
	if err != nil {
		res.Warnings = append(res.Warnings, clientWarning(err))
	} else {
		res.Client = ref
	}

	appt, warnings, err := b.appointments.persist(ctx, pending)
	if err != nil {
		return nil, err
	}

	res.Appointment = appt
	res.Warnings = append(res.Warnings, warnings...)
	b.logWarnings(appt, res.Warnings)
	return res, nil
}

// SubmitPublicBooking: сначала запись, затем справочник клиентов.
func (b *BookingService) SubmitPublicBooking(ctx context.Context, in PublicBooking) (res *BookingResult, err error) {
	ctx, span := startSpan(ctx, "BookingService.SubmitPublicBooking")
	defer func() { endSpan(span, err) }()

	policy := scheduling.PublicPolicy

	contact, err := policy.CheckContact(scheduling.ContactInput{Name: in.ClientName, Phone: in.ClientPhone})
	if err != nil {
		return nil, err
	}

	appt, warnings, err := b.appointments.create(ctx, NewAppointment{
		Client:     model.ClientSnapshot{Name: contact.Name, Phone: contact.Phone},
		StartsAt:   in.StartsAt,
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
	})
	if err != nil {
		return nil, err
	}

	res = &BookingResult{Appointment: appt, Warnings: warnings}

	ref, err := b.clients.ResolveOrCreate(ctx, contact.Name, contact.Phone, policy.ClientNote)
	if err != nil {
		res.Warnings = append(res.Warnings, clientWarning(err))
	} else {
		res.Client = ref
	}

	b.logWarnings(appt, res.Warnings)
	return res, nil
}

func (b *BookingService) logWarnings(appt *model.Appointment, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.log.Warn("booking completed with warnings",
		zap.String("appointment_id", appt.ID.String()),
		zap.Strings("warnings", warnings),
	)
}

func clientWarning(err error) string {
	return "client directory not updated: " + err.Error()
}
