package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

func TestSubmitStaffBooking_CreatesPendingAppointment(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	res, err := h.booking.SubmitStaffBooking(ctx, h.staffForm("Ana Lopez", "2024-01-10", "10:00"))
	if err != nil {
		t.Fatalf("SubmitStaffBooking: %v", err)
	}

	appt := res.Appointment
	if appt.Status != model.AppointmentStatusPending {
		t.Fatalf("expected pending, got %s", appt.Status)
	}
	if appt.Client.Phone != "5551234567" {
		t.Fatalf("expected phone digits only, got %q", appt.Client.Phone)
	}
	want := time.Date(2024, 1, 10, 10, 0, 0, 0, cst)
	if !appt.StartsAt.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, appt.StartsAt)
	}
	if res.Client == nil || !res.Client.Created {
		t.Fatalf("expected client to be registered, got %+v", res.Client)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	var c model.Client
	if err := h.db.First(&c).Error; err != nil {
		t.Fatalf("load client: %v", err)
	}
	if c.Notes != scheduling.StaffPolicy.ClientNote {
		t.Fatalf("expected staff origin note, got %q", c.Notes)
	}
}

func TestSubmitStaffBooking_DeduplicatesClientsCaseInsensitively(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	first, err := h.booking.SubmitStaffBooking(ctx, h.staffForm("Ana Lopez", "2024-01-10", "10:00"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second, err := h.booking.SubmitStaffBooking(ctx, h.staffForm("ana lopez", "2024-01-11", "10:00"))
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}

	if got := h.count(t, &model.Client{}); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
	if second.Client.ID != first.Client.ID || second.Client.Created {
		t.Fatalf("expected second booking to reuse client, got %+v", second.Client)
	}
	if got := h.count(t, &model.Appointment{}); got != 2 {
		t.Fatalf("expected 2 appointments, got %d", got)
	}
}

func TestSubmitStaffBooking_BlankServiceIsRejectedBeforeStore(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	form := h.staffForm("Ana Lopez", "2024-01-10", "10:00")
	form.ServiceID = ""

	_, err := h.booking.SubmitStaffBooking(context.Background(), form)

	var ve *scheduling.ValidationError
	if !errors.As(err, &ve) || ve.Field != "serviceId" {
		t.Fatalf("expected serviceId validation error, got %v", err)
	}
	if got := h.count(t, &model.Appointment{}); got != 0 {
		t.Fatalf("expected no appointment rows, got %d", got)
	}
	if got := h.count(t, &model.Client{}); got != 0 {
		t.Fatalf("expected no client rows, got %d", got)
	}
}

func TestSubmitStaffBooking_MalformedIDsRejectedBeforeDirectory(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	for field, mutate := range map[string]func(f *StaffBookingForm){
		"providerId": func(f *StaffBookingForm) { f.ProviderID = "not-a-uuid" },
		"serviceId":  func(f *StaffBookingForm) { f.ServiceID = "42" },
	} {
		form := h.staffForm("Ana Lopez", "2024-01-10", "10:00")
		mutate(&form)

		_, err := h.booking.SubmitStaffBooking(context.Background(), form)
		var ve *scheduling.ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
	}

	if got := h.count(t, &model.Client{}); got != 0 {
		t.Fatalf("expected no client rows, got %d", got)
	}
	if got := h.count(t, &model.Appointment{}); got != 0 {
		t.Fatalf("expected no appointment rows, got %d", got)
	}
}

func TestSubmitStaffBooking_OverlapRejectedBeforeDirectory(t *testing.T) {
	h := newHarness(t, harnessOptions{conflict: scheduling.RejectOverlaps})
	ctx := context.Background()

	if _, err := h.booking.SubmitStaffBooking(ctx, h.staffForm("Ana Lopez", "2024-01-10", "10:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := h.booking.SubmitStaffBooking(ctx, h.staffForm("Luis Perez", "2024-01-10", "10:15"))
	if !errors.Is(err, scheduling.ErrSlotConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}

	if got := h.count(t, &model.Client{}); got != 1 {
		t.Fatalf("expected only the first client, got %d", got)
	}
	if got := h.count(t, &model.Appointment{}); got != 1 {
		t.Fatalf("expected 1 appointment, got %d", got)
	}
}

func TestSubmitStaffBooking_RequiresAllFields(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	cases := map[string]func(f *StaffBookingForm){
		"clientName":  func(f *StaffBookingForm) { f.ClientName = "   " },
		"clientPhone": func(f *StaffBookingForm) { f.ClientPhone = "n/a" },
		"date":        func(f *StaffBookingForm) { f.Date = "" },
		"time":        func(f *StaffBookingForm) { f.Time = "" },
		"providerId":  func(f *StaffBookingForm) { f.ProviderID = "" },
	}

	for field, mutate := range cases {
		form := h.staffForm("Ana Lopez", "2024-01-10", "10:00")
		mutate(&form)

		_, err := h.booking.SubmitStaffBooking(context.Background(), form)
		var ve *scheduling.ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
	}

	if got := h.count(t, &model.Appointment{}); got != 0 {
		t.Fatalf("expected no appointment rows, got %d", got)
	}
}

func TestSubmitStaffBooking_ClientDirectoryFailureBecomesWarning(t *testing.T) {
	h := newHarness(t, harnessOptions{clients: failingClientRepo{}})

	res, err := h.booking.SubmitStaffBooking(context.Background(), h.staffForm("Ana Lopez", "2024-01-10", "10:00"))
	if err != nil {
		t.Fatalf("booking must succeed despite directory failure: %v", err)
	}
	if res.Client != nil {
		t.Fatalf("expected no client ref, got %+v", res.Client)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "client directory") {
		t.Fatalf("expected client directory warning, got %v", res.Warnings)
	}
	if got := h.count(t, &model.Appointment{}); got != 1 {
		t.Fatalf("expected appointment to be created, got %d", got)
	}

	logged := h.logs.FilterMessage("client directory resolution failed").FilterLevelExact(zapcore.WarnLevel)
	if logged.Len() != 1 {
		t.Fatalf("expected directory failure to be logged, got %d entries", logged.Len())
	}
}

func TestSubmitPublicBooking_RequiresTenDigitPhone(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	_, err := h.booking.SubmitPublicBooking(context.Background(), PublicBooking{
		ProviderID:  h.provider.ID.String(),
		ServiceID:   h.service.ID.String(),
		StartsAt:    time.Date(2024, 1, 10, 10, 0, 0, 0, cst),
		ClientName:  "Ana Lopez",
		ClientPhone: "555-1234",
	})
	if !scheduling.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := h.count(t, &model.Appointment{}); got != 0 {
		t.Fatalf("expected no appointment rows, got %d", got)
	}
}

func TestSubmitPublicBooking_DirectoryFailureDoesNotBlock(t *testing.T) {
	h := newHarness(t, harnessOptions{clients: failingClientRepo{}})

	res, err := h.booking.SubmitPublicBooking(context.Background(), PublicBooking{
		ProviderID:  h.provider.ID.String(),
		ServiceID:   h.service.ID.String(),
		StartsAt:    time.Date(2024, 1, 10, 10, 0, 0, 0, cst),
		ClientName:  "Ana Lopez",
		ClientPhone: "(555) 123-4567",
	})
	if err != nil {
		t.Fatalf("SubmitPublicBooking: %v", err)
	}
	if res.Appointment == nil || len(res.Warnings) != 1 {
		t.Fatalf("expected appointment with one warning, got %+v", res)
	}
}

func TestCreateAppointment_EventFailureBecomesWarning(t *testing.T) {
	h := newHarness(t, harnessOptions{events: failingEventRepo{}})

	res, err := h.booking.SubmitStaffBooking(context.Background(), h.staffForm("Ana Lopez", "2024-01-10", "10:00"))
	if err != nil {
		t.Fatalf("SubmitStaffBooking: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "lifecycle event") {
		t.Fatalf("expected lifecycle event warning, got %v", res.Warnings)
	}
	if h.logs.FilterMessage("append lifecycle event failed").Len() != 1 {
		t.Fatalf("expected event failure to be logged")
	}
}
