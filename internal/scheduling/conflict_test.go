package scheduling

import (
	"testing"
	"time"

	"github.com/hugo050303/barber-saas/internal/model"
)

func span(t *testing.T, id string, h1, m1, h2, m2 int) Span {
	t.Helper()
	return Span{
		AppointmentID: id,
		Range: TimeRange{
			Start: mustTime(t, time.UTC, 2024, 1, 10, h1, m1),
			End:   mustTime(t, time.UTC, 2024, 1, 10, h2, m2),
		},
	}
}

func TestAllowOverlaps_NeverConflicts(t *testing.T) {
	proposed := span(t, "", 10, 0, 10, 45).Range
	existing := []Span{span(t, "a", 10, 0, 10, 45)}

	if AllowOverlaps(model.Provider{}, proposed, existing) {
		t.Fatalf("default hook must allow overlaps")
	}
}

func TestRejectOverlaps_Overlap(t *testing.T) {
	proposed := span(t, "", 10, 30, 11, 0).Range
	existing := []Span{span(t, "a", 9, 0, 10, 0), span(t, "b", 10, 0, 10, 45)}

	if !RejectOverlaps(model.Provider{}, proposed, existing) {
		t.Fatalf("expected conflict")
	}
	_, conflicts := HasOverlap(proposed, existing)
	if len(conflicts) != 1 || conflicts[0].AppointmentID != "b" {
		t.Fatalf("conflicts = %+v, want only b", conflicts)
	}
}

func TestRejectOverlaps_TouchingIsNotConflict(t *testing.T) {
	proposed := span(t, "", 10, 45, 11, 15).Range
	existing := []Span{span(t, "a", 10, 0, 10, 45)}

	if RejectOverlaps(model.Provider{}, proposed, existing) {
		t.Fatalf("touching intervals must not conflict")
	}
}
