package scheduling

import "github.com/hugo050303/barber-saas/internal/model"

// Span — занятое записью время у мастера.
type Span struct {
	AppointmentID string
	Range         TimeRange
}

// ConflictCheck решает, конфликтует ли предложенный интервал с существующими.
// true — конфликт, бронирование отклоняется.
type ConflictCheck func(provider model.Provider, proposed TimeRange, existing []Span) bool

// AllowOverlaps — поведение по умолчанию: пересечения разрешены.
func AllowOverlaps(model.Provider, TimeRange, []Span) bool {
	return false
}

// RejectOverlaps отклоняет любое пересечение полуоткрытых интервалов
// (касание концами конфликтом не считается).
func RejectOverlaps(_ model.Provider, proposed TimeRange, existing []Span) bool {
	has, _ := HasOverlap(proposed, existing)
	return has
}

// HasOverlap проверяет, пересекается ли proposed с existing, и возвращает конфликты.
func HasOverlap(proposed TimeRange, existing []Span) (bool, []Span) {
	var conflicts []Span
	for _, s := range existing {
		if rangesOverlap(proposed, s.Range, false) {
			conflicts = append(conflicts, s)
		}
	}
	return len(conflicts) > 0, conflicts
}
