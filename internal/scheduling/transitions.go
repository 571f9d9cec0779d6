package scheduling

import (
	"fmt"

	"github.com/hugo050303/barber-saas/internal/model"
)

// TransitionPolicy решает, разрешены ли смена статуса и удаление.
type TransitionPolicy interface {
	CheckStatus(from, to model.AppointmentStatus) error
	CheckDelete(current model.AppointmentStatus) error
}

// PermissiveTransitions записывает любой допустимый статус независимо от текущего.
type PermissiveTransitions struct{}

func (PermissiveTransitions) CheckStatus(_, _ model.AppointmentStatus) error { return nil }
func (PermissiveTransitions) CheckDelete(model.AppointmentStatus) error     { return nil }

// StrictTransitions: pending → confirmed|completed|cancelled, confirmed → completed|cancelled.
// Терминальные записи нельзя ни менять, ни удалять.
type StrictTransitions struct{}

var strictGraph = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending: {
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	},
	model.AppointmentStatusConfirmed: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	},
}

func (StrictTransitions) CheckStatus(from, to model.AppointmentStatus) error {
	if from == to {
		return nil
	}
	for _, next := range strictGraph[from] {
		if next == to {
			return nil
		}
	}
	return &ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("cannot move from %s to %s", from, to),
		Err:    ErrTransitionNotAllowed,
	}
}

func (StrictTransitions) CheckDelete(current model.AppointmentStatus) error {
	if current.IsTerminal() {
		return &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("%s appointments cannot be deleted", current),
			Err:    ErrTransitionNotAllowed,
		}
	}
	return nil
}
