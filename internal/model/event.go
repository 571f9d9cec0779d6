package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события жизненного цикла записи.
type EventType string

const (
	EventTypeAppointmentCreated       EventType = "appointment_created"
	EventTypeAppointmentStatusChanged EventType = "appointment_status_changed"
	EventTypeAppointmentDeleted       EventType = "appointment_deleted"
)

// appointment_events — outbox событий для отправки в Kafka.
type AppointmentEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	Payload datatypes.JSON

	CreatedAt time.Time `gorm:"index"`

	// nil — ещё не отправлено.
	PublishedAt *time.Time `gorm:"index"`
}

func (e *AppointmentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
