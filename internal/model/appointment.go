package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal — completed и cancelled.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// ClientSnapshot — кто был записан на момент создания записи.
// Копируется один раз и не меняется при правке карточки клиента.
type ClientSnapshot struct {
	Name  string `gorm:"type:varchar(255);not null"`
	Phone string `gorm:"type:varchar(32)"`
}

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Client ClientSnapshot `gorm:"embedded;embeddedPrefix:client_"`

	// Единственная временная привязка; конец вычисляется по длительности услуги.
	StartsAt time.Time `gorm:"not null;index"`

	// Ссылки без внешних ключей: удаление мастера оставляет запись "осиротевшей".
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;index"`

	Status AppointmentStatus `gorm:"type:varchar(32);not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AppointmentDetail — запись вместе с данными услуги (LEFT JOIN services).
// Поля услуги nil, если услуга удалена.
type AppointmentDetail struct {
	Appointment

	ServiceName        *string
	ServicePrice       *float64
	ServiceDurationMin *int64
}

// RevenueFact — ровно те поля, которые читают финансовые отчёты.
type RevenueFact struct {
	AppointmentID uuid.UUID
	StartsAt      time.Time
	ProviderID    uuid.UUID
	ServicePrice  float64
	Status        AppointmentStatus
}
