package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// services
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// Цена, неотрицательная.
	Price float64 `gorm:"type:decimal(10,2);not null;default:0" json:"price"`

	// В минутах, может быть nil — тогда конец записи считается по умолчанию (30 минут).
	DurationMin *int64 `gorm:"type:bigint" json:"durationMin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
