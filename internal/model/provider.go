package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider — мастер, который оказывает услуги и владеет колонкой на доске.
type Provider struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Имя/отображаемое название в интерфейсе.
	DisplayName string `gorm:"type:varchar(255);not null;index" json:"displayName"`

	// Специализация (тег), свободный текст.
	Specialty string `gorm:"type:varchar(255)" json:"specialty"`

	// Процент комиссии мастера, 0–100.
	CommissionPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"commissionPercent"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnknownProvider — заглушка для записей, чей мастер уже удалён.
// Такие записи остаются видимыми на доске.
var UnknownProvider = Provider{DisplayName: "Unknown provider"}

func (p Provider) IsUnknown() bool {
	return p.ID == uuid.Nil
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
