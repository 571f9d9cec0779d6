package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// clients — справочник клиентов. Имя — естественный ключ для дедупликации,
// но уникальность на уровне БД не навязывается.
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`

	// Имя в свёрнутом регистре, по нему ищем совпадения.
	NameKey string `gorm:"type:varchar(255);not null;index"`

	// Только цифры, ожидаемая длина 10. Может быть пустым.
	Phone string `gorm:"type:varchar(32)"`

	Notes string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FoldName приводит имя к ключу сравнения без учёта регистра.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

func (c *Client) BeforeSave(tx *gorm.DB) error {
	c.NameKey = FoldName(c.Name)
	return nil
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
