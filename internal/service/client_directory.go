package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hugo050303/barber-saas/internal/repository"
)

// ClientRef — ссылка на карточку клиента в справочнике.
type ClientRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Created bool      `json:"created"`
}

// ClientDirectory дедуплицирует клиентов по имени без учёта регистра.
// Вызывается из обоих сценариев бронирования; сбой не отменяет запись.
type ClientDirectory struct {
	repo repository.ClientRepository
	log  *zap.Logger
}

func NewClientDirectory(repo repository.ClientRepository, log *zap.Logger) *ClientDirectory {
	return &ClientDirectory{
		repo: repo,
		log:  log.With(zap.String("component", "client_directory")),
	}
}

// ResolveOrCreate находит клиента по имени или создаёт карточку с пометкой note.
// Найденная карточка не изменяется.
func (d *ClientDirectory) ResolveOrCreate(ctx context.Context, name, phone, note string) (ref *ClientRef, err error) {
	ctx, span := startSpan(ctx, "ClientDirectory.ResolveOrCreate")
	defer func() { endSpan(span, err) }()

	c, created, err := d.repo.EnsureByName(ctx, name, phone, note)
	if err != nil {
		d.log.Warn("client directory resolution failed",
			zap.String("client_name", name),
			zap.Error(err),
		)
		return nil, err
	}

	if created {
		d.log.Info("client registered", zap.String("client_id", c.ID.String()))
	}

	return &ClientRef{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Created: created,
	}, nil
}
