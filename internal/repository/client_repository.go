package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

type ClientRepository interface {
	// Поиск по имени без учёта регистра, точное совпадение строки.
	FindByName(ctx context.Context, name string) (*model.Client, error)
	// Найти по имени или создать. created = true, если карточка создана.
	EnsureByName(ctx context.Context, name, phone, note string) (client *model.Client, created bool, err error)
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) FindByName(ctx context.Context, name string) (*model.Client, error) {
	var found []model.Client
	err := r.db.WithContext(ctx).
		Where("name_key = ?", model.FoldName(name)).
		Order("created_at ASC").
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, scheduling.StoreFailure("find client", err)
	}
	if len(found) == 0 {
		return nil, scheduling.NotFound("client", name)
	}
	return &found[0], nil
}

func (r *GormClientRepository) EnsureByName(ctx context.Context, name, phone, note string) (*model.Client, bool, error) {
	c, err := r.FindByName(ctx, name)
	if err == nil {
		// Телефон существующей карточки не обновляем.
		return c, false, nil
	}
	var nf *scheduling.NotFoundError
	if !errors.As(err, &nf) {
		return nil, false, err
	}

	c = &model.Client{Name: name, Phone: phone, Notes: note}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, false, scheduling.StoreFailure("create client", err)
	}
	return c, true, nil
}
