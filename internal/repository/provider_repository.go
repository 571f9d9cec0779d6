package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*model.Provider, error)
	// Все мастера, по имени по возрастанию.
	ListSorted(ctx context.Context) ([]model.Provider, error)
}

type GormProviderRepository struct {
	db *gorm.DB
}

func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

func (r *GormProviderRepository) GetByID(ctx context.Context, id string) (*model.Provider, error) {
	var p model.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate("get provider", "provider", id, err)
	}
	return &p, nil
}

func (r *GormProviderRepository) ListSorted(ctx context.Context) ([]model.Provider, error) {
	var providers []model.Provider
	err := r.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&providers).Error
	if err != nil {
		return nil, scheduling.StoreFailure("list providers", err)
	}
	return providers, nil
}
