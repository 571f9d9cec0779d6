package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate("get service", "service", id, err)
	}
	return &s, nil
}

func (r *GormServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, scheduling.StoreFailure("list services", err)
	}
	return services, nil
}
