package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

type EventRepository interface {
	Append(ctx context.Context, ev *model.AppointmentEvent) error
	// Неотправленные события, старые первыми.
	FetchUnpublished(ctx context.Context, limit int) ([]model.AppointmentEvent, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, ev *model.AppointmentEvent) error {
	return scheduling.StoreFailure("append event", r.db.WithContext(ctx).Create(ev).Error)
}

func (r *GormEventRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.AppointmentEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []model.AppointmentEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, scheduling.StoreFailure("fetch unpublished events", err)
	}
	return events, nil
}

func (r *GormEventRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.AppointmentEvent{}).
		Where("id IN ?", ids).
		Update("published_at", at.UTC()).Error
	return scheduling.StoreFailure("mark events published", err)
}
