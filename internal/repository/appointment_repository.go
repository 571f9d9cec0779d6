package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/model"
	"github.com/hugo050303/barber-saas/internal/scheduling"
)

// RevenueFilter — фильтр фактов для финансовых отчётов.
// Нулевые From/To — граница не задана, пустой ProviderID — все мастера,
// пустой Status — только completed.
// PageSize <= 0 — без пагинации.
type RevenueFilter struct {
	From       time.Time
	To         time.Time
	ProviderID string
	Status     model.AppointmentStatus
	Page       int // с 1
	PageSize   int
}

type AppointmentRepository interface {
	// Создать запись. Время начала сохраняется в UTC.
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.AppointmentDetail, error)
	// Записи с началом в [from, to] (обе границы включительно), по времени начала.
	ListInWindow(ctx context.Context, from, to time.Time) ([]model.AppointmentDetail, error)
	// То же, но только для одного мастера.
	ListByProviderInWindow(ctx context.Context, providerID string, from, to time.Time) ([]model.AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
	// Факты и их общее число без учёта пагинации.
	ListRevenueFacts(ctx context.Context, f RevenueFilter) ([]model.RevenueFact, int64, error)
}

// Реализация на GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

const detailColumns = "appointments.*, " +
	"services.name AS service_name, " +
	"services.price AS service_price, " +
	"services.duration_min AS service_duration_min"

func (r *GormAppointmentRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments").
		Select(detailColumns).
		Joins("LEFT JOIN services ON services.id = appointments.service_id")
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	appt.StartsAt = appt.StartsAt.UTC()
	return scheduling.StoreFailure("create appointment", r.db.WithContext(ctx).Create(appt).Error)
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*model.AppointmentDetail, error) {
	var rows []model.AppointmentDetail
	err := r.detailQuery(ctx).
		Where("appointments.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, scheduling.StoreFailure("get appointment", err)
	}
	if len(rows) == 0 {
		return nil, scheduling.NotFound("appointment", id)
	}
	return &rows[0], nil
}

func (r *GormAppointmentRepository) ListInWindow(ctx context.Context, from, to time.Time) ([]model.AppointmentDetail, error) {
	var rows []model.AppointmentDetail
	err := r.detailQuery(ctx).
		Where("appointments.starts_at >= ? AND appointments.starts_at <= ?", from.UTC(), to.UTC()).
		Order("appointments.starts_at ASC, appointments.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, scheduling.StoreFailure("list appointments", err)
	}
	return rows, nil
}

func (r *GormAppointmentRepository) ListByProviderInWindow(
	ctx context.Context,
	providerID string,
	from, to time.Time,
) ([]model.AppointmentDetail, error) {
	var rows []model.AppointmentDetail
	err := r.detailQuery(ctx).
		Where("appointments.provider_id = ?", providerID).
		Where("appointments.starts_at >= ? AND appointments.starts_at <= ?", from.UTC(), to.UTC()).
		Order("appointments.starts_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, scheduling.StoreFailure("list provider appointments", err)
	}
	return rows, nil
}

func (r *GormAppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return scheduling.StoreFailure("update appointment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return scheduling.NotFound("appointment", id)
	}
	return nil
}

func (r *GormAppointmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return scheduling.StoreFailure("delete appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return scheduling.NotFound("appointment", id)
	}
	return nil
}

func (r *GormAppointmentRepository) ListRevenueFacts(ctx context.Context, f RevenueFilter) ([]model.RevenueFact, int64, error) {
	status := f.Status
	if status == "" {
		status = model.AppointmentStatusCompleted
	}

	base := r.db.WithContext(ctx).
		Table("appointments").
		Joins("LEFT JOIN services ON services.id = appointments.service_id").
		Where("appointments.status = ?", status)

	if !f.From.IsZero() {
		base = base.Where("appointments.starts_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		base = base.Where("appointments.starts_at <= ?", f.To.UTC())
	}
	if f.ProviderID != "" {
		base = base.Where("appointments.provider_id = ?", f.ProviderID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, scheduling.StoreFailure("count revenue facts", err)
	}

	q := base.Session(&gorm.Session{}).
		Select("appointments.id AS appointment_id, appointments.starts_at, appointments.provider_id, " +
			"COALESCE(services.price, 0) AS service_price, appointments.status").
		Order("appointments.starts_at ASC")

	if f.PageSize > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
	}

	var facts []model.RevenueFact
	if err := q.Scan(&facts).Error; err != nil {
		return nil, 0, scheduling.StoreFailure("list revenue facts", err)
	}
	return facts, total, nil
}
