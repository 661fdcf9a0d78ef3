package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// EventRepository persists association events and activities.
type EventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	ListChronological(ctx context.Context) ([]models.Event, error)
	Recent(ctx context.Context, limit int) ([]models.Event, error)
	GetByID(ctx context.Context, id uint) (models.Event, error)
	Create(ctx context.Context, item *models.Event) error
	Update(ctx context.Context, item *models.Event) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs the event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var items []models.Event
	err := r.db.WithContext(ctx).Order("date DESC").Order("id DESC").Find(&items).Error
	return items, err
}

// ListChronological returns every event with the earliest date first.
func (r *eventRepository) ListChronological(ctx context.Context) ([]models.Event, error) {
	var items []models.Event
	err := r.db.WithContext(ctx).Order("date ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *eventRepository) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	var items []models.Event
	err := r.db.WithContext(ctx).Order("date DESC").Order("id DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (models.Event, error) {
	var item models.Event
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *eventRepository) Create(ctx context.Context, item *models.Event) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *eventRepository) Update(ctx context.Context, item *models.Event) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error
	return total, err
}
