package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// NewsRepository persists news articles.
type NewsRepository interface {
	List(ctx context.Context) ([]models.News, error)
	Recent(ctx context.Context, limit int) ([]models.News, error)
	GetByID(ctx context.Context, id uint) (models.News, error)
	Create(ctx context.Context, item *models.News) error
	Update(ctx context.Context, item *models.News) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository constructs the news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) List(ctx context.Context) ([]models.News, error) {
	var items []models.News
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *newsRepository) Recent(ctx context.Context, limit int) ([]models.News, error) {
	var items []models.News
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *newsRepository) GetByID(ctx context.Context, id uint) (models.News, error) {
	var item models.News
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *newsRepository) Create(ctx context.Context, item *models.News) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *newsRepository) Update(ctx context.Context, item *models.News) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.News{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *newsRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.News{}).Count(&total).Error
	return total, err
}
