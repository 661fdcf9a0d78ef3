package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// QuoteRepository persists home page citations.
type QuoteRepository interface {
	List(ctx context.Context) ([]models.Quote, error)
	ListActive(ctx context.Context) ([]models.Quote, error)
	GetByID(ctx context.Context, id uint) (models.Quote, error)
	Create(ctx context.Context, item *models.Quote) error
	Update(ctx context.Context, item *models.Quote) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository constructs the quote repository.
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) List(ctx context.Context) ([]models.Quote, error) {
	var items []models.Quote
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *quoteRepository) ListActive(ctx context.Context) ([]models.Quote, error) {
	var items []models.Quote
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *quoteRepository) GetByID(ctx context.Context, id uint) (models.Quote, error) {
	var item models.Quote
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *quoteRepository) Create(ctx context.Context, item *models.Quote) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *quoteRepository) Update(ctx context.Context, item *models.Quote) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Quote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quoteRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Quote{}).Count(&total).Error
	return total, err
}
