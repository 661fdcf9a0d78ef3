package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// DonationRepository persists donation campaigns.
type DonationRepository interface {
	List(ctx context.Context) ([]models.Donation, error)
	ListActive(ctx context.Context) ([]models.Donation, error)
	GetByID(ctx context.Context, id uint) (models.Donation, error)
	Create(ctx context.Context, item *models.Donation) error
	Update(ctx context.Context, item *models.Donation) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository constructs the donation repository.
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) List(ctx context.Context) ([]models.Donation, error) {
	var items []models.Donation
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *donationRepository) ListActive(ctx context.Context) ([]models.Donation, error) {
	var items []models.Donation
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

func (r *donationRepository) GetByID(ctx context.Context, id uint) (models.Donation, error) {
	var item models.Donation
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *donationRepository) Create(ctx context.Context, item *models.Donation) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *donationRepository) Update(ctx context.Context, item *models.Donation) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *donationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Donation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *donationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Donation{}).Count(&total).Error
	return total, err
}
