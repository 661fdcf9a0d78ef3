package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// MemberRepository persists team members.
type MemberRepository interface {
	List(ctx context.Context) ([]models.Member, error)
	ListActive(ctx context.Context) ([]models.Member, error)
	GetByID(ctx context.Context, id uint) (models.Member, error)
	Create(ctx context.Context, item *models.Member) error
	Update(ctx context.Context, item *models.Member) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository constructs the member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) List(ctx context.Context) ([]models.Member, error) {
	var items []models.Member
	err := r.db.WithContext(ctx).Order("pole ASC").Order("display_order ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *memberRepository) ListActive(ctx context.Context) ([]models.Member, error) {
	var items []models.Member
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("pole ASC").Order("display_order ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (models.Member, error) {
	var item models.Member
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *memberRepository) Create(ctx context.Context, item *models.Member) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *memberRepository) Update(ctx context.Context, item *models.Member) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Member{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error
	return total, err
}
