package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// UserTagRepository persists department labels for admin accounts.
type UserTagRepository interface {
	ListActive(ctx context.Context) ([]models.UserTag, error)
	GetOrCreate(ctx context.Context, name, description string) (models.UserTag, error)
}

type userTagRepository struct {
	db *gorm.DB
}

// NewUserTagRepository constructs a user tag repository.
func NewUserTagRepository(db *gorm.DB) UserTagRepository {
	return &userTagRepository{db: db}
}

func (r *userTagRepository) ListActive(ctx context.Context) ([]models.UserTag, error) {
	var tags []models.UserTag
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *userTagRepository) GetOrCreate(ctx context.Context, name, description string) (models.UserTag, error) {
	tag := models.UserTag{Name: name}
	err := r.db.WithContext(ctx).
		Where(models.UserTag{Name: name}).
		Attrs(models.UserTag{Description: description, Active: true}).
		FirstOrCreate(&tag).Error
	return tag, err
}
