package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// SettingRepository persists site parameters.
type SettingRepository interface {
	List(ctx context.Context) ([]models.Setting, error)
	GetByKey(ctx context.Context, key string) (models.Setting, error)
	UpdateValue(ctx context.Context, key, value string) error
	SeedDefaults(ctx context.Context, defaults []models.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository constructs the settings repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]models.Setting, error) {
	var items []models.Setting
	err := r.db.WithContext(ctx).Order("category ASC").Order("setting_key ASC").Find(&items).Error
	return items, err
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (models.Setting, error) {
	var item models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&item).Error
	return item, err
}

func (r *settingRepository) UpdateValue(ctx context.Context, key, value string) error {
	result := r.db.WithContext(ctx).Model(&models.Setting{}).Where("setting_key = ?", key).Update("value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SeedDefaults inserts missing keys and leaves existing values untouched.
func (r *settingRepository) SeedDefaults(ctx context.Context, defaults []models.Setting) error {
	if len(defaults) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
