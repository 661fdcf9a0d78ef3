package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// TaxonomyRepository persists reference values for every taxonomy kind.
type TaxonomyRepository interface {
	List(ctx context.Context, kind models.TaxonomyKind) ([]models.Taxonomy, error)
	GetByID(ctx context.Context, kind models.TaxonomyKind, id uint) (models.Taxonomy, error)
	GetOrCreate(ctx context.Context, kind models.TaxonomyKind, name string, system bool) (models.Taxonomy, bool, error)
	Delete(ctx context.Context, id uint) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository constructs the taxonomy repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) List(ctx context.Context, kind models.TaxonomyKind) ([]models.Taxonomy, error) {
	var items []models.Taxonomy
	err := r.db.WithContext(ctx).Where("kind = ?", kind).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *taxonomyRepository) GetByID(ctx context.Context, kind models.TaxonomyKind, id uint) (models.Taxonomy, error) {
	var item models.Taxonomy
	err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&item, id).Error
	return item, err
}

// GetOrCreate returns the row named name of kind, creating it when absent. The boolean reports creation.
func (r *taxonomyRepository) GetOrCreate(ctx context.Context, kind models.TaxonomyKind, name string, system bool) (models.Taxonomy, bool, error) {
	var item models.Taxonomy
	err := r.db.WithContext(ctx).Where("kind = ? AND name = ?", kind, name).First(&item).Error
	if err == nil {
		return item, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Taxonomy{}, false, err
	}

	item = models.Taxonomy{Kind: kind, Name: name, IsSystem: system}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		// lost a race against a concurrent insert of the same name
		var existing models.Taxonomy
		if findErr := r.db.WithContext(ctx).Where("kind = ? AND name = ?", kind, name).First(&existing).Error; findErr == nil {
			return existing, false, nil
		}
		return models.Taxonomy{}, false, err
	}
	return item, true, nil
}

func (r *taxonomyRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Taxonomy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
