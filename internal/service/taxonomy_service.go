package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// Sentinel form values asking for a new taxonomy entry.
const (
	TaxonomyOther       = "other"
	taxonomyOtherLegacy = "autre"
)

var (
	// ErrTaxonomyLabelRequired indicates the "other" option was chosen without a label.
	ErrTaxonomyLabelRequired = errors.New("a label is required for a new entry")
	// ErrTaxonomySystemEntry indicates an attempt to remove a seeded entry.
	ErrTaxonomySystemEntry = errors.New("system entries cannot be deleted")
	// ErrTaxonomyNotFound indicates the taxonomy entry is missing.
	ErrTaxonomyNotFound = errors.New("taxonomy entry not found")
	// ErrTaxonomyNameRequired indicates an empty name on create.
	ErrTaxonomyNameRequired = errors.New("taxonomy name is required")
)

// SystemTaxonomies are seeded at migration time and cannot be removed.
var SystemTaxonomies = map[models.TaxonomyKind][]string{
	models.TaxonomyEventType:   {"Événement", "Activité", "Cours"},
	models.TaxonomyPole:        {"AT", "KT", "Jeunesse", "KGT"},
	models.TaxonomyLocation:    {"Salle de prière", "Salle polyvalente", "Extérieur"},
	models.TaxonomyCategory:    {"Religieux", "Éducation", "Culturel", "Solidarité"},
	models.TaxonomyRole:        {"Président", "Vice-président", "Trésorier", "Secrétaire", "Imam"},
	models.TaxonomyAuthor:      {"Rédaction"},
	models.TaxonomyQuoteSource: {"Coran", "Hadith"},
}

// IsTaxonomyOther reports whether value is the "create a new entry" sentinel.
func IsTaxonomyOther(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == TaxonomyOther || v == taxonomyOtherLegacy
}

// TaxonomyResolver turns a form selection into a stored taxonomy name.
type TaxonomyResolver interface {
	Resolve(ctx context.Context, kind models.TaxonomyKind, value, newLabel string) (string, error)
	Options(ctx context.Context, kinds ...models.TaxonomyKind) (map[models.TaxonomyKind][]models.Taxonomy, error)
}

// TaxonomyService manages taxonomy entries.
type TaxonomyService interface {
	TaxonomyResolver
	List(ctx context.Context, kind models.TaxonomyKind) ([]models.Taxonomy, error)
	Create(ctx context.Context, kind models.TaxonomyKind, name string, meta RequestMeta) (models.Taxonomy, error)
	Delete(ctx context.Context, kind models.TaxonomyKind, id uint, meta RequestMeta) error
	SeedSystem(ctx context.Context) error
}

type taxonomyService struct {
	repo   repository.TaxonomyRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewTaxonomyService constructs the taxonomy service.
func NewTaxonomyService(repo repository.TaxonomyRepository, audit AuditRecorder, logger zerolog.Logger) TaxonomyService {
	return &taxonomyService{
		repo:   repo,
		audit:  audit,
		logger: logger.With().Str("component", "taxonomy_service").Logger(),
	}
}

func (s *taxonomyService) Resolve(ctx context.Context, kind models.TaxonomyKind, value, newLabel string) (string, error) {
	if !IsTaxonomyOther(value) {
		return strings.TrimSpace(value), nil
	}

	label := strings.TrimSpace(newLabel)
	if label == "" {
		return "", ErrTaxonomyLabelRequired
	}

	item, created, err := s.repo.GetOrCreate(ctx, kind, label, false)
	if err != nil {
		return "", err
	}
	if created {
		s.logger.Info().Str("kind", string(kind)).Str("name", item.Name).Msg("taxonomy entry created from form")
	}
	return item.Name, nil
}

func (s *taxonomyService) Options(ctx context.Context, kinds ...models.TaxonomyKind) (map[models.TaxonomyKind][]models.Taxonomy, error) {
	options := make(map[models.TaxonomyKind][]models.Taxonomy, len(kinds))
	for _, kind := range kinds {
		items, err := s.repo.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		options[kind] = items
	}
	return options, nil
}

func (s *taxonomyService) List(ctx context.Context, kind models.TaxonomyKind) ([]models.Taxonomy, error) {
	return s.repo.List(ctx, kind)
}

func (s *taxonomyService) Create(ctx context.Context, kind models.TaxonomyKind, name string, meta RequestMeta) (models.Taxonomy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Taxonomy{}, ErrTaxonomyNameRequired
	}

	item, created, err := s.repo.GetOrCreate(ctx, kind, name, false)
	if err != nil {
		return models.Taxonomy{}, err
	}
	if created {
		s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceTaxonomy, uintPtr(item.ID), string(kind)+": "+item.Name, nil, item, "")
	}
	return item, nil
}

func (s *taxonomyService) Delete(ctx context.Context, kind models.TaxonomyKind, id uint, meta RequestMeta) error {
	item, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaxonomyNotFound
		}
		return err
	}
	if item.IsSystem {
		return ErrTaxonomySystemEntry
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaxonomyNotFound
		}
		return err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceTaxonomy, uintPtr(item.ID), string(kind)+": "+item.Name, item, nil, "")
	return nil
}

func (s *taxonomyService) SeedSystem(ctx context.Context) error {
	for _, kind := range models.TaxonomyKinds {
		for _, name := range SystemTaxonomies[kind] {
			if _, _, err := s.repo.GetOrCreate(ctx, kind, name, true); err != nil {
				return err
			}
		}
	}
	return nil
}
