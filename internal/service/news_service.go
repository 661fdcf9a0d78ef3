package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// ErrNewsNotFound indicates the article is missing.
var ErrNewsNotFound = errors.New("news not found")

// NewsService exposes news management use cases.
type NewsService interface {
	List(ctx context.Context) ([]models.News, error)
	FormOptions(ctx context.Context) (dto.TaxonomyOptions, error)
	Get(ctx context.Context, id uint) (models.News, error)
	Create(ctx context.Context, form dto.NewsForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.News, error)
	Update(ctx context.Context, id uint, form dto.NewsForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.News, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type newsService struct {
	repo       repository.NewsRepository
	taxonomies TaxonomyResolver
	images     ImageService
	validator  *validator.Validate
	audit      AuditRecorder
	logger     zerolog.Logger
}

// NewNewsService constructs the news service.
func NewNewsService(repo repository.NewsRepository, taxonomies TaxonomyResolver, images ImageService, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) NewsService {
	return &newsService{
		repo:       repo,
		taxonomies: taxonomies,
		images:     images,
		validator:  validator,
		audit:      audit,
		logger:     logger.With().Str("component", "news_service").Logger(),
	}
}

func (s *newsService) List(ctx context.Context) ([]models.News, error) {
	return s.repo.List(ctx)
}

func (s *newsService) FormOptions(ctx context.Context) (dto.TaxonomyOptions, error) {
	return s.taxonomies.Options(ctx, models.TaxonomyCategory)
}

func (s *newsService) Get(ctx context.Context, id uint) (models.News, error) {
	news, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.News{}, ErrNewsNotFound
		}
		return models.News{}, err
	}
	return news, nil
}

func (s *newsService) Create(ctx context.Context, form dto.NewsForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.News, error) {
	var news models.News
	if err := s.apply(ctx, &news, form); err != nil {
		return models.News{}, err
	}

	images, err := s.images.Store(ctx, models.ResourceNews, "images", uploads)
	if err != nil {
		return models.News{}, err
	}
	news.Images = images
	news.Image = legacyImage(images, "")

	if err := s.repo.Create(ctx, &news); err != nil {
		s.discard(ctx, images)
		return models.News{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceNews, uintPtr(news.ID), news.Title, nil, news, "")
	return news, nil
}

func (s *newsService) Update(ctx context.Context, id uint, form dto.NewsForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.News, error) {
	news, err := s.Get(ctx, id)
	if err != nil {
		return models.News{}, err
	}
	before := news
	before.Images = cloneStrings(news.Images)

	if err := s.apply(ctx, &news, form); err != nil {
		return models.News{}, err
	}

	added, err := s.images.Store(ctx, models.ResourceNews, "images", uploads)
	if err != nil {
		return models.News{}, err
	}
	removed := removable(before.Images, form.RemoveImages)
	news.Images = MergeImages(before.Images, removed, added)
	news.Image = legacyImage(news.Images, before.Image)

	if err := s.repo.Update(ctx, &news); err != nil {
		s.discard(ctx, added)
		return models.News{}, err
	}
	s.discard(ctx, removed)

	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceNews, uintPtr(news.ID), news.Title, before, news, "")
	return news, nil
}

func (s *newsService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	news, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsNotFound
		}
		return err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceNews, uintPtr(news.ID), news.Title, news, nil, "")
	return nil
}

func (s *newsService) apply(ctx context.Context, news *models.News, form dto.NewsForm) error {
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	if err := resolveTaxonomies(ctx, s.taxonomies,
		taxonomyField{kind: models.TaxonomyCategory, value: form.Category, label: form.NewCategory, target: &news.Category},
	); err != nil {
		return err
	}
	news.Title = strings.TrimSpace(form.Title)
	news.Content = strings.TrimSpace(form.Content)
	return nil
}

func (s *newsService) discard(ctx context.Context, paths []string) {
	if err := s.images.Remove(ctx, paths); err != nil {
		s.logger.Warn().Err(err).Strs("paths", paths).Msg("failed to remove news images")
	}
}
