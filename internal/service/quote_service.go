package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// ErrQuoteNotFound indicates the quote is missing.
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteService exposes quote management use cases.
type QuoteService interface {
	List(ctx context.Context) ([]models.Quote, error)
	FormOptions(ctx context.Context) (dto.TaxonomyOptions, error)
	Get(ctx context.Context, id uint) (models.Quote, error)
	Create(ctx context.Context, form dto.QuoteForm, meta RequestMeta) (models.Quote, error)
	Update(ctx context.Context, id uint, form dto.QuoteForm, meta RequestMeta) (models.Quote, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type quoteService struct {
	repo       repository.QuoteRepository
	taxonomies TaxonomyResolver
	validator  *validator.Validate
	audit      AuditRecorder
	logger     zerolog.Logger
}

// NewQuoteService constructs the quote service.
func NewQuoteService(repo repository.QuoteRepository, taxonomies TaxonomyResolver, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) QuoteService {
	return &quoteService{
		repo:       repo,
		taxonomies: taxonomies,
		validator:  validator,
		audit:      audit,
		logger:     logger.With().Str("component", "quote_service").Logger(),
	}
}

func quoteName(q models.Quote) string {
	return "Citation de " + q.Author
}

func (s *quoteService) List(ctx context.Context) ([]models.Quote, error) {
	return s.repo.List(ctx)
}

func (s *quoteService) FormOptions(ctx context.Context) (dto.TaxonomyOptions, error) {
	return s.taxonomies.Options(ctx, models.TaxonomyQuoteSource)
}

func (s *quoteService) Get(ctx context.Context, id uint) (models.Quote, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quote{}, ErrQuoteNotFound
		}
		return models.Quote{}, err
	}
	return quote, nil
}

func (s *quoteService) Create(ctx context.Context, form dto.QuoteForm, meta RequestMeta) (models.Quote, error) {
	var quote models.Quote
	if err := s.apply(ctx, &quote, form); err != nil {
		return models.Quote{}, err
	}
	if err := s.repo.Create(ctx, &quote); err != nil {
		return models.Quote{}, err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceQuote, uintPtr(quote.ID), quoteName(quote), nil, quote, "")
	return quote, nil
}

func (s *quoteService) Update(ctx context.Context, id uint, form dto.QuoteForm, meta RequestMeta) (models.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	before := quote

	if err := s.apply(ctx, &quote, form); err != nil {
		return models.Quote{}, err
	}
	if err := s.repo.Update(ctx, &quote); err != nil {
		return models.Quote{}, err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceQuote, uintPtr(quote.ID), quoteName(quote), before, quote, "")
	return quote, nil
}

func (s *quoteService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceQuote, uintPtr(quote.ID), quoteName(quote), quote, nil, "")
	return nil
}

func (s *quoteService) apply(ctx context.Context, quote *models.Quote, form dto.QuoteForm) error {
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	if err := resolveTaxonomies(ctx, s.taxonomies,
		taxonomyField{kind: models.TaxonomyQuoteSource, value: form.Author, label: form.NewAuthor, target: &quote.Author},
	); err != nil {
		return err
	}
	quote.TextOriginal = strings.TrimSpace(form.TextOriginal)
	quote.TextFR = strings.TrimSpace(form.TextFR)
	quote.TextTR = strings.TrimSpace(form.TextTR)
	quote.Active = dto.Checked(form.Active)
	return nil
}
