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

// ErrEventNotFound indicates the event is missing.
var ErrEventNotFound = errors.New("event not found")

var eventTaxonomyKinds = []models.TaxonomyKind{
	models.TaxonomyEventType,
	models.TaxonomyPole,
	models.TaxonomyLocation,
	models.TaxonomyCategory,
}

// EventService exposes event management use cases.
type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	FormOptions(ctx context.Context) (dto.TaxonomyOptions, error)
	Get(ctx context.Context, id uint) (models.Event, error)
	Create(ctx context.Context, form dto.EventForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Event, error)
	Update(ctx context.Context, id uint, form dto.EventForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Event, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type eventService struct {
	repo       repository.EventRepository
	taxonomies TaxonomyResolver
	images     ImageService
	validator  *validator.Validate
	audit      AuditRecorder
	logger     zerolog.Logger
}

// NewEventService constructs the event service.
func NewEventService(repo repository.EventRepository, taxonomies TaxonomyResolver, images ImageService, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) EventService {
	return &eventService{
		repo:       repo,
		taxonomies: taxonomies,
		images:     images,
		validator:  validator,
		audit:      audit,
		logger:     logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	return s.repo.List(ctx)
}

func (s *eventService) FormOptions(ctx context.Context) (dto.TaxonomyOptions, error) {
	return s.taxonomies.Options(ctx, eventTaxonomyKinds...)
}

func (s *eventService) Get(ctx context.Context, id uint) (models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, form dto.EventForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Event, error) {
	var event models.Event
	if err := s.apply(ctx, &event, form); err != nil {
		return models.Event{}, err
	}

	images, err := s.images.Store(ctx, models.ResourceEvents, "images", uploads)
	if err != nil {
		return models.Event{}, err
	}
	event.Images = images

	if err := s.repo.Create(ctx, &event); err != nil {
		s.discard(ctx, images)
		return models.Event{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceEvent, uintPtr(event.ID), event.Title, nil, event, "")
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id uint, form dto.EventForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	before := event
	before.Images = cloneStrings(event.Images)

	if err := s.apply(ctx, &event, form); err != nil {
		return models.Event{}, err
	}

	added, err := s.images.Store(ctx, models.ResourceEvents, "images", uploads)
	if err != nil {
		return models.Event{}, err
	}
	removed := removable(before.Images, form.RemoveImages)
	event.Images = MergeImages(before.Images, removed, added)

	if err := s.repo.Update(ctx, &event); err != nil {
		s.discard(ctx, added)
		return models.Event{}, err
	}
	s.discard(ctx, removed)

	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceEvent, uintPtr(event.ID), event.Title, before, event, "")
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceEvent, uintPtr(event.ID), event.Title, event, nil, "")
	return nil
}

func (s *eventService) apply(ctx context.Context, event *models.Event, form dto.EventForm) error {
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	date, err := dto.ParseDate(form.Date)
	if err != nil {
		return err
	}

	if err := resolveTaxonomies(ctx, s.taxonomies,
		taxonomyField{kind: models.TaxonomyEventType, value: form.Type, label: form.NewType, target: &event.Type},
		taxonomyField{kind: models.TaxonomyPole, value: form.Pole, label: form.NewPole, target: &event.Pole},
		taxonomyField{kind: models.TaxonomyLocation, value: form.Location, label: form.NewLocation, target: &event.Location},
		taxonomyField{kind: models.TaxonomyCategory, value: form.Category, label: form.NewCategory, target: &event.Category},
	); err != nil {
		return err
	}

	event.Title = strings.TrimSpace(form.Title)
	event.Date = *date
	event.StartTime = strings.TrimSpace(form.StartTime)
	event.EndTime = strings.TrimSpace(form.EndTime)
	event.Description = strings.TrimSpace(form.Description)
	return nil
}

func (s *eventService) discard(ctx context.Context, paths []string) {
	if err := s.images.Remove(ctx, paths); err != nil {
		s.logger.Warn().Err(err).Strs("paths", paths).Msg("failed to remove event images")
	}
}
