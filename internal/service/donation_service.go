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

// ErrDonationNotFound indicates the campaign is missing.
var ErrDonationNotFound = errors.New("donation campaign not found")

// DonationService exposes donation campaign management use cases.
type DonationService interface {
	List(ctx context.Context) ([]models.Donation, error)
	Get(ctx context.Context, id uint) (models.Donation, error)
	Create(ctx context.Context, form dto.DonationForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Donation, error)
	Update(ctx context.Context, id uint, form dto.DonationForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Donation, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type donationService struct {
	repo      repository.DonationRepository
	images    ImageService
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewDonationService constructs the donation service.
func NewDonationService(repo repository.DonationRepository, images ImageService, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) DonationService {
	return &donationService{
		repo:      repo,
		images:    images,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "donation_service").Logger(),
	}
}

func (s *donationService) List(ctx context.Context) ([]models.Donation, error) {
	return s.repo.List(ctx)
}

func (s *donationService) Get(ctx context.Context, id uint) (models.Donation, error) {
	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Donation{}, ErrDonationNotFound
		}
		return models.Donation{}, err
	}
	return donation, nil
}

func (s *donationService) Create(ctx context.Context, form dto.DonationForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Donation, error) {
	var donation models.Donation
	if err := s.apply(&donation, form); err != nil {
		return models.Donation{}, err
	}

	images, err := s.images.Store(ctx, models.ResourceDonations, "images", uploads)
	if err != nil {
		return models.Donation{}, err
	}
	donation.Images = images
	donation.Image = legacyImage(images, "")

	if err := s.repo.Create(ctx, &donation); err != nil {
		s.discard(ctx, images)
		return models.Donation{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceDonation, uintPtr(donation.ID), donation.Title, nil, donation, "")
	return donation, nil
}

func (s *donationService) Update(ctx context.Context, id uint, form dto.DonationForm, uploads []*multipart.FileHeader, meta RequestMeta) (models.Donation, error) {
	donation, err := s.Get(ctx, id)
	if err != nil {
		return models.Donation{}, err
	}
	before := donation
	before.Images = cloneStrings(donation.Images)

	if err := s.apply(&donation, form); err != nil {
		return models.Donation{}, err
	}

	added, err := s.images.Store(ctx, models.ResourceDonations, "images", uploads)
	if err != nil {
		return models.Donation{}, err
	}
	removed := removable(before.Images, form.RemoveImages)
	donation.Images = MergeImages(before.Images, removed, added)
	donation.Image = legacyImage(donation.Images, before.Image)

	if err := s.repo.Update(ctx, &donation); err != nil {
		s.discard(ctx, added)
		return models.Donation{}, err
	}
	s.discard(ctx, removed)

	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceDonation, uintPtr(donation.ID), donation.Title, before, donation, "")
	return donation, nil
}

func (s *donationService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	donation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDonationNotFound
		}
		return err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceDonation, uintPtr(donation.ID), donation.Title, donation, nil, "")
	return nil
}

func (s *donationService) apply(donation *models.Donation, form dto.DonationForm) error {
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	endDate, err := dto.ParseDate(form.EndDate)
	if err != nil {
		return err
	}
	donation.Title = strings.TrimSpace(form.Title)
	donation.Description = strings.TrimSpace(form.Description)
	donation.GoalAmount = form.GoalAmount
	donation.CurrentAmount = form.CurrentAmount
	donation.EndDate = endDate
	donation.Active = dto.Checked(form.Active)
	return nil
}

func (s *donationService) discard(ctx context.Context, paths []string) {
	if err := s.images.Remove(ctx, paths); err != nil {
		s.logger.Warn().Err(err).Strs("paths", paths).Msg("failed to remove donation images")
	}
}
