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

// ErrMemberNotFound indicates the team member is missing.
var ErrMemberNotFound = errors.New("member not found")

// MemberService exposes team member management use cases.
type MemberService interface {
	List(ctx context.Context) ([]models.Member, error)
	FormOptions(ctx context.Context) (dto.TaxonomyOptions, error)
	Get(ctx context.Context, id uint) (models.Member, error)
	Create(ctx context.Context, form dto.MemberForm, upload *multipart.FileHeader, meta RequestMeta) (models.Member, error)
	Update(ctx context.Context, id uint, form dto.MemberForm, upload *multipart.FileHeader, meta RequestMeta) (models.Member, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
}

type memberService struct {
	repo       repository.MemberRepository
	taxonomies TaxonomyResolver
	images     ImageService
	validator  *validator.Validate
	audit      AuditRecorder
	logger     zerolog.Logger
}

// NewMemberService constructs the member service.
func NewMemberService(repo repository.MemberRepository, taxonomies TaxonomyResolver, images ImageService, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) MemberService {
	return &memberService{
		repo:       repo,
		taxonomies: taxonomies,
		images:     images,
		validator:  validator,
		audit:      audit,
		logger:     logger.With().Str("component", "member_service").Logger(),
	}
}

func (s *memberService) List(ctx context.Context) ([]models.Member, error) {
	return s.repo.List(ctx)
}

func (s *memberService) FormOptions(ctx context.Context) (dto.TaxonomyOptions, error) {
	return s.taxonomies.Options(ctx, models.TaxonomyPole, models.TaxonomyRole)
}

func (s *memberService) Get(ctx context.Context, id uint) (models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Member{}, ErrMemberNotFound
		}
		return models.Member{}, err
	}
	return member, nil
}

func (s *memberService) Create(ctx context.Context, form dto.MemberForm, upload *multipart.FileHeader, meta RequestMeta) (models.Member, error) {
	var member models.Member
	if err := s.apply(ctx, &member, form); err != nil {
		return models.Member{}, err
	}

	stored, err := s.storeImage(ctx, upload)
	if err != nil {
		return models.Member{}, err
	}
	member.Image = stored

	if err := s.repo.Create(ctx, &member); err != nil {
		s.discard(ctx, stored)
		return models.Member{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceMember, uintPtr(member.ID), member.FullName(), nil, member, "")
	return member, nil
}

// Update replaces the photo when a file is uploaded; the previous file is left in storage.
// remove_image clears the photo and deletes its file.
func (s *memberService) Update(ctx context.Context, id uint, form dto.MemberForm, upload *multipart.FileHeader, meta RequestMeta) (models.Member, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return models.Member{}, err
	}
	before := member

	if err := s.apply(ctx, &member, form); err != nil {
		return models.Member{}, err
	}

	var cleared string
	if dto.Checked(form.RemoveImage) && member.Image != "" {
		cleared = member.Image
		member.Image = ""
	}

	stored, err := s.storeImage(ctx, upload)
	if err != nil {
		return models.Member{}, err
	}
	if stored != "" {
		member.Image = stored
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		s.discard(ctx, stored)
		return models.Member{}, err
	}
	s.discard(ctx, cleared)

	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceMember, uintPtr(member.ID), member.FullName(), before, member, "")
	return member, nil
}

func (s *memberService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	member, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceMember, uintPtr(member.ID), member.FullName(), member, nil, "")
	return nil
}

func (s *memberService) apply(ctx context.Context, member *models.Member, form dto.MemberForm) error {
	if err := s.validator.Struct(form); err != nil {
		return err
	}
	if err := resolveTaxonomies(ctx, s.taxonomies,
		taxonomyField{kind: models.TaxonomyPole, value: form.Pole, label: form.NewPole, target: &member.Pole},
		taxonomyField{kind: models.TaxonomyRole, value: form.Role, label: form.NewRole, target: &member.Role},
	); err != nil {
		return err
	}
	member.FirstName = strings.TrimSpace(form.FirstName)
	member.LastName = strings.TrimSpace(form.LastName)
	member.Description = strings.TrimSpace(form.Description)
	member.Email = strings.TrimSpace(form.Email)
	member.Phone = strings.TrimSpace(form.Phone)
	member.Order = form.Order
	member.Active = dto.Checked(form.Active)
	return nil
}

func (s *memberService) storeImage(ctx context.Context, upload *multipart.FileHeader) (string, error) {
	if upload == nil {
		return "", nil
	}
	paths, err := s.images.Store(ctx, models.ResourceMembers, "image", []*multipart.FileHeader{upload})
	if err != nil {
		return "", err
	}
	return legacyImage(paths, ""), nil
}

func (s *memberService) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, []string{path}); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove member image")
	}
}
