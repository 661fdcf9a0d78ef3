package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// CustomTagOption is the tag select value asking for a new tag.
const CustomTagOption = "__custom__"

const minPasswordLength = 8

var (
	// ErrUserNotFound indicates the admin account is missing.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken indicates another account already uses the username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordMismatch indicates the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort indicates the password is under the minimum length.
	ErrPasswordTooShort = errors.New("password is too short")
	// ErrPasswordTooWeak indicates a missing upper case letter, lower case letter or digit.
	ErrPasswordTooWeak = errors.New("password must mix upper case, lower case and digits")
	// ErrSelfModification indicates an attempt to disable or delete the acting account.
	ErrSelfModification = errors.New("cannot modify own account")
	// ErrSelfDeactivation is the deactivation flavour of ErrSelfModification.
	ErrSelfDeactivation = fmt.Errorf("%w: deactivation", ErrSelfModification)
	// ErrSelfDeletion is the delete flavour of ErrSelfModification.
	ErrSelfDeletion = fmt.Errorf("%w: deletion", ErrSelfModification)
	// ErrSettingNotFound indicates an unknown setting key.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingInvalid indicates a value that does not match the setting type.
	ErrSettingInvalid = errors.New("invalid setting value")
)

// DefaultSettings are inserted by the migrate command when missing.
var DefaultSettings = []models.Setting{
	{Key: "site_name", Value: "Mosquée Bleue", Type: models.SettingText, Label: "Nom du site", Category: "general"},
	{Key: "contact_email", Value: "", Type: models.SettingText, Label: "Email de contact", Category: "contact"},
	{Key: "contact_phone", Value: "", Type: models.SettingText, Label: "Téléphone", Category: "contact"},
	{Key: "address", Value: "", Type: models.SettingText, Label: "Adresse", Category: "contact"},
	{Key: "home_quotes_count", Value: "4", Type: models.SettingNumber, Label: "Citations sur l'accueil", Category: "general"},
	{Key: "donations_enabled", Value: "true", Type: models.SettingBoolean, Label: "Dons activés", Category: "donations"},
	{Key: "social_links", Value: "{}", Type: models.SettingJSON, Label: "Réseaux sociaux", Category: "general"},
}

// AdminUserService manages back-office accounts and site settings.
type AdminUserService interface {
	Settings(ctx context.Context) (dto.AdminSettingsResponse, error)
	UpdateSettings(ctx context.Context, values map[string]string, meta RequestMeta) error
	SeedSettings(ctx context.Context) error
	Tags(ctx context.Context) ([]models.UserTag, error)
	Get(ctx context.Context, id uint) (models.User, error)
	Create(ctx context.Context, form dto.UserForm, meta RequestMeta) (models.User, error)
	Update(ctx context.Context, id uint, form dto.UserForm, meta RequestMeta) (models.User, error)
	ToggleStatus(ctx context.Context, id uint, meta RequestMeta) (models.User, error)
	Delete(ctx context.Context, id uint, meta RequestMeta) error
	Bootstrap(ctx context.Context, username, password string) (models.User, error)
}

type adminUserService struct {
	users     repository.UserRepository
	tags      repository.UserTagRepository
	settings  repository.SettingRepository
	auth      AuthService
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewAdminUserService constructs the admin user service.
func NewAdminUserService(users repository.UserRepository, tags repository.UserTagRepository, settings repository.SettingRepository, auth AuthService, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		users:     users,
		tags:      tags,
		settings:  settings,
		auth:      auth,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "admin_user_service").Logger(),
	}
}

func (s *adminUserService) Settings(ctx context.Context) (dto.AdminSettingsResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return dto.AdminSettingsResponse{}, err
	}
	tags, err := s.tags.ListActive(ctx)
	if err != nil {
		return dto.AdminSettingsResponse{}, err
	}
	settings, err := s.settings.List(ctx)
	if err != nil {
		return dto.AdminSettingsResponse{}, err
	}
	return dto.AdminSettingsResponse{Users: users, Tags: tags, Settings: settings}, nil
}

// UpdateSettings validates every value against its declared type before writing any of them.
func (s *adminUserService) UpdateSettings(ctx context.Context, values map[string]string, meta RequestMeta) error {
	type change struct {
		before models.Setting
		value  string
	}

	changes := make([]change, 0, len(values))
	for key, value := range values {
		current, err := s.settings.GetByKey(ctx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrSettingNotFound, key)
			}
			return err
		}
		value = strings.TrimSpace(value)
		if err := validateSetting(current.Type, value); err != nil {
			return fmt.Errorf("%w: %s", err, key)
		}
		if value == current.Value {
			continue
		}
		changes = append(changes, change{before: current, value: value})
	}

	for _, c := range changes {
		if err := s.settings.UpdateValue(ctx, c.before.Key, c.value); err != nil {
			return err
		}
		after := c.before
		after.Value = c.value
		s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceSetting, uintPtr(c.before.ID), c.before.Key, c.before, after, "")
	}
	return nil
}

func validateSetting(kind, value string) error {
	switch kind {
	case models.SettingNumber:
		if value == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return ErrSettingInvalid
		}
	case models.SettingBoolean:
		if value == "" {
			return nil
		}
		if _, err := strconv.ParseBool(value); err != nil {
			return ErrSettingInvalid
		}
	case models.SettingJSON:
		if value != "" && !json.Valid([]byte(value)) {
			return ErrSettingInvalid
		}
	}
	return nil
}

func (s *adminUserService) SeedSettings(ctx context.Context) error {
	defaults := make([]models.Setting, len(DefaultSettings))
	copy(defaults, DefaultSettings)
	return s.settings.SeedDefaults(ctx, defaults)
}

func (s *adminUserService) Tags(ctx context.Context) ([]models.UserTag, error) {
	return s.tags.ListActive(ctx)
}

func (s *adminUserService) Get(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *adminUserService) Create(ctx context.Context, form dto.UserForm, meta RequestMeta) (models.User, error) {
	if err := s.validator.Struct(form); err != nil {
		return models.User{}, err
	}
	if err := checkPassword(form.Password, form.PasswordConfirm); err != nil {
		return models.User{}, err
	}

	username := strings.TrimSpace(form.Username)
	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return models.User{}, err
	}

	tag, err := s.resolveTag(ctx, form, meta)
	if err != nil {
		return models.User{}, err
	}

	hash, err := s.auth.HashPassword(form.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:    username,
		Password:    hash,
		Role:        models.RoleAdmin,
		Tag:         tag,
		Permissions: formPermissions(form),
		Active:      dto.Checked(form.Active),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditCreate, models.AuditResourceUser, uintPtr(user.ID), user.Username, nil, user, "")
	return user, nil
}

// Update changes the password only when one is submitted. An account editing itself
// cannot switch itself off nor drop its settings or users capability.
func (s *adminUserService) Update(ctx context.Context, id uint, form dto.UserForm, meta RequestMeta) (models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	before := user
	self := user.ID == meta.UserID
	if self && !dto.Checked(form.Active) {
		return models.User{}, ErrSelfDeactivation
	}

	if err := s.validator.Struct(form); err != nil {
		return models.User{}, err
	}
	if form.Password != "" {
		if err := checkPassword(form.Password, form.PasswordConfirm); err != nil {
			return models.User{}, err
		}
		hash, err := s.auth.HashPassword(form.Password)
		if err != nil {
			return models.User{}, err
		}
		user.Password = hash
	}

	username := strings.TrimSpace(form.Username)
	if err := s.ensureUsernameFree(ctx, username, user.ID); err != nil {
		return models.User{}, err
	}

	tag, err := s.resolveTag(ctx, form, meta)
	if err != nil {
		return models.User{}, err
	}

	user.Username = username
	user.Tag = tag
	permissions := formPermissions(form)
	if self && losesAdministration(before.Permissions, permissions) {
		permissions = before.Permissions
	}
	user.Permissions = permissions
	user.Active = dto.Checked(form.Active)

	if err := s.users.Update(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceUser, uintPtr(user.ID), user.Username, before, user, "")
	return user, nil
}

func (s *adminUserService) ToggleStatus(ctx context.Context, id uint, meta RequestMeta) (models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user.ID == meta.UserID {
		return models.User{}, ErrSelfDeactivation
	}

	user.Active = !user.Active
	if err := s.users.Update(ctx, &user); err != nil {
		return models.User{}, err
	}

	description := "Désactivation du compte"
	if user.Active {
		description = "Activation du compte"
	}
	s.audit.LogCRUD(ctx, meta, models.AuditUpdate, models.AuditResourceUser, uintPtr(user.ID), user.Username, nil, nil, description)
	return user, nil
}

// Delete records the audit entry before the row disappears.
func (s *adminUserService) Delete(ctx context.Context, id uint, meta RequestMeta) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.ID == meta.UserID {
		return ErrSelfDeletion
	}

	s.audit.LogCRUD(ctx, meta, models.AuditDelete, models.AuditResourceUser, uintPtr(user.ID), user.Username, user, nil, "")

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Bootstrap creates an active super admin, used by the create-admin command.
func (s *adminUserService) Bootstrap(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return models.User{}, fmt.Errorf("username must be between 3 and 50 characters")
	}
	if err := checkPassword(password, password); err != nil {
		return models.User{}, err
	}
	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return models.User{}, err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Username:    username,
		Password:    hash,
		Role:        models.RoleAdmin,
		Active:      true,
		Permissions: models.AllPermissions,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}
	s.logger.Info().Str("username", username).Uint("user_id", user.ID).Msg("super admin created")
	return user, nil
}

func (s *adminUserService) ensureUsernameFree(ctx context.Context, username string, ownID uint) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != ownID {
		return ErrUsernameTaken
	}
	return nil
}

func (s *adminUserService) resolveTag(ctx context.Context, form dto.UserForm, meta RequestMeta) (string, error) {
	tag := strings.TrimSpace(form.Tag)
	if tag != CustomTagOption {
		return tag, nil
	}
	custom := strings.TrimSpace(form.CustomTag)
	if custom == "" {
		return "", nil
	}
	created, err := s.tags.GetOrCreate(ctx, custom, "Tag créé par "+meta.username())
	if err != nil {
		return "", err
	}
	return created.Name, nil
}

func formPermissions(form dto.UserForm) models.Permissions {
	if form.SuperAdmin == "1" {
		return models.AllPermissions
	}
	return models.PermissionsFromList(form.Permissions)
}

func losesAdministration(before, after models.Permissions) bool {
	return (before.Settings && !after.Settings) || (before.Users && !after.Users)
}

func checkPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrPasswordTooWeak
	}
	return nil
}
