package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/observability"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// Lockout policy.
const (
	MaxFailedLoginAttempts = 5
	LockoutDuration        = 30 * time.Minute
)

// Audit reasons recorded for rejected logins.
const (
	loginReasonUnknownUser = "unknown user"
	loginReasonLocked      = "account locked"
	loginReasonDisabled    = "account disabled"
	loginReasonBadPassword = "bad password"
)

// ErrInvalidCredentials is returned for unknown users, disabled accounts and bad passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LockedError reports a login refused because of an active lockout.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for %d more minute(s)", e.RemainingMinutes())
}

// RemainingMinutes rounds the remaining lockout up to whole minutes.
func (e *LockedError) RemainingMinutes() int {
	return int(math.Ceil(e.Remaining.Minutes()))
}

// AuthResult is the identity bound to a new session.
type AuthResult struct {
	UserID   uint
	Username string
	Role     string
}

// AuthService verifies credentials and applies the lockout policy.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string, meta RequestMeta) (AuthResult, error)
	HashPassword(password string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	audit  AuditRecorder
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, audit AuditRecorder, logger zerolog.Logger) AuthService {
	return &authService{
		users:  users,
		audit:  audit,
		logger: logger.With().Str("component", "auth_service").Logger(),
		now:    time.Now,
	}
}

func (s *authService) Authenticate(ctx context.Context, username, password string, meta RequestMeta) (AuthResult, error) {
	username = strings.TrimSpace(username)
	now := s.now()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.reject(ctx, meta, username, nil, loginReasonUnknownUser)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if user.IsLocked(now) {
		s.reject(ctx, meta, username, uintPtr(user.ID), loginReasonLocked)
		return AuthResult{}, &LockedError{Remaining: user.LockedUntil.Sub(now)}
	}

	if !user.Active {
		s.reject(ctx, meta, username, uintPtr(user.ID), loginReasonDisabled)
		return AuthResult{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= MaxFailedLoginAttempts {
			until := now.Add(LockoutDuration)
			user.LockedUntil = &until
			s.logger.Warn().Str("username", username).Time("locked_until", until).Msg("account locked after repeated failures")
		}
		if err := s.users.Update(ctx, &user); err != nil {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to persist login attempt counter")
		}
		s.reject(ctx, meta, username, uintPtr(user.ID), loginReasonBadPassword)
		return AuthResult{}, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := s.users.Update(ctx, &user); err != nil {
		return AuthResult{}, err
	}

	observability.LoginAttempts().WithLabelValues("success").Inc()
	s.audit.LogLogin(ctx, meta, user.Username, uintPtr(user.ID), true, "")

	return AuthResult{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *authService) reject(ctx context.Context, meta RequestMeta, username string, userID *uint, reason string) {
	observability.LoginAttempts().WithLabelValues(strings.ReplaceAll(reason, " ", "_")).Inc()
	s.audit.LogLogin(ctx, meta, username, userID, false, reason)
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
