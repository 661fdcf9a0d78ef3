package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

func newAuthFixture(t *testing.T, active bool) (*serviceEnv, *authService, repository.UserRepository, models.User) {
	t.Helper()
	env := newServiceEnv(t)
	users := repository.NewUserRepository(env.db)
	svc := NewAuthService(users, env.audit, testLogger()).(*authService)

	hash, err := svc.HashPassword("Secret123")
	require.NoError(t, err)
	user := models.User{Username: "imam", Password: hash, Role: models.RoleAdmin, Active: active, Permissions: models.DefaultPermissions}
	require.NoError(t, users.Create(context.Background(), &user))
	return env, svc, users, user
}

func TestAuthenticateSuccessResetsCounters(t *testing.T) {
	env, svc, users, user := newAuthFixture(t, true)
	ctx := context.Background()

	user.FailedLoginAttempts = 3
	require.NoError(t, users.Update(ctx, &user))

	result, err := svc.Authenticate(ctx, " imam ", "Secret123", env.meta)
	require.NoError(t, err)
	require.Equal(t, user.ID, result.UserID)
	require.Equal(t, "imam", result.Username)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, stored.FailedLoginAttempts)
	require.Nil(t, stored.LockedUntil)
	require.NotNil(t, stored.LastLogin)

	logs := env.auditEntries(t)
	require.Len(t, logs, 1)
	require.Equal(t, models.AuditLoginSuccess, logs[0].Action)
	require.Equal(t, "Connexion réussie depuis 203.0.113.7", logs[0].Description)
}

func TestAuthenticateLocksAfterFiveFailures(t *testing.T) {
	env, svc, users, user := newAuthFixture(t, true)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for i := 0; i < MaxFailedLoginAttempts; i++ {
		_, err := svc.Authenticate(ctx, "imam", "wrong", env.meta)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, MaxFailedLoginAttempts, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockedUntil)
	require.WithinDuration(t, now.Add(LockoutDuration), *stored.LockedUntil, time.Second)

	now = now.Add(10*time.Minute + 30*time.Second)
	_, err = svc.Authenticate(ctx, "imam", "Secret123", env.meta)
	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	require.Equal(t, 20, locked.RemainingMinutes())

	stored, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, MaxFailedLoginAttempts, stored.FailedLoginAttempts)

	now = now.Add(LockoutDuration)
	_, err = svc.Authenticate(ctx, "imam", "Secret123", env.meta)
	require.NoError(t, err)

	logs := env.auditEntries(t)
	require.Len(t, logs, MaxFailedLoginAttempts+2)
	require.Equal(t, models.AuditLoginSuccess, logs[0].Action)
	require.Equal(t, "Tentative de connexion échouée: account locked", logs[1].Description)
}

func TestAuthenticateRejectsUnknownAndDisabled(t *testing.T) {
	env, svc, users, user := newAuthFixture(t, false)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "ghost", "Secret123", env.meta)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "imam", "Secret123", env.meta)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, stored.FailedLoginAttempts)

	logs := env.auditEntries(t)
	require.Len(t, logs, 2)
	require.Equal(t, "account disabled", logs[0].ErrorMessage)
	require.Equal(t, "unknown user", logs[1].ErrorMessage)
	require.Nil(t, logs[1].UserID)
	for _, entry := range logs {
		require.Equal(t, models.AuditLoginFailed, entry.Action)
		require.Equal(t, models.AuditStatusFailure, entry.Status)
	}
}

func TestLockedErrorRoundsUp(t *testing.T) {
	err := &LockedError{Remaining: 61 * time.Second}
	require.Equal(t, 2, err.RemainingMinutes())
	require.Contains(t, err.Error(), "2")
}
