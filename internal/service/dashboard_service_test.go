package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

func TestDashboardCountsUsersOnlyForSuperAdmin(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	events := repository.NewEventRepository(env.db)
	users := repository.NewUserRepository(env.db)
	require.NoError(t, events.Create(ctx, &models.Event{Title: "Iftar"}))
	require.NoError(t, users.Create(ctx, &models.User{Username: "admin", Password: "x", Active: true}))

	svc := NewDashboardService(events, repository.NewNewsRepository(env.db), repository.NewMemberRepository(env.db),
		repository.NewDonationRepository(env.db), repository.NewQuoteRepository(env.db), users, testLogger())

	summary, err := svc.Summary(ctx, Principal{Username: "editor", Permissions: models.DefaultPermissions, Tag: "KT"})
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Counts.Events)
	require.Nil(t, summary.Counts.Users)
	require.False(t, summary.IsSuperAdmin)
	require.Equal(t, "KT", summary.Tag)

	summary, err = svc.Summary(ctx, Principal{Username: "root", Permissions: models.AllPermissions})
	require.NoError(t, err)
	require.NotNil(t, summary.Counts.Users)
	require.Equal(t, int64(1), *summary.Counts.Users)
	require.True(t, summary.IsSuperAdmin)
}
