package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

func TestEventServiceLifecycle(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewEventService(repository.NewEventRepository(env.db), env.taxonomies, env.images, env.validator, env.audit, testLogger())

	form := dto.EventForm{
		Type:        "other",
		NewType:     "Conférence",
		Pole:        "AT",
		Title:       "  Soirée du Ramadan ",
		Date:        "2024-03-15",
		StartTime:   "19:30",
		Location:    "Salle de prière",
		Description: "Rupture du jeûne",
	}
	created, err := svc.Create(ctx, form, pngUploads(t, "images", "a.png", "b.png"), env.meta)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Soirée du Ramadan", created.Title)
	require.Equal(t, "Conférence", created.Type)
	require.Len(t, created.Images, 2)

	types, err := env.taxonomies.List(ctx, models.TaxonomyEventType)
	require.NoError(t, err)
	require.Len(t, types, 1)

	first, second := created.Images[0], created.Images[1]
	form.RemoveImages = []string{first}
	form.Type = "Conférence"
	updated, err := svc.Update(ctx, created.ID, form, pngUploads(t, "images", "c.png"), env.meta)
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	require.Equal(t, second, updated.Images[0])
	require.False(t, env.storage.has(first))
	require.True(t, env.storage.has(second))

	again, err := svc.Update(ctx, created.ID, form, nil, env.meta)
	require.NoError(t, err)
	require.Equal(t, []string(updated.Images), []string(again.Images))

	require.NoError(t, svc.Delete(ctx, created.ID, env.meta))
	require.True(t, env.storage.has(second))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID, env.meta), ErrEventNotFound)

	logs := env.auditEntries(t)
	require.Len(t, logs, 4)
	require.Equal(t, models.AuditDelete, logs[0].Action)
	require.Equal(t, models.AuditUpdate, logs[1].Action)
	require.Equal(t, models.AuditUpdate, logs[2].Action)
	require.Equal(t, models.AuditCreate, logs[3].Action)
	require.Equal(t, "Création événement: Soirée du Ramadan", logs[3].Description)
	require.NotEmpty(t, logs[2].OldValues)
	require.NotEmpty(t, logs[2].NewValues)
}

func TestEventServiceValidation(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewEventService(repository.NewEventRepository(env.db), env.taxonomies, env.images, env.validator, env.audit, testLogger())

	_, err := svc.Create(ctx, dto.EventForm{Title: "Sans date"}, nil, env.meta)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	_, err = svc.Create(ctx, dto.EventForm{Title: "x", Date: "2024-01-01", Location: "other"}, nil, env.meta)
	require.ErrorIs(t, err, ErrTaxonomyLabelRequired)

	_, err = svc.Update(ctx, 404, dto.EventForm{Title: "x", Date: "2024-01-01"}, nil, env.meta)
	require.ErrorIs(t, err, ErrEventNotFound)
	require.Empty(t, env.auditEntries(t))
}

func TestNewsServiceKeepsLegacyImage(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewNewsService(repository.NewNewsRepository(env.db), env.taxonomies, env.images, env.validator, env.audit, testLogger())

	created, err := svc.Create(ctx, dto.NewsForm{Title: "Travaux", Content: "Rénovation"}, pngUploads(t, "images", "a.png", "b.png"), env.meta)
	require.NoError(t, err)
	require.Len(t, created.Images, 2)
	require.Equal(t, created.Images[0], created.Image)

	updated, err := svc.Update(ctx, created.ID, dto.NewsForm{Title: "Travaux", RemoveImages: []string(created.Images)}, nil, env.meta)
	require.NoError(t, err)
	require.Empty(t, updated.Images)
	require.Equal(t, created.Image, updated.Image)
	require.Zero(t, env.storage.count())

	plain, err := svc.Create(ctx, dto.NewsForm{Title: "Sans image", Category: "other", NewCategory: "Annonces"}, nil, env.meta)
	require.NoError(t, err)
	require.Empty(t, plain.Image)
	require.Equal(t, "Annonces", plain.Category)
}

func TestQuoteServiceAuditName(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewQuoteService(repository.NewQuoteRepository(env.db), env.taxonomies, env.validator, env.audit, testLogger())

	quote, err := svc.Create(ctx, dto.QuoteForm{TextOriginal: "Bismillah", Author: "other", NewAuthor: "Coran", Active: "on"}, env.meta)
	require.NoError(t, err)
	require.True(t, quote.Active)
	require.Equal(t, "Coran", quote.Author)

	updated, err := svc.Update(ctx, quote.ID, dto.QuoteForm{TextOriginal: "Bismillah", Author: "Coran"}, env.meta)
	require.NoError(t, err)
	require.False(t, updated.Active)

	logs := env.auditEntries(t)
	require.Len(t, logs, 2)
	require.Equal(t, "Citation de Coran", logs[0].ResourceName)
	require.Equal(t, "Modification citation: Citation de Coran", logs[0].Description)

	_, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestMemberServiceSingleImage(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewMemberService(repository.NewMemberRepository(env.db), env.taxonomies, env.images, env.validator, env.audit, testLogger())

	form := dto.MemberForm{FirstName: "Ayşe", LastName: "Yılmaz", Pole: "Jeunesse", Role: "other", NewRole: "Coordinatrice", Order: 2, Active: "1"}
	member, err := svc.Create(ctx, form, pngUploads(t, "image", "me.png")[0], env.meta)
	require.NoError(t, err)
	require.NotEmpty(t, member.Image)
	require.Equal(t, "Coordinatrice", member.Role)
	first := member.Image

	replaced, err := svc.Update(ctx, member.ID, form, pngUploads(t, "image", "new.png")[0], env.meta)
	require.NoError(t, err)
	require.NotEqual(t, first, replaced.Image)
	require.True(t, env.storage.has(first))

	form.RemoveImage = "1"
	cleared, err := svc.Update(ctx, member.ID, form, nil, env.meta)
	require.NoError(t, err)
	require.Empty(t, cleared.Image)
	require.False(t, env.storage.has(replaced.Image))

	logs := env.auditEntries(t)
	require.Len(t, logs, 3)
	require.Equal(t, "Ayşe Yılmaz", logs[0].ResourceName)
	require.Equal(t, models.AuditResourceMember, logs[0].ResourceType)
}

func TestDonationServiceLifecycle(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := NewDonationService(repository.NewDonationRepository(env.db), env.images, env.validator, env.audit, testLogger())

	donation, err := svc.Create(ctx, dto.DonationForm{Title: "Toiture", GoalAmount: 1000, CurrentAmount: 250, EndDate: "2024-12-31", Active: "on"}, pngUploads(t, "images", "a.png"), env.meta)
	require.NoError(t, err)
	require.NotNil(t, donation.EndDate)
	require.Equal(t, donation.Images[0], donation.Image)
	require.InDelta(t, 25.0, donation.Progress(), 0.001)

	_, err = svc.Create(ctx, dto.DonationForm{Title: "Négatif", GoalAmount: -1}, nil, env.meta)
	require.Error(t, err)

	updated, err := svc.Update(ctx, donation.ID, dto.DonationForm{Title: "Toiture", GoalAmount: 1000, CurrentAmount: 1000}, nil, env.meta)
	require.NoError(t, err)
	require.Nil(t, updated.EndDate)
	require.False(t, updated.Active)
	require.Equal(t, donation.Image, updated.Image)

	require.NoError(t, svc.Delete(ctx, donation.ID, env.meta))
	require.Equal(t, 1, env.storage.count())
}

func TestContentSurvivesAuditFailure(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	broken := NewAuditService(failingAuditRepo{}, nil, "", testLogger())
	svc := NewQuoteService(repository.NewQuoteRepository(env.db), env.taxonomies, env.validator, broken, testLogger())

	quote, err := svc.Create(ctx, dto.QuoteForm{TextOriginal: "Sabr", Author: "Hadith"}, env.meta)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, quote.ID, env.meta))
}
