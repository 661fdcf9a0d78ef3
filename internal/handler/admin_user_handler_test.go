package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/handler"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
)

type stubAdminUserService struct {
	users     map[uint]models.User
	err       error
	settings  map[string]string
	created   *dto.UserForm
	updated   *dto.UserForm
	deletedID uint
	meta      service.RequestMeta
}

func (s *stubAdminUserService) Settings(context.Context) (dto.AdminSettingsResponse, error) {
	if s.err != nil {
		return dto.AdminSettingsResponse{}, s.err
	}
	return dto.AdminSettingsResponse{
		Users:    []models.User{{ID: 1, Username: "admin", Active: true}},
		Settings: []models.Setting{{Key: "site_name", Value: "Mosquée"}},
	}, nil
}

func (s *stubAdminUserService) UpdateSettings(_ context.Context, values map[string]string, meta service.RequestMeta) error {
	s.settings = values
	s.meta = meta
	return s.err
}

func (s *stubAdminUserService) SeedSettings(context.Context) error { return nil }

func (s *stubAdminUserService) Tags(context.Context) ([]models.UserTag, error) {
	return []models.UserTag{{ID: 1, Name: "Trésorerie", Active: true}}, nil
}

func (s *stubAdminUserService) Get(_ context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, service.ErrUserNotFound
	}
	return user, nil
}

func (s *stubAdminUserService) Create(_ context.Context, form dto.UserForm, meta service.RequestMeta) (models.User, error) {
	s.created = &form
	s.meta = meta
	return models.User{ID: 5, Username: form.Username}, s.err
}

func (s *stubAdminUserService) Update(_ context.Context, id uint, form dto.UserForm, meta service.RequestMeta) (models.User, error) {
	s.updated = &form
	s.meta = meta
	if s.err != nil {
		return models.User{}, s.err
	}
	return s.Get(context.Background(), id)
}

func (s *stubAdminUserService) ToggleStatus(_ context.Context, id uint, meta service.RequestMeta) (models.User, error) {
	s.meta = meta
	if s.err != nil {
		return models.User{}, s.err
	}
	user, err := s.Get(context.Background(), id)
	if err != nil {
		return models.User{}, err
	}
	user.Active = !user.Active
	return user, nil
}

func (s *stubAdminUserService) Delete(_ context.Context, id uint, meta service.RequestMeta) error {
	s.deletedID = id
	s.meta = meta
	return s.err
}

func (s *stubAdminUserService) Bootstrap(context.Context, string, string) (models.User, error) {
	return models.User{}, nil
}

func newAdminUserApp(svc service.AdminUserService) *fiber.App {
	app := fiber.New()
	h := handler.NewAdminUserHandler(svc, testLogger, false)
	h.RegisterSettings(app.Group("/admin/settings", asUser(1, "admin")))
	h.Register(app.Group("/admin/users", asUser(1, "admin")))
	return app
}

func TestAdminUserHandler_SettingsPage(t *testing.T) {
	app := newAdminUserApp(&stubAdminUserService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/settings?success=user_updated", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body viewResponse[struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
		Success string `json:"success"`
	}]
	decodeResponse(t, resp, &body)
	require.Equal(t, "admin/settings", body.View)
	require.Equal(t, "user_updated", body.Data.Success)
	require.Len(t, body.Data.Users, 1)
}

func TestAdminUserHandler_UpdateSettings(t *testing.T) {
	svc := &stubAdminUserService{}
	app := newAdminUserApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/settings", url.Values{"site_name": {"Mosquée de Lyon"}, "maintenance_mode": {"true"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/settings?success=settings_updated", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, "Mosquée de Lyon", svc.settings["site_name"])
	require.Equal(t, "true", svc.settings["maintenance_mode"])
	require.Equal(t, uint(1), svc.meta.UserID)
}

func TestAdminUserHandler_UpdateSettingsRejectsUnknownKey(t *testing.T) {
	svc := &stubAdminUserService{err: service.ErrSettingNotFound}
	app := newAdminUserApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/settings", url.Values{"nope": {"1"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminUserHandler_CreateRedirects(t *testing.T) {
	svc := &stubAdminUserService{}
	app := newAdminUserApp(svc)

	values := url.Values{
		"username":         {"tresorier"},
		"password":         {"Secret123"},
		"password_confirm": {"Secret123"},
		"permissions":      {"events", "donations"},
		"active":           {"on"},
	}
	resp, err := app.Test(formRequest(http.MethodPost, "/admin/users", values))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/settings", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, []string{"events", "donations"}, svc.created.Permissions)
	require.Equal(t, "on", svc.created.Active)
}

func TestAdminUserHandler_CreatePasswordMismatch(t *testing.T) {
	svc := &stubAdminUserService{err: service.ErrPasswordMismatch}
	app := newAdminUserApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/users", url.Values{"username": {"tresorier"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body viewResponse[struct {
		Error string `json:"error"`
	}]
	decodeResponse(t, resp, &body)
	require.Equal(t, "admin/user-form", body.View)
	require.Equal(t, "Les mots de passe ne correspondent pas", body.Data.Error)
}

func TestAdminUserHandler_UpdateRedirectsWithSuccess(t *testing.T) {
	svc := &stubAdminUserService{users: map[uint]models.User{2: {ID: 2, Username: "imam", Active: true}}}
	app := newAdminUserApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/users/2", url.Values{"username": {"imam"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/settings?success=user_updated", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, "imam", svc.updated.Username)
}

func TestAdminUserHandler_EditUnknownUser(t *testing.T) {
	app := newAdminUserApp(&stubAdminUserService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/users/8/edit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminUserHandler_ToggleStatus(t *testing.T) {
	svc := &stubAdminUserService{users: map[uint]models.User{2: {ID: 2, Username: "imam", Active: true}}}
	app := newAdminUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin/users/2/toggle-status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.ToggleStatusResponse
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.NotNil(t, body.Active)
	require.False(t, *body.Active)
}

func TestAdminUserHandler_SelfModificationIsReportedInJSON(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		err     error
		message string
	}{
		{"deactivate self", "/admin/users/1/toggle-status", service.ErrSelfDeactivation, "Vous ne pouvez pas désactiver votre propre compte"},
		{"delete self", "/admin/users/1/delete", service.ErrSelfDeletion, "Vous ne pouvez pas supprimer votre propre compte"},
		{"unknown user", "/admin/users/9/delete", service.ErrUserNotFound, "Utilisateur non trouvé"},
		{"unexpected", "/admin/users/3/delete", errors.New("disk full"), "Erreur serveur"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAdminUserApp(&stubAdminUserService{err: tc.err})

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, tc.path, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body dto.ToggleStatusResponse
			decodeResponse(t, resp, &body)
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Message)
		})
	}
}

func TestAdminUserHandler_DeleteSuccess(t *testing.T) {
	svc := &stubAdminUserService{}
	app := newAdminUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin/users/3/delete", nil))
	require.NoError(t, err)

	var body dto.ToggleStatusResponse
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, uint(3), svc.deletedID)
}

func TestAdminUserHandler_FormPrefillsGrantedResources(t *testing.T) {
	svc := &stubAdminUserService{users: map[uint]models.User{2: {ID: 2, Username: "imam", Permissions: models.Permissions{News: true, AuditLogs: true}}}}
	app := newAdminUserApp(svc)

	type formData struct {
		Granted []models.Resource `json:"granted"`
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/users/2/edit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var edit viewResponse[formData]
	decodeResponse(t, resp, &edit)
	require.Equal(t, []models.Resource{models.ResourceNews, models.ResourceAuditLogs}, edit.Data.Granted)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/users/new", nil))
	require.NoError(t, err)
	var blank viewResponse[formData]
	decodeResponse(t, resp, &blank)
	require.Equal(t, models.DefaultPermissions.Granted(), blank.Data.Granted)
}
