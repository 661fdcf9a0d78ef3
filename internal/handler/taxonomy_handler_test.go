package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/handler"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
)

type stubTaxonomyService struct {
	items     []models.Taxonomy
	err       error
	kind      models.TaxonomyKind
	name      string
	deletedID uint
}

func (s *stubTaxonomyService) Resolve(_ context.Context, _ models.TaxonomyKind, value, _ string) (string, error) {
	return value, nil
}

func (s *stubTaxonomyService) Options(context.Context, ...models.TaxonomyKind) (map[models.TaxonomyKind][]models.Taxonomy, error) {
	return nil, nil
}

func (s *stubTaxonomyService) List(_ context.Context, kind models.TaxonomyKind) ([]models.Taxonomy, error) {
	s.kind = kind
	return s.items, s.err
}

func (s *stubTaxonomyService) Create(_ context.Context, kind models.TaxonomyKind, name string, _ service.RequestMeta) (models.Taxonomy, error) {
	s.kind = kind
	s.name = name
	if s.err != nil {
		return models.Taxonomy{}, s.err
	}
	return models.Taxonomy{ID: 12, Kind: kind, Name: name}, nil
}

func (s *stubTaxonomyService) Delete(_ context.Context, kind models.TaxonomyKind, id uint, _ service.RequestMeta) error {
	s.kind = kind
	s.deletedID = id
	return s.err
}

func (s *stubTaxonomyService) SeedSystem(context.Context) error { return nil }

func newTaxonomyApp(svc service.TaxonomyService) *fiber.App {
	app := fiber.New()
	handler.NewTaxonomyHandler(svc, testLogger).Register(app.Group("/admin/settings/taxonomies", asUser(1, "admin")))
	return app
}

func TestTaxonomyHandler_List(t *testing.T) {
	svc := &stubTaxonomyService{items: []models.Taxonomy{{ID: 1, Kind: models.TaxonomyPole, Name: "Jeunesse", IsSystem: true}}}
	app := newTaxonomyApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/settings/taxonomies/POLE", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.TaxonomyPole, svc.kind)

	var body struct {
		Success bool              `json:"success"`
		Data    []models.Taxonomy `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data, 1)
}

func TestTaxonomyHandler_UnknownKind(t *testing.T) {
	app := newTaxonomyApp(&stubTaxonomyService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/settings/taxonomies/colors", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTaxonomyHandler_Create(t *testing.T) {
	svc := &stubTaxonomyService{}
	app := newTaxonomyApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/admin/settings/taxonomies/location", bytes.NewBufferString(`{"name":"  Salle B "}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Salle B", svc.name)
	require.Equal(t, models.TaxonomyLocation, svc.kind)
}

func TestTaxonomyHandler_CreateRequiresName(t *testing.T) {
	app := newTaxonomyApp(&stubTaxonomyService{err: service.ErrTaxonomyNameRequired})

	req := httptest.NewRequest(http.MethodPost, "/admin/settings/taxonomies/location", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTaxonomyHandler_DeleteStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, fiber.StatusOK},
		{"missing", service.ErrTaxonomyNotFound, fiber.StatusNotFound},
		{"system entry", service.ErrTaxonomySystemEntry, fiber.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubTaxonomyService{err: tc.err}
			app := newTaxonomyApp(svc)

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin/settings/taxonomies/pole/5/delete", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, uint(5), svc.deletedID)
		})
	}
}
