package handler_test

import (
	"context"
	"errors"
	"mime/multipart"
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

type stubEventService struct {
	events    []models.Event
	err       error
	writeErr  error
	created   *dto.EventForm
	updatedID uint
	deletedID uint
	meta      service.RequestMeta
}

func (s *stubEventService) List(context.Context) ([]models.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) FormOptions(context.Context) (dto.TaxonomyOptions, error) {
	return dto.TaxonomyOptions{
		models.TaxonomyLocation: {{ID: 1, Kind: models.TaxonomyLocation, Name: "Salle de prière"}},
	}, nil
}

func (s *stubEventService) Get(_ context.Context, id uint) (models.Event, error) {
	for _, event := range s.events {
		if event.ID == id {
			return event, nil
		}
	}
	if s.err != nil {
		return models.Event{}, s.err
	}
	return models.Event{}, service.ErrEventNotFound
}

func (s *stubEventService) Create(_ context.Context, form dto.EventForm, _ []*multipart.FileHeader, meta service.RequestMeta) (models.Event, error) {
	s.created = &form
	s.meta = meta
	return models.Event{ID: 10, Title: form.Title}, s.writeErr
}

func (s *stubEventService) Update(_ context.Context, id uint, form dto.EventForm, _ []*multipart.FileHeader, meta service.RequestMeta) (models.Event, error) {
	s.updatedID = id
	s.meta = meta
	if s.writeErr != nil {
		return models.Event{}, s.writeErr
	}
	return models.Event{ID: id, Title: form.Title}, nil
}

func (s *stubEventService) Delete(_ context.Context, id uint, meta service.RequestMeta) error {
	s.deletedID = id
	s.meta = meta
	return s.writeErr
}

func newEventApp(svc service.EventService) *fiber.App {
	app := fiber.New()
	handler.NewEventHandler(svc, testLogger, false).Register(app.Group("/admin/events", asUser(4, "secretaire")))
	return app
}

func TestContentHandler_ListRendersItems(t *testing.T) {
	svc := &stubEventService{events: []models.Event{{ID: 1, Title: "Iftar collectif"}, {ID: 2, Title: "Cours d'arabe"}}}
	app := newEventApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/events", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body viewResponse[struct {
		Items []models.Event `json:"items"`
		Count int            `json:"count"`
	}]
	decodeResponse(t, resp, &body)
	require.Equal(t, "admin/events-list", body.View)
	require.Equal(t, 2, body.Data.Count)
	require.Equal(t, "Iftar collectif", body.Data.Items[0].Title)
}

func TestContentHandler_ListFailureHidesDetail(t *testing.T) {
	app := newEventApp(&stubEventService{err: errors.New("connection reset")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/events", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body viewResponse[errorView]
	decodeResponse(t, resp, &body)
	require.Equal(t, "error", body.View)
	require.Empty(t, body.Data.Detail)
}

func TestContentHandler_NewFormCarriesOptions(t *testing.T) {
	app := newEventApp(&stubEventService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/events/new", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body viewResponse[dto.FormView]
	decodeResponse(t, resp, &body)
	require.Equal(t, "admin/event-form", body.View)
	require.Nil(t, body.Data.Item)
	require.Len(t, body.Data.Options[models.TaxonomyLocation], 1)
}

func TestContentHandler_EditUnknownIsNotFound(t *testing.T) {
	app := newEventApp(&stubEventService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/events/42/edit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body viewResponse[errorView]
	decodeResponse(t, resp, &body)
	require.Equal(t, "Événement non trouvé", body.Data.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/events/abc/edit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestContentHandler_CreateRedirectsToList(t *testing.T) {
	svc := &stubEventService{}
	app := newEventApp(svc)

	values := url.Values{
		"title":         {"Iftar collectif"},
		"date":          {"2025-03-15"},
		"location":      {"__new__"},
		"new_location":  {"Cour intérieure"},
		"remove_images": {"/images/events/a.jpg", "/images/events/b.jpg"},
	}
	resp, err := app.Test(formRequest(http.MethodPost, "/admin/events", values))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/events", resp.Header.Get(fiber.HeaderLocation))

	require.NotNil(t, svc.created)
	require.Equal(t, "Iftar collectif", svc.created.Title)
	require.Equal(t, "Cour intérieure", svc.created.NewLocation)
	require.Len(t, svc.created.RemoveImages, 2)
	require.Equal(t, uint(4), svc.meta.UserID)
	require.Equal(t, "secretaire", svc.meta.Username)
}

func TestContentHandler_CreateBadInputRerendersForm(t *testing.T) {
	svc := &stubEventService{writeErr: service.ErrTooManyImages}
	app := newEventApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/events", url.Values{"title": {"Iftar"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body viewResponse[dto.FormView]
	decodeResponse(t, resp, &body)
	require.Equal(t, "admin/event-form", body.View)
	require.Equal(t, service.ErrTooManyImages.Error(), body.Data.Error)
}

func TestContentHandler_UpdateAndDelete(t *testing.T) {
	svc := &stubEventService{events: []models.Event{{ID: 7, Title: "Conférence"}}}
	app := newEventApp(svc)

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/events/7", url.Values{"title": {"Conférence annuelle"}, "date": {"2025-04-01"}}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, uint(7), svc.updatedID)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/admin/events/7/delete", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/events", resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, uint(7), svc.deletedID)
}

func TestContentHandler_DeleteMissingIsNotFound(t *testing.T) {
	svc := &stubEventService{writeErr: service.ErrEventNotFound}
	app := newEventApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin/events/99/delete", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
