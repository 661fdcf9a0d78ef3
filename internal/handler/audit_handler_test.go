package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/handler"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
)

type stubAuditService struct {
	stubAuditRecorder
	request dto.AuditLogListRequest
	err     error
}

func (s *stubAuditService) List(_ context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	s.request = req
	if s.err != nil {
		return dto.AuditLogListResponse{}, s.err
	}
	return dto.AuditLogListResponse{
		Success: true,
		Logs:    []models.AuditLog{{ID: 1, Username: "admin", Action: models.AuditLoginSuccess}},
		Page:    req.Page,
		Limit:   50,
		Total:   1,
	}, nil
}

func newAuditApp(svc service.AuditService) *fiber.App {
	app := fiber.New()
	handler.NewAuditHandler(svc, testLogger).Register(app.Group("/admin/api"))
	return app
}

func TestAuditHandler_ListPassesQuery(t *testing.T) {
	svc := &stubAuditService{}
	app := newAuditApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/api/audit-logs?filter=login&page=2&limit=20", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.AuditLogListRequest{Filter: "login", Page: 2, Limit: 20}, svc.request)

	var body dto.AuditLogListResponse
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, int64(1), body.Total)
	require.Len(t, body.Logs, 1)
}

func TestAuditHandler_InvalidPage(t *testing.T) {
	app := newAuditApp(&stubAuditService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/api/audit-logs?page=two", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuditHandler_Failure(t *testing.T) {
	app := newAuditApp(&stubAuditService{err: errors.New("db down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/api/audit-logs", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Logs    []interface{} `json:"logs"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "Erreur lors de la récupération des logs", body.Message)
	require.NotNil(t, body.Logs)
	require.Empty(t, body.Logs)
}
