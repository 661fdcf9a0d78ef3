package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/service"
)

// AuditHandler exposes the audit trail to the settings page.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches routes. The group must run RequirePermission(audit_logs).
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/audit-logs", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid page", "logs": []interface{}{}})
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid limit", "logs": []interface{}{}})
	}

	result, err := h.service.List(c.UserContext(), dto.AuditLogListRequest{
		Filter: c.Query("filter"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Erreur lors de la récupération des logs",
			"logs":    []interface{}{},
		})
	}
	return c.JSON(result)
}
