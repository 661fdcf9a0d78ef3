package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// TaxonomyHandler exposes the reference lists to the settings page scripts.
type TaxonomyHandler struct {
	service service.TaxonomyService
	logger  zerolog.Logger
}

// NewTaxonomyHandler constructs the handler.
func NewTaxonomyHandler(service service.TaxonomyService, logger zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		service: service,
		logger:  logger.With().Str("component", "taxonomy_handler").Logger(),
	}
}

// Register attaches routes under /settings/taxonomies.
func (h *TaxonomyHandler) Register(router fiber.Router) {
	router.Get("/:kind", h.list)
	router.Post("/:kind", h.create)
	router.Post("/:kind/:id/delete", h.delete)
}

type taxonomyPayload struct {
	Name string `form:"name" json:"name"`
}

func (h *TaxonomyHandler) list(c *fiber.Ctx) error {
	kind, ok := models.ParseTaxonomyKind(c.Params("kind"))
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown taxonomy")
	}

	items, err := h.service.List(c.UserContext(), kind)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("kind", string(kind)).Msg("failed to list taxonomy")
		return utils.SendError(c, fiber.StatusInternalServerError, genericErrorMessage)
	}
	return utils.OK(c, items, "taxonomy retrieved", fiber.Map{"kind": kind, "count": len(items)})
}

func (h *TaxonomyHandler) create(c *fiber.Ctx) error {
	kind, ok := models.ParseTaxonomyKind(c.Params("kind"))
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown taxonomy")
	}

	var payload taxonomyPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.Create(c.UserContext(), kind, strings.TrimSpace(payload.Name), requestMeta(c))
	if err != nil {
		if errors.Is(err, service.ErrTaxonomyNameRequired) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Str("kind", string(kind)).Msg("failed to create taxonomy entry")
		return utils.SendError(c, fiber.StatusInternalServerError, genericErrorMessage)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "taxonomy entry created", item)
}

func (h *TaxonomyHandler) delete(c *fiber.Ctx) error {
	kind, ok := models.ParseTaxonomyKind(c.Params("kind"))
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "unknown taxonomy")
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.UserContext(), kind, id, requestMeta(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrTaxonomyNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTaxonomySystemEntry):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("kind", string(kind)).Msg("failed to delete taxonomy entry")
			return utils.SendError(c, fiber.StatusInternalServerError, genericErrorMessage)
		}
	}
	return utils.SendSuccess(c, "taxonomy entry deleted", nil)
}
