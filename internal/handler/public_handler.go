package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// PublicHandler serves the visitor pages and the public JSON API.
type PublicHandler struct {
	pages
	service service.PublicContentService
}

// NewPublicHandler constructs the handler.
func NewPublicHandler(service service.PublicContentService, logger zerolog.Logger, exposeErrors bool) *PublicHandler {
	return &PublicHandler{
		pages:   newPages(logger, "public_handler", exposeErrors),
		service: service,
	}
}

// Register attaches the page routes at the site root.
func (h *PublicHandler) Register(router fiber.Router) {
	router.Get("/", h.home)
	router.Get("/evenements", h.events)
	router.Get("/don", h.donations)
	router.Get("/equipe", h.team)
}

// RegisterAPI attaches the JSON routes under /api.
func (h *PublicHandler) RegisterAPI(router fiber.Router) {
	router.Get("/events/:id", h.event)
	router.Get("/news/:id", h.news)
}

func (h *PublicHandler) home(c *fiber.Ctx) error {
	home, err := h.service.Home(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement de la page d'accueil")
	}
	return utils.Render(c, fiber.StatusOK, "index", home)
}

func (h *PublicHandler) events(c *fiber.Ctx) error {
	page, err := h.service.EventsPage(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement des événements")
	}
	return utils.Render(c, fiber.StatusOK, "evenements", page)
}

func (h *PublicHandler) donations(c *fiber.Ctx) error {
	campaigns, err := h.service.Donations(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement des campagnes")
	}
	return utils.Render(c, fiber.StatusOK, "don", fiber.Map{"donations": campaigns})
}

func (h *PublicHandler) team(c *fiber.Ctx) error {
	poles, err := h.service.Team(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement de l'équipe")
	}
	return utils.Render(c, fiber.StatusOK, "equipe", fiber.Map{"poles": poles})
}

func (h *PublicHandler) event(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Événement non trouvé"})
	}

	event, err := h.service.Event(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Événement non trouvé"})
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("event_id", id).Msg("failed to load public event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericErrorMessage})
	}
	return c.JSON(event)
}

func (h *PublicHandler) news(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Actualité non trouvée"})
	}

	article, err := h.service.News(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Actualité non trouvée"})
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("news_id", id).Msg("failed to load public news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericErrorMessage})
	}
	return c.JSON(article)
}
