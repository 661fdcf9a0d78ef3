package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// DashboardHandler serves the back-office landing page.
type DashboardHandler struct {
	pages
	service service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger, exposeErrors bool) *DashboardHandler {
	return &DashboardHandler{
		pages:   newPages(logger, "dashboard_handler", exposeErrors),
		service: service,
	}
}

// Register attaches routes. The group must run RequireLogin.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.show)
}

func (h *DashboardHandler) show(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.Redirect(middleware.LoginPath, fiber.StatusFound)
	}

	summary, err := h.service.Summary(c.UserContext(), principal)
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement du dashboard")
	}
	return utils.Render(c, fiber.StatusOK, "admin/dashboard", summary)
}
