package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/config"
	"github.com/noah-isme/mosquee-go/internal/handler"
	"github.com/noah-isme/mosquee-go/internal/i18n"
	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/observability"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

const auditAPIRequestsPerMinute = 60

// ContentRoutes is implemented by the per-resource back-office handlers.
type ContentRoutes interface {
	Register(router fiber.Router)
	Index() fiber.Handler
}

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Logger       zerolog.Logger
	SessionStore *session.Store
	Catalog      *i18n.Catalog
	Principals   middleware.PrincipalResolver
	PublicCache  middleware.CacheInvalidator
	Database     handler.Pinger

	PublicHandler    *handler.PublicHandler
	LocaleHandler    *handler.LocaleHandler
	AuthHandler      *handler.AuthHandler
	DashboardHandler *handler.DashboardHandler
	AdminUserHandler *handler.AdminUserHandler
	TaxonomyHandler  *handler.TaxonomyHandler
	AuditHandler     *handler.AuditHandler

	Events    ContentRoutes
	News      ContentRoutes
	Quotes    ContentRoutes
	Members   ContentRoutes
	Donations ContentRoutes
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg, deps.Database))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.Catalog != nil {
		app.Use(middleware.Locale(deps.Catalog))
	}
	if deps.LocaleHandler != nil {
		deps.LocaleHandler.Register(app)
	}

	// Public site and JSON API
	if deps.PublicHandler != nil {
		deps.PublicHandler.Register(app)
		deps.PublicHandler.RegisterAPI(app.Group("/api"))
	}

	registerAdmin(app, deps)

	app.Use(func(c *fiber.Ctx) error {
		return utils.RenderError(c, fiber.StatusNotFound, "Page non trouvée", nil, false)
	})
}

func registerAdmin(app *fiber.App, deps Dependencies) {
	if deps.SessionStore == nil || deps.Principals == nil {
		return
	}
	logger := deps.Logger
	resolver := deps.Principals

	admin := app.Group("/admin", middleware.Session(deps.SessionStore), middleware.SuperAdminFlag(resolver))

	// Login and logout stay reachable without a session.
	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(admin)
	}

	secured := admin.Group("", middleware.RequireLogin(resolver, logger))
	if deps.PublicCache != nil {
		secured.Use(middleware.InvalidateOnWrite(deps.PublicCache, logger))
	}
	secured.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/dashboard", fiber.StatusFound)
	})

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(secured)
	}

	content := []struct {
		path     string
		resource models.Resource
		routes   ContentRoutes
	}{
		{"/events", models.ResourceEvents, deps.Events},
		{"/news", models.ResourceNews, deps.News},
		{"/quotes", models.ResourceQuotes, deps.Quotes},
		{"/members", models.ResourceMembers, deps.Members},
		{"/donations", models.ResourceDonations, deps.Donations},
	}
	for _, entry := range content {
		if entry.routes == nil {
			continue
		}
		entry.routes.Register(secured.Group(entry.path, middleware.RequirePermission(resolver, entry.resource, logger)))
	}
	if deps.News != nil {
		secured.Get("/news-list", middleware.WithAuth(deps.News.Index(), resolver, logger, middleware.AuthOptions{Resource: models.ResourceNews}))
	}

	if deps.AdminUserHandler != nil {
		settings := secured.Group("/settings", middleware.RequireSuperAdmin(resolver, logger))
		deps.AdminUserHandler.RegisterSettings(settings)
		if deps.TaxonomyHandler != nil {
			deps.TaxonomyHandler.Register(settings.Group("/taxonomies"))
		}
		deps.AdminUserHandler.Register(secured.Group("/users", middleware.RequireSuperAdmin(resolver, logger)))
	}

	if deps.AuditHandler != nil {
		api := secured.Group("/api",
			middleware.RequirePermission(resolver, models.ResourceAuditLogs, logger),
			middleware.RateLimit("audit-api", auditAPIRequestsPerMinute, time.Minute),
		)
		deps.AuditHandler.Register(api)
	}
}
