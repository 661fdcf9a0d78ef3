package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Resource   models.Resource
	SuperAdmin bool
}

// RequireLogin redirects anonymous requests to the login page and loads the principal otherwise.
func RequireLogin(resolver PrincipalResolver, logger zerolog.Logger) fiber.Handler {
	return newGate(resolver, logger, nil, nil).middleware()
}

// WithAuth wraps a single handler with the guard matching opts.
func WithAuth(handler fiber.Handler, resolver PrincipalResolver, logger zerolog.Logger, opts AuthOptions) fiber.Handler {
	var guard gate
	switch {
	case opts.SuperAdmin:
		guard = superAdminGate(resolver, logger)
	case opts.Resource != "":
		guard = permissionGate(resolver, opts.Resource, logger)
	default:
		guard = newGate(resolver, logger, nil, nil)
	}

	return func(c *fiber.Ctx) error {
		ok, err := guard(c)
		if !ok {
			return err
		}
		return handler(c)
	}
}
