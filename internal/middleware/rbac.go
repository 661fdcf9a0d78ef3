package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// LoginPath is where unauthenticated back-office requests are sent.
const LoginPath = "/admin/login"

// PrincipalResolver loads the capabilities of a session user.
type PrincipalResolver interface {
	Principal(ctx context.Context, userID uint) (service.Principal, error)
}

// RequirePermission lets the request through when the session user holds resource.
func RequirePermission(resolver PrincipalResolver, resource models.Resource, logger zerolog.Logger) fiber.Handler {
	return permissionGate(resolver, resource, logger).middleware()
}

func permissionGate(resolver PrincipalResolver, resource models.Resource, logger zerolog.Logger) gate {
	return newGate(resolver, logger, func(p service.Principal) bool {
		return p.Can(resource)
	}, func(c *fiber.Ctx) utils.ErrorView {
		return utils.ErrorView{
			Status:   fiber.StatusForbidden,
			Title:    "Accès refusé",
			Message:  "Vous n'avez pas la permission d'accéder à cette section.",
			Detail:   forbiddenDetail(c, resource.Label()),
			BackLink: "/admin/dashboard",
		}
	})
}

// RequireSuperAdmin requires both the settings and users capabilities.
func RequireSuperAdmin(resolver PrincipalResolver, logger zerolog.Logger) fiber.Handler {
	return superAdminGate(resolver, logger).middleware()
}

func superAdminGate(resolver PrincipalResolver, logger zerolog.Logger) gate {
	return newGate(resolver, logger, service.Principal.IsSuperAdmin, func(c *fiber.Ctx) utils.ErrorView {
		return utils.ErrorView{
			Status:   fiber.StatusForbidden,
			Title:    "Accès réservé aux super administrateurs",
			Message:  "Seuls les super administrateurs peuvent accéder à cette section.",
			BackLink: "/admin/dashboard",
		}
	})
}

// SuperAdminFlag exposes is_super_admin to every back-office view. It never fails.
func SuperAdminFlag(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("is_super_admin", false)
		identity, ok := CurrentIdentity(c)
		if !ok {
			return c.Next()
		}
		if principal, err := resolver.Principal(c.UserContext(), identity.UserID); err == nil {
			c.Locals("principal", principal)
			c.Locals("is_super_admin", principal.IsSuperAdmin())
		}
		return c.Next()
	}
}

// CurrentPrincipal returns the principal stored by the authorization middlewares.
func CurrentPrincipal(c *fiber.Ctx) (service.Principal, bool) {
	principal, ok := c.Locals("principal").(service.Principal)
	return principal, ok
}

// gate runs an authorization check. It reports whether the request may proceed; when it may not,
// the response has already been written.
type gate func(c *fiber.Ctx) (bool, error)

func newGate(resolver PrincipalResolver, logger zerolog.Logger, allowed func(service.Principal) bool, denied func(*fiber.Ctx) utils.ErrorView) gate {
	return func(c *fiber.Ctx) (bool, error) {
		principal, err := loadPrincipal(c, resolver)
		if err != nil {
			if errors.Is(err, service.ErrPrincipalNotFound) {
				return false, c.Redirect(LoginPath, fiber.StatusFound)
			}
			logger.Error().Err(err).Str("correlation_id", GetCorrelationID(c)).Msg("failed to resolve session principal")
			return false, utils.RenderError(c, fiber.StatusInternalServerError, "Erreur serveur", err, false)
		}

		if allowed != nil && !allowed(principal) {
			view := denied(c)
			return false, utils.Render(c, view.Status, "error", view)
		}

		c.Locals("permissions", principal.Permissions)
		c.Locals("user_tag", principal.Tag)
		c.Locals("is_super_admin", principal.IsSuperAdmin())
		return true, nil
	}
}

func (g gate) middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := g(c)
		if !ok {
			return err
		}
		return c.Next()
	}
}

func loadPrincipal(c *fiber.Ctx, resolver PrincipalResolver) (service.Principal, error) {
	if principal, ok := CurrentPrincipal(c); ok {
		return principal, nil
	}
	identity, ok := CurrentIdentity(c)
	if !ok {
		return service.Principal{}, service.ErrPrincipalNotFound
	}
	principal, err := resolver.Principal(c.UserContext(), identity.UserID)
	if err != nil {
		return service.Principal{}, err
	}
	c.Locals("principal", principal)
	return principal, nil
}

func forbiddenDetail(c *fiber.Ctx, label string) string {
	if format := Translate(c, "errors", "forbidden"); format != "" {
		return fmt.Sprintf(format, label)
	}
	return fmt.Sprintf("Votre compte n'a pas accès à la gestion de « %s ».", label)
}
