package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

const (
	loginView             = "admin-login"
	dashboardPath         = "/admin/dashboard"
	invalidLoginMessage   = "Identifiant ou mot de passe incorrect"
	unexpectedLoginFailed = "Une erreur est survenue. Veuillez réessayer."
)

// LoginView is the data handed to the login template.
type LoginView struct {
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AuthHandler serves the login and logout pages.
type AuthHandler struct {
	service service.AuthService
	audit   service.AuditRecorder
	store   *session.Store
	limiter fiber.Handler
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler. limiter guards the login submission and may be nil.
func NewAuthHandler(service service.AuthService, audit service.AuditRecorder, store *session.Store, limiter fiber.Handler, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		audit:   audit,
		store:   store,
		limiter: limiter,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches routes. The router must already run the session middleware.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Get("/login", h.loginPage)
	if h.limiter != nil {
		router.Post("/login", h.limiter, h.login)
	} else {
		router.Post("/login", h.login)
	}
	router.Get("/logout", h.logout)
}

func (h *AuthHandler) loginPage(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		return c.Redirect(dashboardPath, fiber.StatusFound)
	}
	return utils.Render(c, fiber.StatusOK, loginView, LoginView{})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Render(c, fiber.StatusBadRequest, loginView, LoginView{Error: invalidLoginMessage})
	}
	payload.Username = strings.TrimSpace(payload.Username)

	result, err := h.service.Authenticate(c.UserContext(), payload.Username, payload.Password, requestMeta(c))
	if err != nil {
		view := LoginView{Username: payload.Username}
		var locked *service.LockedError
		switch {
		case errors.As(err, &locked):
			view.Error = fmt.Sprintf("Compte temporairement verrouillé. Réessayez dans %d minute(s).", locked.RemainingMinutes())
			return utils.Render(c, fiber.StatusUnauthorized, loginView, view)
		case errors.Is(err, service.ErrInvalidCredentials):
			view.Error = invalidLoginMessage
			if translated := middleware.Translate(c, "errors", "login_invalid"); translated != "" {
				view.Error = translated
			}
			return utils.Render(c, fiber.StatusUnauthorized, loginView, view)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed unexpectedly")
			view.Error = unexpectedLoginFailed
			return utils.Render(c, fiber.StatusInternalServerError, loginView, view)
		}
	}

	identity := middleware.SessionIdentity{UserID: result.UserID, Username: result.Username, Role: result.Role}
	if err := middleware.StartSession(c, h.store, identity); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to start session")
		return utils.Render(c, fiber.StatusInternalServerError, loginView, LoginView{Username: payload.Username, Error: unexpectedLoginFailed})
	}

	return c.Redirect(dashboardPath, fiber.StatusFound)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentIdentity(c); ok {
		h.audit.LogLogout(c.UserContext(), requestMeta(c))
	}
	if err := middleware.EndSession(c, h.store); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("failed to destroy session")
	}
	return c.Redirect(middleware.LoginPath, fiber.StatusFound)
}
