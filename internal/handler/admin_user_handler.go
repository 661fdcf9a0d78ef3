package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

const (
	settingsPath     = "/admin/settings"
	userFormView     = "admin/user-form"
	userNotFoundText = "Utilisateur non trouvé"
)

// userErrorMessages maps user-facing service errors onto form messages.
var userErrorMessages = []struct {
	err     error
	message string
}{
	{service.ErrPasswordMismatch, "Les mots de passe ne correspondent pas"},
	{service.ErrPasswordTooShort, "Le mot de passe doit contenir au moins 8 caractères"},
	{service.ErrPasswordTooWeak, "Le mot de passe doit contenir une majuscule, une minuscule et un chiffre"},
	{service.ErrUsernameTaken, "Ce nom d'utilisateur est déjà utilisé"},
	{service.ErrSelfDeactivation, "Vous ne pouvez pas désactiver votre propre compte"},
	{service.ErrSelfDeletion, "Vous ne pouvez pas supprimer votre propre compte"},
	{service.ErrUserNotFound, userNotFoundText},
}

func userErrorMessage(err error) (string, bool) {
	for _, candidate := range userErrorMessages {
		if errors.Is(err, candidate.err) {
			return candidate.message, true
		}
	}
	if isValidationError(err) {
		return validationMessage(err), true
	}
	return "", false
}

// AdminUserHandler serves the super admin settings page and account management.
type AdminUserHandler struct {
	pages
	service service.AdminUserService
}

// NewAdminUserHandler constructs the handler.
func NewAdminUserHandler(service service.AdminUserService, logger zerolog.Logger, exposeErrors bool) *AdminUserHandler {
	return &AdminUserHandler{
		pages:   newPages(logger, "admin_user_handler", exposeErrors),
		service: service,
	}
}

// RegisterSettings attaches the settings page to a group mounted at /admin/settings.
func (h *AdminUserHandler) RegisterSettings(router fiber.Router) {
	router.Get("", h.settings)
	router.Post("", h.updateSettings)
}

// Register attaches the account routes to a group mounted at /admin/users.
// Both groups must run RequireSuperAdmin.
func (h *AdminUserHandler) Register(router fiber.Router) {
	router.Get("/new", h.newForm)
	router.Post("", h.create)
	router.Get("/:id/edit", h.editForm)
	router.Post("/:id/toggle-status", h.toggleStatus)
	router.Post("/:id/delete", h.delete)
	router.Post("/:id", h.update)
}

func (h *AdminUserHandler) settings(c *fiber.Ctx) error {
	view, err := h.service.Settings(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement des paramètres")
	}
	return utils.Render(c, fiber.StatusOK, "admin/settings", fiber.Map{
		"users":    view.Users,
		"tags":     view.Tags,
		"settings": view.Settings,
		"success":  c.Query("success"),
	})
}

func (h *AdminUserHandler) updateSettings(c *fiber.Ctx) error {
	values := map[string]string{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		values[string(key)] = string(value)
	})
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, entries := range form.Value {
			if len(entries) > 0 {
				values[key] = entries[0]
			}
		}
	}

	if err := h.service.UpdateSettings(c.UserContext(), values, requestMeta(c)); err != nil {
		if errors.Is(err, service.ErrSettingNotFound) || errors.Is(err, service.ErrSettingInvalid) {
			return utils.RenderError(c, fiber.StatusBadRequest, err.Error(), nil, false)
		}
		return h.fail(c, err, "Erreur lors de la mise à jour des paramètres")
	}
	return c.Redirect(settingsPath+"?success=settings_updated", fiber.StatusFound)
}

func (h *AdminUserHandler) newForm(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, nil, "")
}

func (h *AdminUserHandler) editForm(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return h.renderNotFound(c, userNotFoundText)
	}
	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return h.renderNotFound(c, userNotFoundText)
		}
		return h.fail(c, err, "Erreur lors du chargement du formulaire")
	}
	return h.renderForm(c, fiber.StatusOK, &user, "")
}

func (h *AdminUserHandler) create(c *fiber.Ctx) error {
	var form dto.UserForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, nil, "Requête invalide")
	}

	if _, err := h.service.Create(c.UserContext(), form, requestMeta(c)); err != nil {
		if message, ok := userErrorMessage(err); ok {
			return h.renderForm(c, fiber.StatusBadRequest, nil, message)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create user")
		return h.renderForm(c, fiber.StatusInternalServerError, nil, "Une erreur est survenue")
	}
	return c.Redirect(settingsPath, fiber.StatusFound)
}

func (h *AdminUserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return h.renderNotFound(c, userNotFoundText)
	}

	var form dto.UserForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, nil, "Requête invalide")
	}

	if _, err := h.service.Update(c.UserContext(), id, form, requestMeta(c)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return h.renderNotFound(c, userNotFoundText)
		}
		if message, ok := userErrorMessage(err); ok {
			user, getErr := h.service.Get(c.UserContext(), id)
			if getErr != nil {
				return h.fail(c, getErr, "Erreur lors de la mise à jour")
			}
			return h.renderForm(c, fiber.StatusBadRequest, &user, message)
		}
		return h.fail(c, err, "Erreur lors de la mise à jour")
	}
	return c.Redirect(settingsPath+"?success=user_updated", fiber.StatusFound)
}

func (h *AdminUserHandler) toggleStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(dto.ToggleStatusResponse{Success: false, Message: userNotFoundText})
	}

	user, err := h.service.ToggleStatus(c.UserContext(), id, requestMeta(c))
	if err != nil {
		return h.jsonFailure(c, err, "failed to toggle user status")
	}
	active := user.Active
	return c.JSON(dto.ToggleStatusResponse{Success: true, Active: &active})
}

func (h *AdminUserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(dto.ToggleStatusResponse{Success: false, Message: userNotFoundText})
	}

	if err := h.service.Delete(c.UserContext(), id, requestMeta(c)); err != nil {
		return h.jsonFailure(c, err, "failed to delete user")
	}
	return c.JSON(dto.ToggleStatusResponse{Success: true})
}

// jsonFailure answers the script-driven endpoints, which always expect a 200 JSON body.
func (h *AdminUserHandler) jsonFailure(c *fiber.Ctx, err error, logMessage string) error {
	if message, ok := userErrorMessage(err); ok {
		return c.JSON(dto.ToggleStatusResponse{Success: false, Message: message})
	}
	requestLogger(h.logger, c).Error().Err(err).Msg(logMessage)
	return c.JSON(dto.ToggleStatusResponse{Success: false, Message: genericErrorMessage})
}

func (h *AdminUserHandler) renderForm(c *fiber.Ctx, status int, user *models.User, message string) error {
	tags, err := h.service.Tags(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement du formulaire")
	}
	granted := models.DefaultPermissions.Granted()
	if user != nil {
		granted = user.Permissions.Granted()
	}
	return utils.Render(c, status, userFormView, dto.UserFormView{
		User:      user,
		Tags:      tags,
		Resources: models.Resources,
		Granted:   granted,
		Error:     strings.TrimSpace(message),
	})
}
