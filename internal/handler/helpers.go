package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

const genericErrorMessage = "Erreur serveur"

// pages carries what every page handler needs to report failures.
type pages struct {
	logger       zerolog.Logger
	exposeErrors bool
}

func newPages(logger zerolog.Logger, component string, exposeErrors bool) pages {
	return pages{
		logger:       logger.With().Str("component", component).Logger(),
		exposeErrors: exposeErrors,
	}
}

// fail logs err and renders the generic 500 view.
func (p pages) fail(c *fiber.Ctx, err error, msg string) error {
	requestLogger(p.logger, c).Error().Err(err).Msg(msg)
	return utils.RenderError(c, fiber.StatusInternalServerError, msg, err, p.exposeErrors)
}

func (p pages) renderNotFound(c *fiber.Ctx, msg string) error {
	return utils.RenderError(c, fiber.StatusNotFound, msg, nil, false)
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	if raw == "" {
		return 0, errors.New("missing identifier")
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// requestMeta describes who is acting and from where, for the audit trail.
func requestMeta(c *fiber.Ctx) service.RequestMeta {
	meta := service.RequestMeta{
		IPAddress: middleware.ClientIP(c),
		UserAgent: strings.TrimSpace(c.Get(fiber.HeaderUserAgent)),
	}
	if meta.UserAgent == "" {
		meta.UserAgent = "unknown"
	}
	if identity, ok := middleware.CurrentIdentity(c); ok {
		meta.UserID = identity.UserID
		meta.Username = identity.Username
	}
	return meta
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// isBadInput reports errors caused by what the user submitted.
func isBadInput(err error) bool {
	var parseErr *time.ParseError
	return isValidationError(err) ||
		errors.As(err, &parseErr) ||
		errors.Is(err, service.ErrImageTypeNotAllowed) ||
		errors.Is(err, service.ErrTooManyImages) ||
		errors.Is(err, service.ErrImageTooLarge) ||
		errors.Is(err, service.ErrTaxonomyLabelRequired)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fields := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields = append(fields, strings.ToLower(fieldErr.Field()))
		}
		return "Champs invalides : " + strings.Join(fields, ", ")
	}
	if err == nil {
		return "Requête invalide"
	}
	return err.Error()
}

// formFiles returns the uploads of field, or nil for urlencoded bodies.
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
