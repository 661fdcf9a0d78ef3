package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/middleware"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// ErrorHandler renders errors that escape the handlers as the error view.
func ErrorHandler(logger zerolog.Logger, exposeErrors bool) fiber.ErrorHandler {
	logger = logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Une erreur est survenue"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error().Err(err).
				Str("correlation_id", middleware.GetCorrelationID(c)).
				Str("path", c.Path()).
				Msg("unhandled request error")
		}

		return utils.RenderError(c, status, message, err, exposeErrors && status >= fiber.StatusInternalServerError)
	}
}
