package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CacheInvalidator drops cached public payloads.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidateOnWrite clears the public cache after every successful POST below it.
func InvalidateOnWrite(cache CacheInvalidator, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil || c.Method() != fiber.MethodPost || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}
		if invalidateErr := cache.Invalidate(c.UserContext()); invalidateErr != nil {
			logger.Warn().Err(invalidateErr).Str("correlation_id", GetCorrelationID(c)).Msg("failed to invalidate public cache")
		}
		return nil
	}
}
