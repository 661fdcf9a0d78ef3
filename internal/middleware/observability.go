package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/observability"
)

// Observability records metrics and one structured log line per back-office request.
// Public pages are neither counted nor logged here.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		if !isAdminPath(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		recordAdminRequest(c, logger, time.Since(start))
		return err
	}
}

func recordAdminRequest(c *fiber.Ctx, logger zerolog.Logger, elapsed time.Duration) {
	route := routeTemplate(c)
	method := c.Method()
	status := c.Response().StatusCode()
	code := strconv.Itoa(status)

	observability.AdminRequests().WithLabelValues(method, route, code).Inc()
	observability.AdminLatency().WithLabelValues(method, route).Observe(elapsed.Seconds())

	var event *zerolog.Event
	switch {
	case status >= fiber.StatusInternalServerError:
		observability.AdminErrors().WithLabelValues(method, route, code).Inc()
		event = logger.Error()
	case status >= fiber.StatusBadRequest:
		observability.AdminErrors().WithLabelValues(method, route, code).Inc()
		event = logger.Warn()
	default:
		event = logger.Info()
	}

	event = event.
		Str("correlation_id", GetCorrelationID(c)).
		Str("method", method).
		Str("route", route).
		Int("status", status).
		Float64("latency_ms", float64(elapsed)/float64(time.Millisecond))
	if identity, ok := CurrentIdentity(c); ok {
		event = event.Uint("user_id", identity.UserID).Str("username", identity.Username)
	}

	switch {
	case status >= fiber.StatusInternalServerError:
		event.Msg("back-office request failed")
	case status >= fiber.StatusBadRequest:
		event.Msg("back-office request rejected")
	default:
		event.Msg("back-office request served")
	}
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// routeTemplate prefers the registered pattern so ids do not explode label cardinality.
func routeTemplate(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}
