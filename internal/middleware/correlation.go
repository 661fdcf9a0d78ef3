package middleware

import (
	"context"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	legacyCorrelationHeader = "X-Correlation-ID"
	correlationLocal        = "correlation_id"
	maxRequestIDLength      = 128
)

type correlationKey struct{}

// CorrelationID tags every request with an identifier, reusing a well-formed one sent by a proxy.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := cleanRequestID(c.Get(RequestIDHeader))
		if id == "" {
			id = cleanRequestID(c.Get(legacyCorrelationHeader))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(correlationLocal, id)
		c.Set(RequestIDHeader, id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationKey{}, id))
		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(correlationLocal).(string); ok {
		return id
	}
	id, _ := c.UserContext().Value(correlationKey{}).(string)
	return id
}

// cleanRequestID drops identifiers that are too long or carry control characters, so they can be
// logged verbatim.
func cleanRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for _, r := range id {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return ""
		}
	}
	return id
}
