package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDReusesOrGenerates(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetCorrelationID(c))
	})

	cases := []struct {
		name   string
		header string
		value  string
		reuse  bool
	}{
		{"request id", RequestIDHeader, "req-42", true},
		{"legacy header", legacyCorrelationHeader, "corr-7", true},
		{"control characters", RequestIDHeader, "bad\x00id", false},
		{"too long", RequestIDHeader, strings.Repeat("a", maxRequestIDLength+1), false},
		{"absent", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			echoed := resp.Header.Get(RequestIDHeader)
			if tc.reuse {
				require.Equal(t, tc.value, echoed)
				return
			}
			_, parseErr := uuid.Parse(echoed)
			require.NoError(t, parseErr)
		})
	}
}
