package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/mosquee-go/internal/observability"
)

// LoginRateLimitMessage is shown once the login limiter trips.
const LoginRateLimitMessage = "Trop de tentatives de connexion. Veuillez réessayer dans 15 minutes."

// RateLimit caps requests per session user, or per client IP for anonymous callers.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := fmt.Sprintf("%v", c.Locals("user_id"))
			if userID == "" || userID == "0" || userID == "<nil>" {
				userID = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, userID)
		},
	})
}

// LoginRateLimit caps login submissions per source IP. The key is c.IP(), which only
// honours a proxy header when the app trusts the sending proxy.
func LoginRateLimit(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			observability.LoginAttempts().WithLabelValues("rate_limited").Inc()
			return c.Status(fiber.StatusTooManyRequests).SendString(LoginRateLimitMessage)
		},
	})
}

// TrustProxies makes c.IP() read X-Forwarded-For, but only for requests arriving
// from one of proxies. With no proxies the socket address is always used.
func TrustProxies(cfg *fiber.Config, proxies []string) {
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = proxies
	if len(proxies) > 0 {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.EnableIPValidation = true
	}
}

// ClientIP prefers the first X-Forwarded-For entry, then the socket address.
// It is client controlled and only fit for audit metadata.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(c.IP()); ip != "" {
		return ip
	}
	return "unknown"
}
