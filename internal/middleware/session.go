package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionRoleKey     = "role"
)

// SessionConfig configures the server-side session store.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Storage    fiber.Storage
}

// SessionIdentity is what a logged-in session carries.
type SessionIdentity struct {
	UserID   uint
	Username string
	Role     string
}

// NewSessionStore builds a cookie-keyed session store: http-only, SameSite=Strict, secure when asked.
func NewSessionStore(cfg SessionConfig) *session.Store {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = "mosquee_sid"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return session.New(session.Config{
		Expiration:     ttl,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + name,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteStrictMode,
		CookieSecure:   cfg.Secure,
		CookiePath:     "/",
	})
}

// StartSession rotates the session id and binds identity to it.
func StartSession(c *fiber.Ctx, store *session.Store, identity SessionIdentity) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserIDKey, identity.UserID)
	sess.Set(sessionUsernameKey, identity.Username)
	sess.Set(sessionRoleKey, identity.Role)
	return sess.Save()
}

// EndSession destroys the current session.
func EndSession(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// Session loads the session identity into request locals. It never rejects a request.
func Session(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}

		userID, err := normalizeUserID(sess.Get(sessionUserIDKey))
		if err != nil || userID == 0 {
			return c.Next()
		}

		c.Locals("user_id", userID)
		if username, ok := sess.Get(sessionUsernameKey).(string); ok {
			c.Locals("username", username)
		}
		if role, ok := sess.Get(sessionRoleKey).(string); ok {
			c.Locals("user_role", strings.ToLower(strings.TrimSpace(role)))
		}
		return c.Next()
	}
}

// CurrentIdentity returns the identity loaded by Session.
func CurrentIdentity(c *fiber.Ctx) (SessionIdentity, bool) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok || userID == 0 {
		return SessionIdentity{}, false
	}
	identity := SessionIdentity{UserID: userID}
	identity.Username, _ = c.Locals("username").(string)
	identity.Role, _ = c.Locals("user_role").(string)
	return identity, true
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case uint:
		return v, nil
	case uint64:
		return uint(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid user id")
		}
		return uint(v), nil
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid user id")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case nil:
		return 0, fmt.Errorf("no user id")
	default:
		return 0, fmt.Errorf("unsupported user id type %T", value)
	}
}
