package handler

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mosquee-go/internal/i18n"
	"github.com/noah-isme/mosquee-go/internal/middleware"
)

const languageCookieTTL = 365 * 24 * time.Hour

// LocaleHandler switches the visitor's language.
type LocaleHandler struct {
	catalog *i18n.Catalog
	secure  bool
}

// NewLocaleHandler constructs the handler.
func NewLocaleHandler(catalog *i18n.Catalog, secure bool) *LocaleHandler {
	return &LocaleHandler{catalog: catalog, secure: secure}
}

// Register attaches routes.
func (h *LocaleHandler) Register(router fiber.Router) {
	router.Get("/lang/:code", h.switchLanguage)
}

func (h *LocaleHandler) switchLanguage(c *fiber.Ctx) error {
	code := strings.ToLower(strings.TrimSpace(c.Params("code")))
	if !h.catalog.Supports(code) {
		code = h.catalog.Default()
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.LanguageCookie,
		Value:    code,
		Path:     "/",
		Expires:  time.Now().Add(languageCookieTTL),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(backTarget(c), fiber.StatusFound)
}

// backTarget returns the same-origin referer path, or the home page.
func backTarget(c *fiber.Ctx) string {
	referer := strings.TrimSpace(c.Get(fiber.HeaderReferer))
	if referer == "" {
		return "/"
	}
	parsed, err := url.Parse(referer)
	if err != nil || (parsed.Host != "" && parsed.Host != c.Hostname()) {
		return "/"
	}
	target := parsed.EscapedPath()
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	return target
}
