package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mosquee-go/internal/i18n"
)

// LanguageCookie stores the visitor's language choice.
const LanguageCookie = "lang"

// Locale exposes the active language code as "lang" and its table as "t".
func Locale(catalog *i18n.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToLower(strings.TrimSpace(c.Cookies(LanguageCookie)))
		if !catalog.Supports(code) {
			code = catalog.Default()
		}
		c.Locals("lang", code)
		c.Locals("t", catalog.Lookup(code))
		return c.Next()
	}
}

// Translate reads one entry of the active table, or "" when none is loaded.
func Translate(c *fiber.Ctx, section, key string) string {
	table, ok := c.Locals("t").(i18n.Table)
	if !ok {
		return ""
	}
	var entries map[string]string
	switch section {
	case "nav":
		entries = table.Nav
	case "common":
		entries = table.Common
	case "errors":
		entries = table.Errors
	}
	return entries[key]
}
