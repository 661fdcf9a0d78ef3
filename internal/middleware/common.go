package middleware

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger       *zerolog.Logger
	AllowOrigins string
	// AccessLog adds fiber's plain access log on top of the structured back-office log.
	AccessLog bool
}

// Register installs the site-wide middleware chain. Order matters: the request id must exist
// before anything logs, and panics are caught first so the error handler still renders.
func Register(app *fiber.App, cfg Config) {
	base := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		base = *cfg.Logger
	}

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.AccessLog}))
	app.Use(CorrelationID())
	app.Use(helmet.New(helmet.Config{
		XFrameOptions:  "SAMEORIGIN",
		ReferrerPolicy: "same-origin",
	}))
	app.Use(Observability(base.With().Str("component", "http").Logger()))
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} ${respHeader:" + RequestIDHeader + "}\n",
		}))
	}

	origins := strings.TrimSpace(cfg.AllowOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET,POST,OPTIONS",
		ExposeHeaders: RequestIDHeader,
	}))
}
