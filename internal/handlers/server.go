package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/config"
)

const appName = "fithub-backend"

// NewServer builds the fiber app with the middleware chain. A nil storage
// keeps limiter counters in memory.
func NewServer(cfg *config.Config, storage fiber.Storage, log zerolog.Logger) *fiber.App {
	SetProblemBaseURL(cfg.Server.ProblemBaseURL)

	app := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())  // panics become 500 problems
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(compress.New())
	app.Use(logger.New(logger.Config{
		Format: "${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log,
	}))
	app.Use(limiter.New(limiter.Config{
		Next:       func(c *fiber.Ctx) bool { return c.Path() == "/health" },
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Expiration,
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, try again later")
		},
	}))
	app.Use(etag.New())

	return app
}
