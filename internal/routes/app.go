package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

type AppOptions struct {
	CORSOrigins        string
	RateLimitPerMinute int
	Log                *zap.Logger
}

// NewApp builds the Fiber app with the shared middleware stack.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "selfcare-api",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			msg := "Internal server error"
			if code < fiber.StatusInternalServerError && fe != nil {
				msg = fe.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": msg})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(opts.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions,
		}, ","),
	}))
	if opts.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitPerMinute,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz" || c.Path() == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests",
				})
			},
		}))
	}
	return app
}
