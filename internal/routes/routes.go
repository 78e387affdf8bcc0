package routes

import (
	"github.com/arnold/selfcare-api/internal/handlers"
	"github.com/arnold/selfcare-api/internal/middleware"
	"github.com/arnold/selfcare-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret  string
	Users      store.UserStore
	Log        *zap.Logger
	UploadsDir string
}

func Setup(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if opts.UploadsDir != "" {
		app.Static("/uploads", opts.UploadsDir)
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(opts.JWTSecret, opts.Users, opts.Log))

	protected.Get("/me", h.GetMe)
	protected.Post("/me/avatar", h.UploadProfileImage)

	// Device token for push notifications
	protected.Post("/device-token", h.RegisterDeviceToken)

	selfcare := protected.Group("/selfcare")
	selfcare.Get("/", h.ListActivities)
	selfcare.Post("/", h.CreateActivity)
	selfcare.Get("/summary", h.GetSummary)
	selfcare.Get("/:id", h.GetActivity)
	selfcare.Put("/:id", h.UpdateActivity)
	selfcare.Post("/:id/complete", h.CompleteActivity)
	selfcare.Delete("/:id", h.DeleteActivity)

	// WebSocket for live activity updates
	app.Use("/ws", h.WebSocketUpgrade())
	app.Get("/ws/selfcare", websocket.New(h.HandleWebSocket))
}
