package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/aurawall/aurawall-api/internal/handlers"
	"github.com/aurawall/aurawall-api/internal/middleware"
)

// Deps bundles the constructed handlers for route wiring.
type Deps struct {
	Auth     *handlers.AuthHandler
	Messages *handlers.MessageHandler
	Likes    *handlers.LikeHandler
	Settings *handlers.SettingsHandler
	Stats    *handlers.StatsHandler
	Socket   *handlers.SocketHandler
	Secret   string
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/health", handlers.Health)
	app.Get("/metrics", handlers.MetricsHandler())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/anonymous", d.Auth.Anonymous)

	// Reads are public: the display wall and input view never hold a token
	// for reading.
	api.Get("/settings", d.Settings.Get)
	api.Get("/messages", d.Messages.List)
	api.Get("/messages/export", d.Messages.Export)
	api.Get("/stats/mood", d.Stats.Mood)

	// Writes require a resolved anonymous identity.
	protected := api.Group("/", middleware.Protected(d.Secret))
	protected.Post("/messages", d.Messages.Create)
	protected.Post("/messages/:id/like", d.Likes.Toggle)
	protected.Get("/likes", d.Likes.Index)

	// Admin panel operations. Same anonymous identity model; the
	// installation has no privileged auth tier. Destructive confirmation
	// is a client concern.
	protected.Put("/settings", d.Settings.Update)
	protected.Delete("/messages/:id", d.Messages.Delete)
	protected.Delete("/messages", d.Messages.Clear)

	// Live subscriptions: settings, messages, likes.
	app.Use("/ws", d.Socket.Upgrade())
	app.Get("/ws/:stream", websocket.New(d.Socket.Serve))
}
