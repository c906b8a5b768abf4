package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aurawall/aurawall-api/internal/classifier"
	"github.com/aurawall/aurawall-api/internal/config"
	"github.com/aurawall/aurawall-api/internal/database"
	"github.com/aurawall/aurawall-api/internal/handlers"
	"github.com/aurawall/aurawall-api/internal/hub"
	"github.com/aurawall/aurawall-api/internal/middleware"
	"github.com/aurawall/aurawall-api/internal/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	app := fiber.New(fiber.Config{
		AppName:      "AuraWall API",
		ServerHeader: "AuraWall",
	})
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log))

	db, err := database.Connect(cfg.DatabaseURL)
	if err == nil {
		err = database.Migrate(db)
	}
	if err != nil {
		// A broken store configuration must not crash the installation:
		// serve the blocking configuration-error state instead of any view.
		log.Error("store unavailable, entering config-error mode", zap.Error(err))
		app.Use(handlers.ConfigError(err))
		log.Fatal("server stopped", zap.Error(app.Listen(":"+cfg.Port)))
	}

	handlers.InitMetrics()
	app.Use(handlers.MetricsMiddleware())

	liveHub := hub.New(log)
	sentiment := classifier.New(cfg.SentimentAPIKey, cfg.SentimentBaseURL, cfg.SentimentModel, log)

	routes.Setup(app, routes.Deps{
		Auth:     handlers.NewAuthHandler(db, cfg.JWTSecret, log),
		Messages: handlers.NewMessageHandler(db, liveHub, sentiment, log),
		Likes:    handlers.NewLikeHandler(db, liveHub, log),
		Settings: handlers.NewSettingsHandler(db, liveHub, log),
		Stats:    handlers.NewStatsHandler(db, log),
		Socket:   handlers.NewSocketHandler(db, liveHub, cfg.JWTSecret, log),
		Secret:   cfg.JWTSecret,
	})

	log.Info("AuraWall backend starting", zap.String("port", cfg.Port))
	log.Fatal("server stopped", zap.Error(app.Listen(":"+cfg.Port)))
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
