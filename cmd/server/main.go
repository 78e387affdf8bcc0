package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/selfcare-api/internal/config"
	"github.com/arnold/selfcare-api/internal/database"
	"github.com/arnold/selfcare-api/internal/handlers"
	"github.com/arnold/selfcare-api/internal/logging"
	"github.com/arnold/selfcare-api/internal/routes"
	"github.com/arnold/selfcare-api/internal/services"
	"github.com/arnold/selfcare-api/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := store.NewUsers(db)
	h := handlers.New(handlers.Deps{
		Activities: store.NewActivities(db),
		Users:      users,
		Push:       services.InitPush(ctx, cfg.FCMServiceAccount, logger),
		Log:        logger,
		Location:   cfg.Location(),
		JWTSecret:  cfg.JWTSecret,
		JWTTTL:     cfg.JWTTTL,
		UploadsDir: cfg.UploadsDir,
	})

	app := routes.NewApp(routes.AppOptions{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Log:                logger,
	})
	routes.Setup(app, h, routes.Options{
		JWTSecret:  cfg.JWTSecret,
		Users:      users,
		Log:        logger,
		UploadsDir: cfg.UploadsDir,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
