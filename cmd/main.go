package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/UdayIge/User-Management-System/internal/config"
	"github.com/UdayIge/User-Management-System/internal/database"
	"github.com/UdayIge/User-Management-System/internal/handlers"
	"github.com/UdayIge/User-Management-System/internal/logger"
	"github.com/UdayIge/User-Management-System/internal/metrics"
	"github.com/UdayIge/User-Management-System/internal/middleware"
	"github.com/UdayIge/User-Management-System/internal/repository"
	"github.com/UdayIge/User-Management-System/internal/routes"
	"github.com/UdayIge/User-Management-System/internal/service"
	"github.com/UdayIge/User-Management-System/internal/storage"
	"github.com/UdayIge/User-Management-System/internal/validation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(err)
	}
	dev := cfg.App.Env == "development"

	log, err := logger.New(dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Mongo: one explicitly-initialized connection handle for the process,
	// handed to the repository rather than a module-level flag.
	db, client, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, log)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}

	repo, err := repository.NewMongoUserRepo(db, cfg.Mongo.Collection)
	if err != nil {
		log.Warnf("building user indexes: %v", err)
	}
	rules := validation.New()
	svc := service.NewUserService(repo, rules, log)

	var store storage.Store
	switch cfg.Storage.Driver {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.Storage.Region, cfg.Storage.Bucket)
	default:
		store, err = storage.NewLocalStore(cfg.Storage.LocalDir)
	}
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	h := handlers.NewUserHandler(svc, store, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    storage.MaxUploadSize + 1024*1024,
		ErrorHandler: handlers.NewErrorHandler(dev, log),
	})
	app.Use(middleware.Recovery(log))
	app.Use(middleware.RequestLogger(log))
	app.Use(metrics.Middleware())
	app.Use(middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, log).Handler())
	if cfg.Storage.Driver == "local" {
		app.Static("/uploads", cfg.Storage.LocalDir)
	}
	routes.Register(app, h)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Infof("starting user management service on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutdown requested")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = app.Shutdown()
	_ = client.Disconnect(timeoutCtx)
	log.Info("shutdown completed")
}
