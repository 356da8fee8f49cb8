package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverer "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Kenyi45/seventec-reto/bootstrap"
	"github.com/Kenyi45/seventec-reto/configs"
	"github.com/Kenyi45/seventec-reto/database"
	"github.com/Kenyi45/seventec-reto/internal/handlers"
	"github.com/Kenyi45/seventec-reto/internal/notify"
	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/internal/routes"
	"github.com/Kenyi45/seventec-reto/services"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Printf("disconnect: %v", err)
		}
	}()

	db := client.Database(cfg.DBName)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("indexes: %v", err)
	}
	cancel()

	stores := repository.NewMongoStores(db)

	var sender notify.Sender = notify.LogSender{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := notify.NewFCMSender(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		sender = fcm
	}
	dispatcher := notify.NewDispatcher(sender, stores.Users, cfg.NotifyQueueSize)
	dispatcher.Start()
	defer dispatcher.Close()

	authSvc := services.NewAuthService(stores.Users, cfg.JWTSecret, cfg.JWTExpiration)
	postSvc := services.NewPostService(stores, dispatcher)
	storySvc := services.NewStoryService(stores, dispatcher)

	app := fiber.New(fiber.Config{AppName: "seventec-reto"})
	app.Use(recoverer.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, routes.Deps{
		AuthSvc: authSvc,
		Auth:    handlers.NewAuthHandler(authSvc),
		Posts:   handlers.NewPostHandler(postSvc),
		Stories: handlers.NewStoryHandler(storySvc),
	})

	sweepDone := startStorySweep(storySvc, cfg.StorySweepInterval)
	defer close(sweepDone)

	// The listen error comes back over a channel so a failed bind still
	// unwinds through the deferred dispatcher drain and Mongo disconnect.
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		log.Printf("listen: %v", err)
	case <-quit:
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// startStorySweep removes expired stories on a fixed interval until the
// returned channel is closed. Each run is idempotent, so an overlapping
// or repeated sweep is harmless.
func startStorySweep(stories *services.StoryService, interval time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				n, err := stories.PurgeExpired(ctx)
				cancel()
				if err != nil {
					log.Printf("story sweep: %v", err)
				} else if n > 0 {
					log.Printf("story sweep: purged %d expired stories", n)
				}
			}
		}
	}()
	return done
}
