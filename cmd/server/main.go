package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/content-publishing-api/internal/api"
	"github.com/content-publishing-api/internal/auth"
	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/database"
	"github.com/content-publishing-api/internal/filestore"
	"github.com/content-publishing-api/internal/repository"
	"github.com/content-publishing-api/internal/service"
	"github.com/content-publishing-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().Msg("Starting Content Publishing API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)
	checks := []api.HealthCheck{{Name: "postgres", Check: db.HealthCheck}}

	if cfg.Content.ViewStore == config.ViewStoreMongo {
		m, err := database.NewMongo(&cfg.Mongo, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer m.Close()

		repos.ViewEvent = repository.NewMongoViewEventRepo(m.Visitor)
		checks = append(checks, api.HealthCheck{Name: "mongo", Check: m.HealthCheck})
	}

	// Initialize collaborators
	var readCache *cache.Cache
	if cfg.Cache.Enabled {
		readCache = cache.New(cfg.Cache.TTL)
	}

	files, err := filestore.New(context.Background(), &cfg.Files)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Files.Backend).Msg("Failed to initialize file store")
	}

	// Initialize services
	services := service.NewServices(repos, cfg, log, service.Options{
		Cache: readCache,
		Files: files,
	})
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize router
	router := api.NewRouter(services, tokens, cfg, log, checks...)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("view_store", cfg.Content.ViewStore).
			Str("tag_scope", cfg.Content.TagScope).
			Bool("cache", cfg.Cache.Enabled).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
