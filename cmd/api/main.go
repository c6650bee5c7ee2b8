//	@title			Media Upload Relay API
//	@version		1.0
//	@description	Validates image uploads and relays them to the media server.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/radif/mediarelay/internal/config"
	"github.com/radif/mediarelay/internal/db"
	"github.com/radif/mediarelay/internal/journal"
	"github.com/radif/mediarelay/internal/media"
	appMiddleware "github.com/radif/mediarelay/internal/middleware"
	"github.com/radif/mediarelay/internal/relay"
	"github.com/radif/mediarelay/pkg/logger"

	_ "github.com/radif/mediarelay/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("configuration invalid")
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		logger.UseJSON()
	}

	uploader := media.NewUploader(cfg.Endpoint(),
		media.WithLogger(logger.Log.With().Str("component", "uploader").Logger()),
	)

	// Journal is optional; a nil interface disables it in the handler.
	var attempts relay.Journal
	if cfg.JournalEnabled() {
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()

		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Log.Fatal().Err(err).Msg("database migration failed")
		}
		attempts = journal.NewService(journal.NewRepository(pool))
	}

	relayHandler := relay.NewHandler(uploader, attempts, "")

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
		r.Post("/upload/{group}", relayHandler.Upload)
		r.Get("/uploads", relayHandler.ListUploads)
	})

	// Write timeout covers the 30s forward plus spooling of a 100MB body.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("media_base_url", cfg.MediaBaseURL).
			Bool("journal", cfg.JournalEnabled()).
			Bool("auth", cfg.JWTSecret != "").
			Msg("relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	logger.Log.Info().Msg("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Log.Info().Msg("server stopped")
}
