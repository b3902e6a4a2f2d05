package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/civicresolve/backend/internal/blob"
	"github.com/civicresolve/backend/internal/bootstrap"
	"github.com/civicresolve/backend/internal/config"
	httpapi "github.com/civicresolve/backend/internal/http"
	"github.com/civicresolve/backend/internal/seed"
	"github.com/civicresolve/backend/internal/service"
	"github.com/civicresolve/backend/internal/voteguard"
)

// @title CivicResolve API
// @version 1.0
// @description Civic complaint intake, lifecycle tracking and contractor accountability
// @BasePath /
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "civic-backend").Logger()

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed file")
	}
	if n, err := seed.ApplyContractors(ctx, store, data); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed contractors")
	} else {
		logger.Info().Int("contractors", n).Int("road_projects", len(data.RoadProjects)).Msg("seed data loaded")
	}

	uploads, err := blob.NewLocalStore(cfg.UploadDir, logger.With().Str("component", "uploads").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload dir")
	}

	complaints := &service.ComplaintService{
		Complaints:        store,
		Contractors:       store,
		Analyzer:          bootstrap.Analyzer(cfg, logger),
		Blobs:             uploads,
		Geocoder:          bootstrap.Geocoder(cfg),
		Logger:            logger.With().Str("component", "lifecycle").Logger(),
		StrictTransitions: cfg.StrictTransitions,
	}
	if cfg.RedisURL != "" {
		guard, err := voteguard.New(ctx, cfg.RedisURL, cfg.VoteGuardTTL)
		if err != nil {
			logger.Warn().Err(err).Msg("vote guard disabled")
		} else {
			defer guard.Close()
			complaints.VoteGuard = guard
		}
	}

	router := httpapi.Router(cfg, httpapi.App{
		Store:        store,
		Complaints:   complaints,
		RoadProjects: data.RoadProjects,
		Uploads:      uploads,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("db_driver", cfg.DBDriver).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
