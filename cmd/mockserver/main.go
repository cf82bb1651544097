package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmhbrian/qldt-go/internal/config"
	"github.com/hmhbrian/qldt-go/internal/logger"
	"github.com/hmhbrian/qldt-go/internal/mockapi"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.MockPort).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QLDT mock API server")

	// ─── Build Store and Router ────────────────────────────────────────
	store := mockapi.NewStore()
	tokens := mockapi.NewTokenService(cfg)
	if err := mockapi.Seed(store, tokens); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed mock data")
	}
	log.Info().
		Str("admin", mockapi.SeedAdminEmail).
		Str("learner", mockapi.SeedLearnerEmail).
		Msg("Seeded demo accounts")

	srv := &http.Server{
		Addr:    ":" + cfg.MockPort,
		Handler: mockapi.NewRouter(cfg, store, tokens),
	}

	// ─── Serve with Graceful Shutdown ──────────────────────────────────
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
