package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/logger"
	"github.com/stemsi/seatdesk/internal/stubserver"
	"github.com/stemsi/seatdesk/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, nil)
	log.Info().
		Str("port", cfg.StubPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SeatDesk stub server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Initialize Store ──────────────────────────────────────────────
	store := stubserver.NewStore()
	if cfg.FixturesPath != "" {
		fx, err := stubserver.LoadFixtures(cfg.FixturesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.FixturesPath).Msg("Failed to load fixtures")
		}
		if err := store.Seed(fx); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed fixtures")
		}
		log.Info().Int("files", len(fx.Files)).Int("exams", len(fx.Exams)).Msg("Fixtures loaded")
	}

	auth, err := stubserver.NewAuth(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare admin account")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn().Str("username", cfg.AdminUsername).Msg("Using plaintext STUB_ADMIN_PASSWORD; set STUB_ADMIN_PASSWORD_HASH instead")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	handlers := stubserver.NewHandlers(cfg, store, auth, log)
	r := stubserver.SetupRouter(auth, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.StubPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.StubPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
