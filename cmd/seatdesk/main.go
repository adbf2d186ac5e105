package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/apiclient"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/console"
	"github.com/stemsi/seatdesk/internal/logger"
	"github.com/stemsi/seatdesk/internal/response"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Logs go to stderr so they never interleave with prompts.
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log.Info().
		Str("server", cfg.ServerURL).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SeatDesk console")

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}

	// ─── Initialize Client ─────────────────────────────────────────────
	api, err := apiclient.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// The first signal cancels the open prompt and runs cleanup. A
		// second one kills the process.
		<-ctx.Done()
		stop()
	}()

	prompt := console.NewTerminal(ctx, os.Stdin, os.Stdout)

	// ─── Sign In ───────────────────────────────────────────────────────
	if err := login(ctx, api, cfg, prompt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", response.DisplayOf(err))
		os.Exit(1)
	}

	// ─── Run Dashboard ─────────────────────────────────────────────────
	dash := console.NewDashboardPage(console.Deps{
		Config:  cfg,
		Catalog: catalog,
		API:     api,
		Prompt:  prompt,
		Out:     os.Stdout,
		Log:     log,
	})

	runErr := dash.Run(ctx)
	dash.Close()

	// Best effort: the session ends with the process anyway.
	logoutCtx, cancel := context.WithTimeout(context.Background(), cfg.AbandonTimeout)
	defer cancel()
	if err := api.Logout(logoutCtx); err != nil {
		log.Debug().Err(err).Msg("Logout not delivered")
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, io.EOF) {
		log.Error().Err(runErr).Msg("Console stopped")
		os.Exit(1)
	}
	log.Info().Msg("Goodbye")
}

// login signs in with the configured credentials, prompting for whatever is
// missing.
func login(ctx context.Context, api *apiclient.Client, cfg *config.Config, prompt console.Prompter) error {
	username := cfg.Username
	if username == "" {
		var err error
		if username, err = prompt.Ask("Username: "); err != nil {
			return err
		}
	}
	password := cfg.Password
	if password == "" {
		var err error
		if password, err = prompt.Secret("Password: "); err != nil {
			return err
		}
	}

	loginCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	return api.Login(loginCtx, username, password)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
