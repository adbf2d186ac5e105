package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/logger"
	"github.com/stemsi/seatdesk/internal/stubserver"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if !term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprintln(os.Stderr, "Error: run this from an interactive terminal")
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "=== Hash Stub Admin Password ===")

	// Password
	fmt.Fprint(os.Stderr, "Enter Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // Newline after password input
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if len(first) < 6 {
		fmt.Fprintln(os.Stderr, "Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Repeat Password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if string(first) != string(second) {
		fmt.Fprintln(os.Stderr, "Error: Passwords do not match")
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := stubserver.HashPassword(string(first), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	fmt.Printf("STUB_ADMIN_PASSWORD_HASH=%s\n", hash)
}
