package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mido/loan-service/internal/cli"
	"github.com/mido/loan-service/internal/config"
	"github.com/mido/loan-service/internal/db"
	"github.com/mido/loan-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Structured logs would interleave with the menu; keep them out of
	// the terminal unless debugging.
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if cfg.Logger.Level == "debug" {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	term := cli.NewANSITerminal(os.Stdin, os.Stdout)

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to apply database schema: %v\n", err)
		os.Exit(1)
	}

	accountService := service.NewAccountService(database)
	if err := accountService.EnsureAdmin(ctx, cfg.Auth.SeedAdminPassword); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ensure admin account: %v\n", err)
		os.Exit(1)
	}

	session := cli.NewSession(term, accountService, service.NewLoanService(database))
	if err := session.Run(ctx); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "session ended: %v\n", err)
		os.Exit(1)
	}
}
