package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/availability"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/calendar"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/hangout"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/mcp"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/profile"
	"github.com/felixgeelhaar/rendezvous/adapter/cli/suggest"
	"github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
	"github.com/felixgeelhaar/rendezvous/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.LogConfigFor(os.Getenv("APP_ENV"), "warn", "rendezvous"))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", DatabaseDriver: "sqlite"}
	}

	// Interactive commands stay quiet unless debug logging is asked for.
	if cfg.LogLevel == "debug" {
		logger = observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, "rendezvous"))
	}
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container, commands that need storage will fail", "error", err)
	} else {
		defer container.Close()

		// Proposed times reach the notification service through the outbox.
		if cfg.OutboxProcessorEnabled {
			container.OutboxProcessor.Start(ctx)
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid RENDEZVOUS_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp = cli.NewApp(container, userID)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(availability.Cmd)
	cli.AddCommand(suggest.Cmd)
	cli.AddCommand(hangout.Cmd)
	cli.AddCommand(profile.Cmd)
	cli.AddCommand(calendar.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute()
}
