package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"notioncal/internal/config"
	"notioncal/internal/google"
	"notioncal/internal/notion"
	"notioncal/internal/syncer"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "notioncal",
		Usage: "Sync Notion tasks to Google Calendar events.",
		Commands: []*cli.Command{
			syncCommand(),
			validateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run the task-to-calendar synchronization.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "once", Usage: "Run a single sync pass and exit."},
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be synced without making changes."},
			&cli.IntFlag{Name: "watch", Value: 300, Usage: "Run a sync pass every N seconds. Overrides --once."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			if c.Bool("dry-run") {
				logger.Info("Performing a dry run. No changes will be made.")
			}

			source := notion.NewClient(logger, cfg.NotionToken, cfg.TasksDatabaseID)

			cal, err := google.NewClient(c.Context, logger, cfg.GoogleCredentials, cfg.TimezoneName)
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			s := syncer.New(logger, source, cal, cfg.CalendarMapping, cfg.Location, c.Bool("dry-run"))

			// --watch flag takes precedence
			if c.IsSet("watch") {
				interval := time.Duration(c.Int("watch")) * time.Second
				logger.Info("Starting watcher.", "interval", interval)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for ; true; <-ticker.C {
					if err := s.Sync(c.Context); err != nil {
						logger.Error("Sync pass failed", "error", err)
					}
				}
			} else { // --once is the default behavior if --watch is not set
				logger.Info("Running a single sync pass.")
				if err := s.Sync(c.Context); err != nil {
					return fmt.Errorf("sync pass failed: %w", err)
				}
			}

			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check the environment configuration without contacting remote services.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			logger.Info("Configuration is valid.",
				"database", cfg.TasksDatabaseID,
				"domains", len(cfg.CalendarMapping),
				"timezone", cfg.TimezoneName)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
