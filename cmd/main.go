package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixx/internal/repositories"
	"github.com/desertthunder/flixx/internal/services"
	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if level, err := shared.ParseLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	var store SessionStore
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("session store unavailable", "path", config.Database.Path, "error", err)
	} else {
		defer db.Close()
		store = newStore(db, logger)
	}

	httpClient := services.NewHTTPClient(config.API.Timeout())
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        services.NewAPIService(config.API.BaseURL, httpClient),
		Store:      store,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := newApp(runner)
	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Error("application error", "error", err)
		if db != nil {
			db.Close()
		}
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "flixx",
		Usage:    "Browse and prune your Flixxit watchlist from the terminal",
		Version:  "0.1.0",
		Writer:   r.output,
		Commands: r.register(),
	}
}

func newStore(db *sql.DB, logger *log.Logger) *session.Store {
	return session.NewStore(repositories.NewSessionRepository(db), shared.WithLogger(logger, "component", "session"))
}
