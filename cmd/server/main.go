// Package main is the entry point for the TaskMate API server.
//
// main stays minimal: it reads configuration, builds the logger, makes sure
// the database directory exists, and hands everything to internal/server.
//
// Configuration comes from an optional YAML file (CONFIG_FILE, default
// config.yaml), a .env file, and the environment. JWT_SECRET is required.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/taskmate/internal/config"
	"github.com/sakif/taskmate/internal/logging"
	"github.com/sakif/taskmate/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	// os.MkdirAll is a no-op when the directory exists, like `mkdir -p`.
	if cfg.Database.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dbDir, err)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT or SIGTERM.
	return srv.Start()
}
