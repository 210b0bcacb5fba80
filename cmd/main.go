package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lipl/internal/shared"
	"github.com/urfave/cli/v3"
)

// resolveConfig loads the config file at path when it exists, warning and
// falling back to the defaults when it cannot be parsed.
func resolveConfig(path string, logger *log.Logger) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig()
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}
	return config
}

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Config: resolveConfig("config.toml", logger),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "lipl",
		Usage:    "Store song lyrics and ordered playlists behind a small HTTP API",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
