package main

import (
	"context"
	"os"

	"github.com/desertthunder/lipl/internal/repositories"
	"github.com/desertthunder/lipl/internal/shared"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database schema and optional credentials",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "user",
				Usage: "Create or update a credential row with this username",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Password for --user",
			},
		},
		Action: r.Setup,
	}
}

// Setup bootstraps the schema, refreshes the aggregate list tokens and
// optionally stores a credential row.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
	}
	config := r.loadConfig(cmd)

	r.logger.Info("initializing database", "driver", config.Database.Driver, "path", config.Database.Path)
	conn, err := repositories.OpenWithBootstrap(config.Database, r.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.RefreshListTokens(ctx); err != nil {
		return err
	}

	if username := cmd.String("user"); username != "" {
		user, err := conn.UpsertUser(ctx, username, cmd.String("password"))
		if err != nil {
			return err
		}
		r.logger.Info("credential stored", "user", user.Name, "id", user.ID)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}
