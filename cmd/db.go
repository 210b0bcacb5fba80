package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/lipl/internal/formatter"
	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/shared"
	"github.com/urfave/cli/v3"
)

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the whole store as a snapshot",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default stdout)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: json, csv or md",
				Value: "json",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Export,
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Replace the whole store from a JSON snapshot",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{configFlag()},
		Action: r.Import,
	}
}

// Export snapshots the store in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	conn, err := r.connect(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	db, err := conn.ExportDb(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	switch format := cmd.String("format"); format {
	case "json":
		if cmd.String("output") == "" {
			return r.writeJSON(db, cmd.Bool("pretty"))
		}
		if cmd.Bool("pretty") {
			payload, err = json.MarshalIndent(db, "", "  ")
		} else {
			payload, err = json.Marshal(db)
		}
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
	case "csv":
		if payload, err = formatter.LyricsToCSV(db); err != nil {
			return err
		}
	case "md":
		payload = formatter.ToMarkdown(db)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidConfig, format)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, payload, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		r.logger.Info("snapshot written", "path", path)
		return nil
	}
	return r.writePlain("%s", payload)
}

// Import replaces the store with the snapshot at the given path.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: snapshot path required", shared.ErrInvalidBody)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var db models.Db
	if err := json.Unmarshal(payload, &db); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidBody, err)
	}

	conn, err := r.connect(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.ReplaceDb(ctx, db); err != nil {
		return err
	}

	r.logger.Info("store replaced", "lyrics", len(db.Lyrics), "playlists", len(db.Playlists))
	return nil
}
