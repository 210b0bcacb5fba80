package main

import (
	"context"

	"github.com/desertthunder/lipl/internal/models"
	"github.com/urfave/cli/v3"
)

func uuidCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "uuid",
		Usage: "Generate short identifiers, or convert a canonical uuid",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "uuid"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of identifiers to generate",
				Value:   1,
			},
		},
		Action: r.Uuid,
	}
}

// Uuid prints freshly generated identifiers, one per line. When a
// canonical uuid argument is given it prints that uuid's short form
// instead.
func (r *Runner) Uuid(ctx context.Context, cmd *cli.Command) error {
	if arg := cmd.StringArg("uuid"); arg != "" {
		id, err := models.ParseCanonicalID(arg)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", id.String())
	}

	count := cmd.Int("count")
	if count < 1 {
		count = 1
	}
	for range count {
		if err := r.writePlain("%s\n", models.NewID().String()); err != nil {
			return err
		}
	}
	return nil
}
