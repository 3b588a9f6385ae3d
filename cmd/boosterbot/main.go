// Package main is the booster bot entry point.
//
// @title          Booster Bot Status API
// @version        1.0
// @description    Read-only view of order claims, ticket links and event-log replay.
// @BasePath       /api/v1
// @schemes        http https
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "boosterbot",
		Usage:   "Discord coordinator for boosting order claims and tickets",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Connect to Discord, replay the event log and serve the status API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runBot(ctx)
				},
			},
			{
				Name:  "replay",
				Usage: "Replay the event log and print the rebuilt registries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "stats-only",
						Aliases: []string{"s"},
						Usage:   "Print only the replay summary",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runReplay(ctx, os.Stdout, cmd.Bool("stats-only"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}
