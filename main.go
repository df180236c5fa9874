package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	cachecmd "github.com/contentops/draft-publisher/internal/cache"
	"github.com/contentops/draft-publisher/internal/extract"
	"github.com/contentops/draft-publisher/internal/publish"
	"github.com/contentops/draft-publisher/pkg/cache"
)

func main() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "dpub",
		Usage: "Extract HTML drafts and publish them to WordPress as block-format posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the YAML config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
			&cli.StringFlag{
				Name:  "cache-db",
				Value: cache.DefaultDBName,
				Usage: "Path to the identity cache database",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "publish",
				Usage: "Run one batch: extract intake drafts in parallel, publish them sequentially, archive successes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "intake-dir", Usage: "Override the intake directory"},
					&cli.StringFlag{Name: "archive-dir", Usage: "Override the archive directory"},
					&cli.StringFlag{Name: "base-url", Usage: "Override the CMS base URL"},
					&cli.IntFlag{Name: "workers", Usage: "Extraction worker count"},
					&cli.BoolFlag{Name: "no-cache", Usage: "Skip the identity cache"},
				},
				Action: publish.PublishAction,
			},
			{
				Name:      "extract",
				Usage:     "Dry run: parse drafts and print the extracted posts as YAML, no CMS writes",
				ArgsUsage: "[draft files...]",
				Action:    extract.ExtractAction,
			},
			{
				Name:  "cache",
				Usage: "Inspect the local identity cache",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List cached identity resolutions",
						Action: cachecmd.ListAction,
					},
					{
						Name:   "clear",
						Usage:  "Remove all cached identity resolutions",
						Action: cachecmd.ClearAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
