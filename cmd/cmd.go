// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON (same as --format json)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

// uiCommand launches the interactive rating page.
func uiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Aliases: []string{"tui", "play"},
		Usage:   "Launch the interactive rating page",
		Action:  r.UI,
	}
}

// featuresCommand handles feature operations
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "features",
		Aliases: []string{"feature", "f"},
		Usage:   "Feature operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List features in server order",
				Flags:   formatFlags(),
				Action:  r.FeaturesList,
			},
			{
				Name:  "create",
				Usage: "Create an empty feature on the server",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.FeaturesCreate,
			},
		},
	}
}

// trackCommand handles track fetching and rating
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "track",
		Aliases: []string{"t"},
		Usage:   "Track operations",
		Commands: []*cli.Command{
			{
				Name:  "next",
				Usage: "Fetch a random untrained track for a feature",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "feature",
						Usage:    "Feature name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "play",
						Usage: "Start playback of the track on Spotify",
					},
				}, formatFlags()...),
				Action: r.TrackNext,
			},
			{
				Name:  "rate",
				Usage: "Submit a 0/1 rating for a track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "feature",
						Usage:    "Feature name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "track",
						Usage:    "Track ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "rating",
						Usage:    "Rating: 0 or 1",
						Required: true,
					},
				},
				Action: r.TrackRate,
			},
			{
				Name:  "import",
				Usage: "Submit ratings from a feature,track,rating CSV file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent submissions (max 10)",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Submissions per second",
						Value: 5,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a JSON summary of every submission to this path",
					},
				},
				Action: r.TrackImport,
			},
		},
	}
}

// serverCommand handles rating-server operations
func serverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Rating server operations",
		Commands: []*cli.Command{
			{
				Name:   "shutdown",
				Usage:  "Ask the rating server to stop",
				Action: r.ServerShutdown,
			},
			{
				Name:   "open",
				Usage:  "Open the rating server's web page in a browser",
				Action: r.ServerOpen,
			},
			{
				Name:  "mock",
				Usage: "Run an in-memory rating server for offline use",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to the host of server.base_url)",
					},
					&cli.StringSliceFlag{
						Name:  "feature",
						Usage: "Feature to create at startup (repeatable)",
					},
					&cli.StringFlag{
						Name:  "tracks",
						Usage: "JSON file with the track catalogue (defaults to a small demo set)",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Value served by /api/spotify_token",
					},
				},
				Action: r.ServerMock,
			},
		},
	}
}

// apiCommand handles direct calls to the rating server
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the rating server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with an optional JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// configCommand handles the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path", Value: "config.toml"},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: r.ConfigShow,
			},
		},
	}
}
