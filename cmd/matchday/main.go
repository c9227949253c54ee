package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/carlosx8664/skyy-fc/config"
	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/store"
	"github.com/carlosx8664/skyy-fc/view"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "matchday",
		Usage:   "Skyy FC fixtures, countdown, broadcasts and tables from the club's content store",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Content source: sanity or local (default from CONTENT_SOURCE)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Local database file path (default from MATCHDAY_DB)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for content store requests (default from FETCH_TIMEOUT)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Optional file of environment settings",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "next",
				Usage: "Show the next fixture with its countdown",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "upcoming",
						Aliases: []string{"n"},
						Value:   view.DefaultUpcoming,
						Usage:   "Number of fixtures to list",
					},
				},
				Action: showNext,
			},
			{
				Name:  "countdown",
				Usage: "Stream the countdown to the next fixture, one line per second",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "refresh",
						Aliases: []string{"r"},
						Usage:   "Refetch fixtures at this interval (0 disables)",
					},
				},
				Action: streamCountdown,
			},
			{
				Name:   "fixtures",
				Usage:  "List fixtures",
				Flags:  []cli.Flag{pageFlag()},
				Action: listFixtures,
			},
			{
				Name:  "results",
				Usage: "List results, newest first",
				Flags: []cli.Flag{
					pageFlag(),
					&cli.StringFlag{
						Name:  "since",
						Usage: "Show results since duration (e.g., 7d, 2w, 3m, 1y)",
					},
				},
				Action: listResults,
			},
			{
				Name:   "standings",
				Usage:  "Show the league table",
				Flags:  []cli.Flag{pageFlag()},
				Action: listStandings,
			},
			{
				Name:   "news",
				Usage:  "List news stories",
				Flags:  []cli.Flag{pageFlag()},
				Action: listNews,
			},
			{
				Name:   "squad",
				Usage:  "List the squad by shirt number",
				Flags:  []cli.Flag{pageFlag()},
				Action: listSquad,
			},
			{
				Name:   "gallery",
				Usage:  "List photo albums, newest first",
				Flags:  []cli.Flag{pageFlag()},
				Action: listGallery,
			},
			{
				Name:  "watch",
				Usage: "Show the live broadcast or the selected replay",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "select",
						Usage: "Replay ID to select",
					},
				},
				Action: showWatch,
			},
			{
				Name:  "serve",
				Usage: "Serve the read-only HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default from HTTP_ADDR)",
					},
				},
				Action: serve,
			},
			{
				Name:  "documents",
				Usage: "List documents in the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Filter by document type",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   50,
						Usage:   "Maximum number of documents to return",
					},
					&cli.IntFlag{
						Name:    "offset",
						Aliases: []string{"o"},
						Usage:   "Offset for pagination",
					},
					&cli.StringFlag{
						Name:  "since",
						Usage: "Show documents dated since duration (e.g., 7d, 2w, 3m, 1y)",
					},
				},
				Action: listDocuments,
			},
			{
				Name:      "show",
				Usage:     "Show a document from the local database",
				ArgsUsage: "<document-id>",
				Action:    showDocument,
			},
			{
				Name:      "remove",
				Usage:     "Remove documents from the local database",
				ArgsUsage: "<document-id>...",
				Action:    removeDocuments,
			},
			{
				Name:   "stats",
				Usage:  "Count local documents by type",
				Action: showStats,
			},
			{
				Name:      "import",
				Usage:     "Import documents from an NDJSON file into the local database",
				ArgsUsage: "<file.ndjson>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Remove existing documents of each imported type first",
					},
				},
				Action: importDataset,
			},
			{
				Name:  "export",
				Usage: "Export every collection from the content source as NDJSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default: stdout)",
					},
				},
				Action: exportDataset,
			},
		},
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "Page number, starting at 0 (out of range pages are clamped)",
	}
}

// setup loads configuration and logging before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	if c.IsSet("source") {
		cfg.ContentSource = c.String("source")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("timeout") {
		cfg.FetchTimeout = c.Duration("timeout")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = getDefaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(cfg.LogLevel)

	c.App.Metadata = map[string]interface{}{"config": cfg}
	return nil
}

func getConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "matchday.db"
	}
	return filepath.Join(home, ".config", "matchday", "matchday.db")
}

func getStore(c *cli.Context) (*store.Store, error) {
	dbPath := getConfig(c).DBPath

	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return s, nil
}

// getSource opens the configured content source. The returned func
// releases it.
func getSource(c *cli.Context) (content.Source, func(), error) {
	cfg := getConfig(c)

	if cfg.ContentSource == config.SourceLocal {
		s, err := getStore(c)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	client, err := content.NewSanityClient(cfg.Sanity())
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set SANITY_PROJECT_ID or use --source local)", err)
	}
	return client, func() {}, nil
}

// getFeed returns the channel replay feed, or nil if none is configured.
func getFeed(c *cli.Context) view.ReplayFeed {
	cfg := getConfig(c)
	if cfg.ReplayFeedURL == "" {
		return nil
	}
	return content.NewChannelFeed(cfg.ReplayFeedURL, cfg.FetchTimeout)
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
