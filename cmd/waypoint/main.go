// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/waypoint"
	"github.com/poiesic/waypoint/provider"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv loads variables from the given dotenv files. Missing files are
// ignored and variables already set in the environment win.
func loadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "waypoint",
		Usage: "Search for places as you type and keep the ones you like",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"WAYPOINT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "waypoint.db",
				EnvVars: []string{"WAYPOINT_DB"},
			},
			&cli.StringFlag{
				Name:    "search-host",
				Usage:   "Nominatim search endpoint",
				Value:   provider.DefaultConfig().SearchHost,
				EnvVars: []string{"WAYPOINT_SEARCH_HOST"},
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "User-Agent sent to the search endpoint",
				Value:   provider.DefaultConfig().UserAgent,
				EnvVars: []string{"WAYPOINT_USER_AGENT"},
			},
			&cli.IntFlag{
				Name:    "requests-per-second",
				Usage:   "Maximum search requests per second",
				Value:   provider.DefaultConfig().RequestsPerSecond,
				EnvVars: []string{"WAYPOINT_REQUESTS_PER_SECOND"},
			},
			&cli.StringFlag{
				Name:    "suggest-host",
				Usage:   "OpenAI-compatible host for query suggestions (disabled when empty)",
				EnvVars: []string{"WAYPOINT_SUGGEST_HOST"},
			},
			&cli.StringFlag{
				Name:    "suggest-model",
				Usage:   "Model used for query suggestions",
				EnvVars: []string{"WAYPOINT_SUGGEST_MODEL"},
			},
			&cli.StringFlag{
				Name:    "suggest-token",
				Usage:   "API token for the suggestion host",
				Value:   provider.DefaultConfig().SuggestToken,
				EnvVars: []string{"WAYPOINT_SUGGEST_TOKEN", "OPENAI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search near a point; each stdin line is the query as typed so far",
				ArgsUsage: " ",
				Action:    searchCommand,
				Flags: append(regionFlags(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Simulate typing this phrase one character at a time instead of reading stdin",
					},
					&cli.DurationFlag{
						Name:  "keystroke-delay",
						Usage: "Delay between simulated keystrokes",
						Value: 80 * time.Millisecond,
					},
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a query is sent",
						Value: 300 * time.Millisecond,
					},
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "Maximum time to wait for results after the last keystroke",
						Value: 10 * time.Second,
					},
				),
			},
			{
				Name:   "save",
				Usage:  "Save a location for an owner",
				Action: saveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Location name",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lat",
						Usage:    "Latitude in degrees",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "lon",
						Usage:    "Longitude in degrees",
						Required: true,
					},
					ownerFlag(),
				},
			},
			{
				Name:   "locations",
				Usage:  "List an owner's saved locations, newest first",
				Action: locationsCommand,
				Flags: []cli.Flag{
					ownerFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of locations to list (0 for all)",
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a saved location",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the location to delete",
						Required: true,
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Import saved locations from a JSON feed",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Feed file to import (- for stdin)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of locations written per transaction",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N locations",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
		},
	}
}

func regionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "lat",
			Usage: "Latitude of the search region center",
			Value: 40.760082,
		},
		&cli.Float64Flag{
			Name:  "lon",
			Usage: "Longitude of the search region center",
			Value: -73.983249,
		},
		&cli.Float64Flag{
			Name:  "span",
			Usage: "Latitude and longitude span of the search region in degrees",
			Value: 0.05,
		},
	}
}

func ownerFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "owner",
		Aliases: []string{"u"},
		Usage:   "Owner (user) ID",
		Value:   1,
	}
}

// openEngine builds an engine from the global flags.
func openEngine(c *cli.Context) (*waypoint.Engine, error) {
	config := provider.NewConfig(
		provider.WithSearchHost(c.String("search-host")),
		provider.WithUserAgent(c.String("user-agent")),
		provider.WithRequestsPerSecond(c.Int("requests-per-second")),
		provider.WithSuggestHost(c.String("suggest-host")),
		provider.WithSuggestModel(c.String("suggest-model")),
		provider.WithSuggestToken(c.String("suggest-token")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	engine, err := waypoint.Open(c.String("db"), waypoint.WithProviderConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open waypoint: %w", err)
	}
	return engine, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
