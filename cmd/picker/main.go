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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/poiesic/treesearch"
	"github.com/poiesic/treesearch/catalog"
	"github.com/poiesic/treesearch/config"
	"github.com/poiesic/treesearch/match"
	"github.com/poiesic/treesearch/session"
	"github.com/poiesic/treesearch/tree"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	catalogFlag := &cli.StringFlag{
		Name:     "catalog",
		Aliases:  []string{"f"},
		Usage:    "Path to a catalog file with one item path per line (- for stdin)",
		Required: true,
	}
	matchFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "exact",
			Usage: "Match the query verbatim instead of ignoring spaces and punctuation",
		},
		&cli.BoolFlag{
			Name:  "case-sensitive",
			Usage: "Respect case in exact mode",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Stop searching after this many results (0 for no limit)",
		},
		&cli.BoolFlag{
			Name:  "sort",
			Usage: "Sort categories and items by label",
			Value: true,
		},
	}

	return &cli.App{
		Name:  "picker",
		Usage: "Incremental search over hierarchical item catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one query against a catalog and print the ranked results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags:     append([]cli.Flag{catalogFlag}, matchFlags...),
			},
			{
				Name:   "serve",
				Usage:  "Answer msgpack search requests on stdin/stdout",
				Action: serveCommand,
				Flags:  append([]cli.Flag{catalogFlag}, matchFlags...),
			},
			{
				Name:   "browse",
				Usage:  "Browse and search a catalog interactively",
				Action: browseCommand,
				Flags:  append([]cli.Flag{catalogFlag}, matchFlags...),
			},
		},
	}
}

// setupLogger loads the config file and installs a charm log handler as the
// slog default. An explicit --log-level wins over the config file.
func setupLogger(c *cli.Context) error {
	cfg := config.LoadOrDefault(c.String("config"))
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg

	levelStr := cfg.Log.Level
	if c.IsSet("log-level") || levelStr == "" {
		levelStr = c.String("log-level")
	}
	levelStr = strings.ToLower(levelStr)

	level, err := charmlog.ParseLevel(levelStr)
	if err != nil || level == charmlog.FatalLevel {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           level,
		Prefix:          "picker",
		ReportTimestamp: true,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// settings returns the config loaded by setupLogger, or defaults.
func settings(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// matchConfig builds the match configuration from the config file and the
// command flags.
func matchConfig(c *cli.Context) (*match.Config, error) {
	cfg, err := settings(c).MatchConfig()
	if err != nil {
		return nil, err
	}
	if c.IsSet("exact") {
		cfg.Fuzzy = !c.Bool("exact")
	}
	if c.IsSet("case-sensitive") {
		cfg.CaseInsensitive = !c.Bool("case-sensitive")
	}
	if c.IsSet("limit") {
		cfg.ResultLimit = c.Int("limit")
	}
	return cfg, nil
}

// loadCatalog reads the catalog named by --catalog into a tree.
func loadCatalog(c *cli.Context) (*tree.Item, error) {
	path := c.String("catalog")
	in := c.App.Reader
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		defer file.Close()
		in = file
	}

	builder, err := catalog.NewBuilder(
		catalog.WithSorted(c.Bool("sort")),
		catalog.WithRootLabel("Catalog"),
	)
	if err != nil {
		return nil, err
	}
	n, err := builder.Load(in)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded", "path", path, "items", n)
	return builder.Build(), nil
}

// openSession loads the catalog and starts a session on a new engine. The
// caller releases both.
func openSession(c *cli.Context, opts ...session.Option) (*treesearch.Engine, *session.Session, error) {
	root, err := loadCatalog(c)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := matchConfig(c)
	if err != nil {
		return nil, nil, err
	}

	sc := settings(c).Session
	var engineOpts []treesearch.Option
	if sc.PoolSize > 0 {
		engineOpts = append(engineOpts, treesearch.WithPoolSize(sc.PoolSize))
	}
	engine, err := treesearch.NewEngine(engineOpts...)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]session.Option{session.WithKeyCacheSize(sc.KeyCacheSize)}, opts...)
	sess, err := engine.NewSession(root, cfg, opts...)
	if err != nil {
		engine.Release()
		return nil, nil, err
	}
	return engine, sess, nil
}
