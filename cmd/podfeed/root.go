// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the podcast store for every command

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/fetch"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/storage"
	"github.com/harper/podfeed/internal/subscribe"
)

// skipStorage marks commands that manage config and storage themselves.
const skipStorage = "skip-storage"

var (
	logLevel string
	cfg      *config.Config
	logger   *log.Logger
	loader   *fetch.Client
	store    storage.Store
	svc      *subscribe.Service
)

var rootCmd = &cobra.Command{
	Use:   "podfeed",
	Short: "Podcast subscription manager with MCP integration",
	Long: `
██████╗  ██████╗ ██████╗ ███████╗███████╗███████╗██████╗
██╔══██╗██╔═══██╗██╔══██╗██╔════╝██╔════╝██╔════╝██╔══██╗
██████╔╝██║   ██║██║  ██║█████╗  █████╗  █████╗  ██║  ██║
██╔═══╝ ██║   ██║██║  ██║██╔══╝  ██╔══╝  ██╔══╝  ██║  ██║
██║     ╚██████╔╝██████╔╝██║     ███████╗███████╗██████╔╝
╚═╝      ╚═════╝ ╚═════╝ ╚═╝     ╚══════╝╚══════╝╚═════╝

Podcast feeds for humans and AI agents.

Subscribe to podcasts, browse episodes, move subscriptions in and out
with OPML, and expose everything via MCP for Claude.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return openApp(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close storage: %w", err)
			}
			store = nil
		}
		return nil
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
}

// openApp loads config and wires the logger, loader, store, and service.
func openApp(ctx context.Context) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err = newLogger(cfg.GetLogLevel(), logLevel)
	if err != nil {
		return err
	}

	store, err = cfg.OpenStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	loader = fetch.NewClient(cfg.GetHTTPTimeout())
	svc = subscribe.NewService(loader, store, subscribe.WithLogger(logger))
	logger.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())
	return nil
}

// newLogger builds the stderr logger. A non-empty override wins over the configured level.
func newLogger(configured, override string) (*log.Logger, error) {
	level := configured
	if override != "" {
		level = override
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  lvl,
		Prefix: "podfeed",
	}), nil
}

// resolvePodcast finds a stored podcast by exact ID, ID prefix, or title substring.
// A reference matching more than one podcast is an error.
func resolvePodcast(ref string) (*models.Podcast, error) {
	p, err := store.GetPodcast(ref)
	if err == nil {
		return p, nil
	}

	podcasts, err := store.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("failed to list podcasts: %w", err)
	}

	needle := strings.ToLower(ref)
	var matches []*models.Podcast
	for _, candidate := range podcasts {
		if strings.HasPrefix(candidate.ID, ref) || strings.Contains(strings.ToLower(candidate.Title), needle) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("podcast not found: %s", ref)
	case 1:
		return store.GetPodcast(matches[0].ID)
	default:
		titles := make([]string, 0, len(matches))
		for _, m := range matches {
			titles = append(titles, m.Title)
		}
		return nil, fmt.Errorf("%q matches %d podcasts: %s", ref, len(matches), strings.Join(titles, ", "))
	}
}

// resolveEpisode finds an episode of p by exact ID or unique ID prefix.
func resolveEpisode(p *models.Podcast, ref string) (*models.Episode, error) {
	if e := p.Episode(ref); e != nil {
		return e, nil
	}

	var match *models.Episode
	for i := range p.Episodes {
		if strings.HasPrefix(p.Episodes[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("episode prefix %q is ambiguous", ref)
			}
			match = &p.Episodes[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("episode not found: %s", ref)
	}
	return match, nil
}

// shortID trims an ID for display.
func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}
