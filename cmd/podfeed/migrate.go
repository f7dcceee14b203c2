// ABOUTME: Migration command for copying podfeed data between storage backends
// ABOUTME: Supports sqlite, postgres, and yaml targets with a non-empty target safety check

package main

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate all podcasts and episodes from the currently configured backend to a different backend.

Reads podcasts from the current backend and writes them to the target
backend. Does NOT update the config file; verify the migration was successful
then run 'podfeed setup' or edit config.json.

Examples:
  podfeed migrate --to yaml
  podfeed migrate --to sqlite --data-dir ~/podfeed-sqlite
  podfeed migrate --to postgres --postgres-dsn postgres://localhost/podfeed
  podfeed migrate --to yaml --force`,
	RunE: runMigrate,
}

var (
	migrateTo          string
	migrateDataDir     string
	migratePostgresDSN string
	migrateForce       bool
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite, postgres, or yaml)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().StringVar(&migratePostgresDSN, "postgres-dsn", "", "target Postgres connection string")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()

	target, err := migrateTarget(cfg, migrateTo, migrateDataDir, migratePostgresDSN)
	if err != nil {
		return err
	}

	// Check if the target already holds data
	if target.GetBackend() != config.BackendPostgres {
		nonEmpty, err := storage.IsDirNonEmpty(target.GetDataDir())
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target directory %q is not empty; use --force to overwrite", target.GetDataDir())
		}
	}

	dst, err := target.OpenStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", target.GetBackend(), err)
	}
	defer dst.Close()

	if target.GetBackend() == config.BackendPostgres && !migrateForce {
		existing, err := dst.ListPodcasts()
		if err != nil {
			return fmt.Errorf("check target database: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("target database already has %d podcast(s); use --force to merge", len(existing))
		}
	}

	color.Yellow("Migrating podfeed data:")
	fmt.Printf("  Source:  %s (%s)\n", sourceBackend, describeLocation(cfg))
	fmt.Printf("  Target:  %s (%s)\n", target.GetBackend(), describeLocation(target))
	fmt.Println()

	summary, err := storage.MigrateData(store, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.Green("Migration complete!")
	fmt.Printf("  Podcasts: %d\n", summary.Podcasts)
	fmt.Printf("  Episodes: %d\n", summary.Episodes)
	fmt.Println()
	color.Yellow("Note: config.json was NOT updated. To switch to the new backend, run 'podfeed setup' or edit:")
	fmt.Printf("  %s\n", config.GetConfigPath())
	return nil
}

// migrateTarget derives the target config from the current one and the flags.
func migrateTarget(current *config.Config, backend, dataDir, dsn string) (*config.Config, error) {
	if !slices.Contains(config.Backends, backend) {
		return nil, fmt.Errorf("invalid target backend %q: must be one of %v", backend, config.Backends)
	}

	target := *current
	target.Backend = backend
	if dataDir != "" {
		target.DataDir = config.ExpandPath(dataDir)
	}
	if dsn != "" {
		target.PostgresDSN = dsn
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	if target.GetBackend() == current.GetBackend() &&
		target.GetDataDir() == current.GetDataDir() &&
		target.GetPostgresDSN() == current.GetPostgresDSN() {
		return nil, fmt.Errorf("target %s storage is the same as the current storage", backend)
	}
	return &target, nil
}

// describeLocation names where a config's data lives without printing credentials.
func describeLocation(c *config.Config) string {
	if c.GetBackend() == config.BackendPostgres {
		return "postgres DSN"
	}
	return c.GetDataDir()
}
