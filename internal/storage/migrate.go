// ABOUTME: Data migration between podfeed storage backends
// ABOUTME: Copies podcasts with their episodes from a source store into a destination store

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Podcasts int
	Episodes int
}

// MigrateData copies all podcasts from src to dst. ListPodcasts omits
// episodes, so each podcast is re-read in full before it is written.
// The destination should be empty before calling this function.
func MigrateData(src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	podcasts, err := src.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("list source podcasts: %w", err)
	}

	for _, listed := range podcasts {
		p, err := src.GetPodcast(listed.ID)
		if err != nil {
			return nil, fmt.Errorf("read podcast %q: %w", listed.ID, err)
		}
		if err := dst.AddPodcast(p); err != nil {
			return nil, fmt.Errorf("add podcast %q: %w", p.ID, err)
		}
		summary.Podcasts++
		summary.Episodes += len(p.Episodes)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
