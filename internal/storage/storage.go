// ABOUTME: Storage interface and types for podfeed data persistence
// ABOUTME: Defines the podcast store contract shared by the SQL and YAML backends

package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/harper/podfeed/internal/models"
)

var (
	// ErrNotFound is returned when a podcast or episode does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when adding a podcast whose ID is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// EpisodeFilter specifies criteria for listing episodes.
type EpisodeFilter struct {
	PodcastID *string
	Since     *time.Time
	Limit     *int
}

// Store defines the storage interface for podcasts and their episodes.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// GetPodcast retrieves a podcast with its episodes in document order.
	GetPodcast(id string) (*models.Podcast, error)

	// AddPodcast stores a new podcast and its episodes.
	// Returns ErrAlreadyExists when the ID is taken.
	AddPodcast(p *models.Podcast) error

	// UpdatePodcast replaces a stored podcast's metadata and episode list.
	UpdatePodcast(p *models.Podcast) error

	// ListPodcasts returns all podcasts sorted by title, without episodes.
	ListPodcasts() ([]*models.Podcast, error)

	// DeletePodcast removes a podcast and all its episodes.
	DeletePodcast(id string) error

	// ListEpisodes returns episodes matching the filter, newest first.
	// Episodes without a publish date sort last.
	ListEpisodes(filter *EpisodeFilter) ([]models.Episode, error)

	// GetEpisode retrieves one episode of a podcast.
	GetEpisode(podcastID, episodeID string) (*models.Episode, error)

	// SearchEpisodes matches query against episode titles and descriptions.
	SearchEpisodes(query string, limit int) ([]models.Episode, error)
}

// filterEpisodes keeps the episodes whose title or description contains query,
// ignoring case, preserving order and stopping after limit matches when limit > 0.
func filterEpisodes(episodes []models.Episode, query string, limit int) []models.Episode {
	needle := strings.ToLower(query)
	matches := []models.Episode{}
	for _, ep := range episodes {
		hit := strings.Contains(strings.ToLower(ep.Title), needle)
		if !hit && ep.Description != nil {
			hit = strings.Contains(strings.ToLower(*ep.Description), needle)
		}
		if !hit {
			continue
		}
		matches = append(matches, ep)
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

// timeLayout stores instants as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
