// ABOUTME: MCP resource providers for podfeed
// ABOUTME: Exposes read-only views of podcasts, recent episodes, and library statistics

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/podfeed/internal/storage"
	"github.com/harper/podfeed/internal/timeutil"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	podcastsURI       = "podfeed://podcasts"
	recentEpisodesURI = "podfeed://episodes/recent"
	statsURI          = "podfeed://stats"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	ResourceURI string         `json:"resource_uri"`
	Filters     map[string]any `json:"filters,omitempty"`
}

// StatsData summarizes the stored library.
type StatsData struct {
	TotalPodcasts        int            `json:"total_podcasts"`
	TotalEpisodes        int            `json:"total_episodes"`
	EpisodesWithoutAudio int            `json:"episodes_without_audio"`
	EpisodesThisWeek     int            `json:"episodes_this_week"`
	EpisodesPerPodcast   map[string]int `json:"episodes_per_podcast"`
}

func (s *Server) registerResources() {
	s.registerPodcastsResource()
	s.registerRecentEpisodesResource()
	s.registerStatsResource()
}

func (s *Server) registerPodcastsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         podcastsURI,
			Name:        "All Podcasts",
			Description: "List all stored podcasts with title, feed URL, author, categories, and subscription date",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			podcasts, err := s.store.ListPodcasts()
			if err != nil {
				return nil, fmt.Errorf("failed to list podcasts: %w", err)
			}

			outputs := make([]PodcastOutput, 0, len(podcasts))
			for _, p := range podcasts {
				outputs = append(outputs, podcastOutput(p, false))
			}

			return resourceContents(request.Params.URI, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(outputs),
					ResourceURI: podcastsURI,
				},
				Data: outputs,
				Links: map[string]string{
					"recent_episodes": recentEpisodesURI,
					"stats":           statsURI,
				},
			})
		},
	)
}

func (s *Server) registerRecentEpisodesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         recentEpisodesURI,
			Name:        "Recent Episodes",
			Description: "List episodes published since the start of this week across all podcasts, newest first",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			since := timeutil.StartOfWeek()
			episodes, err := s.store.ListEpisodes(&storage.EpisodeFilter{Since: &since})
			if err != nil {
				return nil, fmt.Errorf("failed to list recent episodes: %w", err)
			}

			outputs := episodeOutputs(episodes)
			return resourceContents(request.Params.URI, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(outputs),
					ResourceURI: recentEpisodesURI,
					Filters: map[string]any{
						"since": since,
					},
				},
				Data: outputs,
				Links: map[string]string{
					"all_podcasts": podcastsURI,
					"stats":        statsURI,
				},
			})
		},
	)
}

func (s *Server) registerStatsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         statsURI,
			Name:        "Library Statistics",
			Description: "Counts of podcasts and episodes, episodes without playable audio, and episodes published this week",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			stats, err := s.calculateStats()
			if err != nil {
				return nil, err
			}

			return resourceContents(request.Params.URI, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       1,
					ResourceURI: statsURI,
				},
				Data: stats,
				Links: map[string]string{
					"all_podcasts":    podcastsURI,
					"recent_episodes": recentEpisodesURI,
				},
			})
		},
	)
}

func (s *Server) calculateStats() (*StatsData, error) {
	podcasts, err := s.store.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("failed to list podcasts: %w", err)
	}

	episodes, err := s.store.ListEpisodes(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	titles := make(map[string]string, len(podcasts))
	for _, p := range podcasts {
		titles[p.ID] = p.Title
	}

	weekStart := timeutil.StartOfWeek()
	stats := &StatsData{
		TotalPodcasts:      len(podcasts),
		TotalEpisodes:      len(episodes),
		EpisodesPerPodcast: make(map[string]int, len(podcasts)),
	}
	// Keyed by title; podcasts sharing a title share a count.
	for _, p := range podcasts {
		stats.EpisodesPerPodcast[p.Title] = 0
	}
	for _, e := range episodes {
		if !e.HasAudio() {
			stats.EpisodesWithoutAudio++
		}
		if e.PubDate != nil && !e.PubDate.Before(weekStart) {
			stats.EpisodesThisWeek++
		}
		stats.EpisodesPerPodcast[titles[e.PodcastID]]++
	}

	return stats, nil
}

func resourceContents(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
