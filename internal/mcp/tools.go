// ABOUTME: MCP tool definitions and handlers for podcast and episode operations
// ABOUTME: Provides tools for subscribing, refreshing, browsing episodes, and OPML import/export

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/content"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/opml"
	"github.com/harper/podfeed/internal/storage"
	"github.com/harper/podfeed/internal/subscribe"
	"github.com/harper/podfeed/internal/timeutil"
	"github.com/mark3labs/mcp-go/mcp"
)

// Type definitions for input/output structures

type PodcastOutput struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	FeedURL      string     `json:"feed_url"`
	Author       *string    `json:"author,omitempty"`
	Link         *string    `json:"link,omitempty"`
	ArtworkURL   *string    `json:"artwork_url,omitempty"`
	Categories   []string   `json:"categories,omitempty"`
	IsSubscribed bool       `json:"is_subscribed"`
	DateAdded    *time.Time `json:"date_added,omitempty"`
	EpisodeCount *int       `json:"episode_count,omitempty"`
}

type ListPodcastsOutput struct {
	Podcasts []PodcastOutput `json:"podcasts"`
	Count    int             `json:"count"`
}

type URLInput struct {
	URL string `json:"url"`
}

type PodcastIDInput struct {
	PodcastID string `json:"podcast_id"`
}

type SubscribeOutput struct {
	Podcast  PodcastOutput `json:"podcast"`
	Warnings []string      `json:"warnings,omitempty"`
}

type UnsubscribeOutput struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PodcastID string `json:"podcast_id"`
}

type ListEpisodesInput struct {
	PodcastID *string `json:"podcast_id,omitempty"`
	Since     *string `json:"since,omitempty"`
	Limit     *int    `json:"limit,omitempty"`
}

type EpisodeOutput struct {
	ID         string     `json:"id"`
	PodcastID  string     `json:"podcast_id"`
	Title      string     `json:"title"`
	AudioURL   *string    `json:"audio_url,omitempty"`
	Duration   string     `json:"duration,omitempty"`
	PubDate    *time.Time `json:"pub_date,omitempty"`
	ArtworkURL *string    `json:"artwork_url,omitempty"`
}

type ListEpisodesOutput struct {
	Episodes []EpisodeOutput `json:"episodes"`
	Count    int             `json:"count"`
	Filters  map[string]any  `json:"filters"`
}

type GetEpisodeInput struct {
	PodcastID string `json:"podcast_id"`
	EpisodeID string `json:"episode_id"`
}

type GetEpisodeOutput struct {
	EpisodeOutput
	PodcastTitle string  `json:"podcast_title"`
	Description  *string `json:"description,omitempty"`
}

type SearchEpisodesInput struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

type SearchEpisodesOutput struct {
	Query    string          `json:"query"`
	Episodes []EpisodeOutput `json:"episodes"`
	Count    int             `json:"count"`
}

type ParseFeedOutput struct {
	Podcast  PodcastOutput   `json:"podcast"`
	Episodes []EpisodeOutput `json:"episodes"`
	Warnings []string        `json:"warnings"`
}

type ImportOPMLInput struct {
	OPML string `json:"opml"`
}

type ImportResultOutput struct {
	URL     string  `json:"url"`
	Status  string  `json:"status"`
	Title   *string `json:"title,omitempty"`
	Message *string `json:"message,omitempty"`
}

type ImportOPMLOutput struct {
	Results []ImportResultOutput `json:"results"`
	Added   int                  `json:"added"`
	Skipped int                  `json:"skipped"`
	Failed  int                  `json:"failed"`
}

type ExportOPMLInput struct {
	Title *string `json:"title,omitempty"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListPodcastsTool()
	s.registerSubscribeTool()
	s.registerUnsubscribeTool()
	s.registerRefreshPodcastTool()
	s.registerListEpisodesTool()
	s.registerGetEpisodeTool()
	s.registerSearchEpisodesTool()
	s.registerParseFeedTool()
	s.registerImportOPMLTool()
	s.registerExportOPMLTool()
}

func (s *Server) registerListPodcastsTool() {
	tool := mcp.Tool{
		Name:        "list_podcasts",
		Description: "List every stored podcast sorted by title. Returns IDs, titles, feed URLs, authors, categories, and subscription dates. Use the returned id as podcast_id in other tools.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListPodcasts)
}

func (s *Server) registerSubscribeTool() {
	tool := mcp.Tool{
		Name:        "subscribe",
		Description: "Subscribe to a podcast by its RSS feed URL. The feed is downloaded, parsed, and stored with all of its episodes. Fails if the podcast is already subscribed. Returns the stored podcast and any warnings about episodes without playable audio.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The podcast feed URL (http or https). Example: 'https://example.com/podcast.xml'",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSubscribe)
}

func (s *Server) registerUnsubscribeTool() {
	tool := mcp.Tool{
		Name:        "unsubscribe",
		Description: "Remove a podcast and all of its stored episodes. This action cannot be undone.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"podcast_id": map[string]interface{}{
					"type":        "string",
					"description": "The podcast ID from list_podcasts (usually the feed URL)",
				},
			},
			Required: []string{"podcast_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleUnsubscribe)
}

func (s *Server) registerRefreshPodcastTool() {
	tool := mcp.Tool{
		Name:        "refresh_podcast",
		Description: "Download a subscribed podcast's feed again and replace its stored metadata and episode list. The subscription date is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"podcast_id": map[string]interface{}{
					"type":        "string",
					"description": "The podcast ID from list_podcasts",
				},
			},
			Required: []string{"podcast_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRefreshPodcast)
}

func (s *Server) registerListEpisodesTool() {
	tool := mcp.Tool{
		Name:        "list_episodes",
		Description: "List stored episodes newest first, optionally for one podcast and published on or after a date. Episodes without a publish date are listed last and are excluded when 'since' is set.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"podcast_id": map[string]interface{}{
					"type":        "string",
					"description": "Only list episodes of this podcast",
				},
				"since": map[string]interface{}{
					"type":        "string",
					"description": "Only episodes published on or after this point. Accepts 'today', 'yesterday', 'week', 'month', or YYYY-MM-DD",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of episodes to return (0 or omitted returns all)",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListEpisodes)
}

func (s *Server) registerGetEpisodeTool() {
	tool := mcp.Tool{
		Name:        "get_episode",
		Description: "Get one episode with its full description converted to markdown, along with its audio URL, duration, and publish date.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"podcast_id": map[string]interface{}{
					"type":        "string",
					"description": "The podcast ID the episode belongs to",
				},
				"episode_id": map[string]interface{}{
					"type":        "string",
					"description": "The episode ID from list_episodes",
				},
			},
			Required: []string{"podcast_id", "episode_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetEpisode)
}

func (s *Server) registerSearchEpisodesTool() {
	tool := mcp.Tool{
		Name:        "search_episodes",
		Description: "Search stored episode titles and descriptions for a case-insensitive substring. Results are newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to search for. Example: 'interview'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Maximum number of results (default %d)", config.DefaultSearchLimit),
				},
			},
			Required: []string{"query"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSearchEpisodes)
}

func (s *Server) registerParseFeedTool() {
	tool := mcp.Tool{
		Name:        "parse_feed",
		Description: "Download and parse a podcast feed without subscribing. Returns the podcast metadata, its episodes in feed order, and any warnings raised while parsing. Use this to preview a feed before subscribing.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The podcast feed URL (http or https)",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleParseFeed)
}

func (s *Server) registerImportOPMLTool() {
	tool := mcp.Tool{
		Name:        "import_opml",
		Description: "Subscribe to every feed listed in an OPML document. Feeds already subscribed are skipped. Returns one result per feed URL in document order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"opml": map[string]interface{}{
					"type":        "string",
					"description": "The full OPML document text",
				},
			},
			Required: []string{"opml"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleImportOPML)
}

func (s *Server) registerExportOPMLTool() {
	tool := mcp.Tool{
		Name:        "export_opml",
		Description: "Export all stored podcasts as an OPML 2.0 document that other podcast apps can import.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": fmt.Sprintf("Document title (default '%s')", config.OPMLExportTitle),
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleExportOPML)
}

// Tool handlers

func (s *Server) handleListPodcasts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	podcasts, err := s.store.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("failed to list podcasts: %w", err)
	}

	outputs := make([]PodcastOutput, 0, len(podcasts))
	for _, p := range podcasts {
		outputs = append(outputs, podcastOutput(p, false))
	}

	return jsonResult(ListPodcastsOutput{Podcasts: outputs, Count: len(outputs)})
}

func (s *Server) handleSubscribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input URLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	podcast, err := s.svc.Subscribe(ctx, input.URL)
	if err != nil {
		return nil, err
	}

	return jsonResult(SubscribeOutput{
		Podcast:  podcastOutput(podcast, true),
		Warnings: missingAudio(podcast),
	})
}

func (s *Server) handleUnsubscribe(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PodcastIDInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if err := s.svc.Unsubscribe(input.PodcastID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("podcast not found: %s", input.PodcastID)
		}
		return nil, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return jsonResult(UnsubscribeOutput{
		Success:   true,
		Message:   fmt.Sprintf("Unsubscribed from %s", input.PodcastID),
		PodcastID: input.PodcastID,
	})
}

func (s *Server) handleRefreshPodcast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PodcastIDInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	podcast, err := s.svc.Refresh(ctx, input.PodcastID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("podcast not found: %s", input.PodcastID)
		}
		return nil, err
	}

	return jsonResult(SubscribeOutput{
		Podcast:  podcastOutput(podcast, true),
		Warnings: missingAudio(podcast),
	})
}

func (s *Server) handleListEpisodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListEpisodesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	filter := &storage.EpisodeFilter{PodcastID: input.PodcastID}
	filters := make(map[string]any)
	if input.PodcastID != nil {
		filters["podcast_id"] = *input.PodcastID
	}
	if input.Since != nil {
		t, err := timeutil.ParseSince(*input.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid since value: %w", err)
		}
		filter.Since = &t
		filters["since"] = t
	}
	if input.Limit != nil {
		if *input.Limit < 0 {
			return nil, fmt.Errorf("limit must be non-negative, got %d", *input.Limit)
		}
		if *input.Limit > 0 {
			filter.Limit = input.Limit
			filters["limit"] = *input.Limit
		}
	}

	episodes, err := s.store.ListEpisodes(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	outputs := episodeOutputs(episodes)
	return jsonResult(ListEpisodesOutput{Episodes: outputs, Count: len(outputs), Filters: filters})
}

func (s *Server) handleGetEpisode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetEpisodeInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	podcast, err := s.store.GetPodcast(input.PodcastID)
	if err != nil {
		return nil, fmt.Errorf("podcast not found: %s", input.PodcastID)
	}
	episode := podcast.Episode(input.EpisodeID)
	if episode == nil {
		return nil, fmt.Errorf("episode not found: %s", input.EpisodeID)
	}

	output := GetEpisodeOutput{
		EpisodeOutput: episodeOutput(*episode),
		PodcastTitle:  podcast.Title,
	}
	if episode.Description != nil && *episode.Description != "" {
		desc := *episode.Description
		if content.IsHTML(desc) {
			desc = content.ToMarkdown(desc)
		}
		output.Description = &desc
	}

	return jsonResult(output)
}

func (s *Server) handleSearchEpisodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchEpisodesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	limit := config.DefaultSearchLimit
	if input.Limit != nil {
		if *input.Limit <= 0 {
			return nil, fmt.Errorf("limit must be positive, got %d", *input.Limit)
		}
		limit = *input.Limit
	}

	episodes, err := s.store.SearchEpisodes(input.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search episodes: %w", err)
	}

	outputs := episodeOutputs(episodes)
	return jsonResult(SearchEpisodesOutput{Query: input.Query, Episodes: outputs, Count: len(outputs)})
}

func (s *Server) handleParseFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input URLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	var warnings []models.Warning
	podcast, err := s.svc.Preview(ctx, input.URL, models.Collect(&warnings))
	if err != nil {
		return nil, err
	}

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, w.String())
	}

	return jsonResult(ParseFeedOutput{
		Podcast:  podcastOutput(podcast, true),
		Episodes: episodeOutputs(podcast.Episodes),
		Warnings: messages,
	})
}

func (s *Server) handleImportOPML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ImportOPMLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	doc, err := opml.ParseBytes([]byte(input.OPML))
	if err != nil {
		return nil, fmt.Errorf("invalid OPML: %w", err)
	}

	results := s.svc.Import(ctx, doc, s.importConcurrency)
	summary := subscribe.Summarize(results)

	outputs := make([]ImportResultOutput, 0, len(results))
	for _, r := range results {
		out := ImportResultOutput{URL: r.URL}
		switch {
		case r.Err == nil:
			out.Status = "added"
			out.Title = &r.Podcast.Title
		case r.Skipped():
			out.Status = "skipped"
		default:
			out.Status = "failed"
			msg := r.Err.Error()
			out.Message = &msg
		}
		outputs = append(outputs, out)
	}

	return jsonResult(ImportOPMLOutput{
		Results: outputs,
		Added:   summary.Added,
		Skipped: summary.Skipped,
		Failed:  summary.Failed,
	})
}

func (s *Server) handleExportOPML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ExportOPMLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	title := config.OPMLExportTitle
	if input.Title != nil && *input.Title != "" {
		title = *input.Title
	}

	doc, err := s.svc.Export(title)
	if err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}

	var buf strings.Builder
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write OPML: %w", err)
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// Output helpers

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func podcastOutput(p *models.Podcast, withCount bool) PodcastOutput {
	out := PodcastOutput{
		ID:           p.ID,
		Title:        p.Title,
		FeedURL:      p.FeedURL,
		Author:       p.Author,
		Link:         p.Link,
		ArtworkURL:   p.ArtworkURL,
		Categories:   p.Categories,
		IsSubscribed: p.IsSubscribed,
		DateAdded:    p.DateAdded,
	}
	if withCount {
		n := len(p.Episodes)
		out.EpisodeCount = &n
	}
	return out
}

func episodeOutput(e models.Episode) EpisodeOutput {
	return EpisodeOutput{
		ID:         e.ID,
		PodcastID:  e.PodcastID,
		Title:      e.Title,
		AudioURL:   e.AudioURL,
		Duration:   e.DurationString(),
		PubDate:    e.PubDate,
		ArtworkURL: e.ArtworkURL,
	}
}

func episodeOutputs(episodes []models.Episode) []EpisodeOutput {
	outputs := make([]EpisodeOutput, 0, len(episodes))
	for _, e := range episodes {
		outputs = append(outputs, episodeOutput(e))
	}
	return outputs
}

// missingAudio lists the episodes that resolved no playable enclosure.
func missingAudio(p *models.Podcast) []string {
	var titles []string
	for _, e := range p.Episodes {
		if !e.HasAudio() {
			titles = append(titles, fmt.Sprintf("no playable audio: %s", e.Title))
		}
	}
	return titles
}
