// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for listening queues and subscription upkeep

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerWeeklyListeningPrompt()
	s.registerTriageSubscriptionsPrompt()
}

func (s *Server) registerWeeklyListeningPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "weekly-listening",
			Description: "Build a listening queue from episodes published in the last few days across your podcasts",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "days",
					Description: "Number of days to look back (default: 7)",
					Required:    false,
				},
			},
		},
		s.handleWeeklyListening,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleWeeklyListening(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := "7"
	if req.Params.Arguments != nil {
		if d, ok := req.Params.Arguments["days"]; ok && d != "" {
			days = d
		}
	}

	template := fmt.Sprintf(`# Weekly Listening Queue

## Overview
Put together a listening queue from episodes published in the past %s days. Refresh your subscriptions first so the queue reflects what the shows have actually released.

## Workflow Steps

### Step 1: Refresh Subscriptions
**Use list_podcasts**, then **refresh_podcast** for each podcast_id.
- Note any podcast whose refresh fails; the feed may have moved
- Note warnings about episodes with no playable audio

### Step 2: Gather Recent Episodes
**Use list_episodes** with since set to a YYYY-MM-DD date %s days ago.
- Episodes without a publish date are left out when since is set
- Use podfeed://episodes/recent for a quick view of this week

### Step 3: Read the Promising Ones
**Use get_episode** with podcast_id and episode_id for episodes whose titles look interesting.
- Descriptions come back as markdown
- Skip episodes without an audio_url; they cannot be played

### Step 4: Build the Queue
Order the queue by what matters most to the listener:
- Topics the listener follows closely first
- Shorter episodes (see duration) as filler between long ones
- Group episodes of the same show together

## Output Format
A numbered list. For each episode give the podcast title, episode title, duration, publish date, and one sentence on why it made the list.
`, days, days)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Listening queue for the last %s days", days),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerTriageSubscriptionsPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "triage-subscriptions",
			Description: "Review subscriptions to find inactive shows, broken feeds, and podcasts worth removing",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleTriageSubscriptions,
	)
}

func (s *Server) handleTriageSubscriptions(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Triage Subscriptions

## Overview
Review every subscription and recommend what to keep, refresh, or remove.

## Workflow Steps

### Step 1: Survey the Library
**Use podfeed://stats** for totals and per-podcast episode counts.
**Use list_podcasts** for the full list with subscription dates.

### Step 2: Check Each Podcast
For each podcast:
- **refresh_podcast** to confirm the feed still loads
- **list_episodes** with podcast_id and limit 3 to see the latest releases
- Flag podcasts with no episode in the last three months as inactive
- Flag podcasts where most episodes have no audio_url as broken

### Step 3: Recommend
Group podcasts into Keep, Watch, and Remove with a short reason for each.
Do not call **unsubscribe** until the user confirms the Remove list.

### Step 4: Back Up
Before removing anything, **use export_opml** and show the user the document so they can keep a copy.
`

	return &mcp.GetPromptResult{
		Description: "Subscription triage workflow",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
