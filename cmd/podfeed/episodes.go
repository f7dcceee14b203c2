// ABOUTME: Episodes command for browsing stored episodes newest first
// ABOUTME: Filters by podcast and publish date, and prints one line per episode

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/storage"
	"github.com/harper/podfeed/internal/timeutil"
)

var episodesCmd = &cobra.Command{
	Use:     "episodes [podcast]",
	Aliases: []string{"eps", "e"},
	Short:   "List episodes",
	Long: `List stored episodes newest first, across all podcasts or for one podcast.

The podcast may be given as its feed URL, a prefix of it, or part of its title.
--since accepts today, yesterday, week, month, or a YYYY-MM-DD date. Episodes
without a publish date are listed last and are left out when --since is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		if limit < 0 {
			return fmt.Errorf("limit must be non-negative, got %d", limit)
		}

		filter := &storage.EpisodeFilter{}
		if limit > 0 {
			filter.Limit = &limit
		}

		if len(args) == 1 {
			podcast, err := resolvePodcast(args[0])
			if err != nil {
				return err
			}
			filter.PodcastID = &podcast.ID
		}

		if since != "" {
			t, err := timeutil.ParseSince(since)
			if err != nil {
				return err
			}
			filter.Since = &t
		}

		episodes, err := store.ListEpisodes(filter)
		if err != nil {
			return fmt.Errorf("failed to list episodes: %w", err)
		}

		if len(episodes) == 0 {
			fmt.Println("No episodes found")
			return nil
		}

		titles, err := podcastTitles()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range episodes {
			writeEpisodeLine(out, e, titles[e.PodcastID], filter.PodcastID == nil)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(episodesCmd)

	episodesCmd.Flags().StringP("since", "s", "", "only episodes published since: today, yesterday, week, month, or YYYY-MM-DD")
	episodesCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max episodes to show (0 for all)")
}

// podcastTitles maps podcast IDs to titles for display.
func podcastTitles() (map[string]string, error) {
	podcasts, err := store.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("failed to list podcasts: %w", err)
	}
	titles := make(map[string]string, len(podcasts))
	for _, p := range podcasts {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

// writeEpisodeLine prints a single episode: short ID, title, podcast, date, duration.
func writeEpisodeLine(w io.Writer, e models.Episode, podcastTitle string, withPodcast bool) {
	faint := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %s", faint(shortID(e.ID)), e.Title)
	if withPodcast && podcastTitle != "" {
		fmt.Fprintf(w, " %s", faint("("+podcastTitle+")"))
	}
	if e.PubDate != nil {
		fmt.Fprintf(w, " %s", faint(e.PubDate.Local().Format(config.DateFormatShort)))
	}
	if d := e.DurationString(); d != "" {
		fmt.Fprintf(w, " %s", faint(d))
	}
	if !e.HasAudio() {
		fmt.Fprintf(w, " %s", yellow("[no audio]"))
	}
	fmt.Fprintln(w)
}
