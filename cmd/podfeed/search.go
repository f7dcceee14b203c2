// ABOUTME: Search command for finding episodes by title or show notes
// ABOUTME: Case-insensitive substring search across all stored episodes, newest first

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search episodes",
	Long:  "Search stored episode titles and show notes for a case-insensitive substring",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("limit must be positive, got %d", limit)
		}

		episodes, err := store.SearchEpisodes(query, limit)
		if err != nil {
			return fmt.Errorf("failed to search episodes: %w", err)
		}

		if len(episodes) == 0 {
			fmt.Printf("No episodes match %q\n", query)
			return nil
		}

		titles, err := podcastTitles()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range episodes {
			writeEpisodeLine(out, e, titles[e.PodcastID], true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", config.DefaultSearchLimit, "max results to show")
}
