// ABOUTME: Show command for viewing an episode's details and show notes
// ABOUTME: Displays episode metadata and renders the description as markdown

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/content"
	"github.com/harper/podfeed/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <podcast> <episode-id>",
	Short: "Show an episode",
	Long:  "Display an episode's details and its show notes rendered as markdown",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		podcast, err := resolvePodcast(args[0])
		if err != nil {
			return err
		}
		episode, err := resolveEpisode(podcast, args[1])
		if err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		writeEpisode(cmd.OutOrStdout(), podcast, episode, plain)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("plain", false, "print show notes as plain markdown without terminal rendering")
}

// writeEpisode prints the episode header followed by its notes.
func writeEpisode(w io.Writer, podcast *models.Podcast, episode *models.Episode, plain bool) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(w, strings.Repeat("─", config.SeparatorWidth))
	fmt.Fprintf(w, "%s\n\n", bold(episode.Title))
	fmt.Fprintf(w, "%s %s\n", faint("Podcast:"), podcast.Title)
	fmt.Fprintf(w, "%s %s\n", faint("ID:"), episode.ID)

	if episode.PubDate != nil {
		fmt.Fprintf(w, "%s %s\n", faint("Published:"), episode.PubDate.Local().Format(config.DateFormatLong))
	}
	if d := episode.DurationString(); d != "" {
		fmt.Fprintf(w, "%s %s\n", faint("Duration:"), d)
	}
	if episode.AudioURL != nil {
		fmt.Fprintf(w, "%s %s\n", faint("Audio:"), cyan(*episode.AudioURL))
	} else {
		fmt.Fprintf(w, "%s %s\n", faint("Audio:"), yellow("none"))
	}
	if episode.ArtworkURL != nil {
		fmt.Fprintf(w, "%s %s\n", faint("Artwork:"), *episode.ArtworkURL)
	}

	fmt.Fprintln(w, strings.Repeat("─", config.SeparatorWidth))

	if episode.Description == nil || *episode.Description == "" {
		fmt.Fprintln(w, "\n(No show notes available)")
		return
	}

	notes := *episode.Description
	if content.IsHTML(notes) {
		notes = content.ToMarkdown(notes)
	}

	if plain {
		fmt.Fprintf(w, "\n%s\n", notes)
		return
	}

	rendered, err := glamour.Render(notes, "dark")
	if err != nil {
		// Fall back to plain markdown if rendering fails
		fmt.Fprintf(w, "%s\n", faint("(markdown rendering unavailable, showing plain text)"))
		fmt.Fprintf(w, "\n%s\n", notes)
		return
	}
	fmt.Fprint(w, rendered)
}
