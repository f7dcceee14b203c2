// ABOUTME: Subscribe command for adding a podcast by feed URL
// ABOUTME: Optionally discovers the feed from a website URL before subscribing

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/discover"
	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/subscribe"
)

var subscribeCmd = &cobra.Command{
	Use:     "subscribe <url>",
	Aliases: []string{"sub", "add"},
	Short:   "Subscribe to a podcast",
	Long: `Download and parse a podcast feed and store it with all of its episodes.

With --discover the URL may be a podcast website; podfeed looks for the feed
in the page's alternate links and at common feed paths.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feedURL := args[0]
		useDiscover, _ := cmd.Flags().GetBool("discover")

		faint := color.New(color.Faint).SprintFunc()

		if useDiscover {
			found, err := discover.Discover(cmd.Context(), loader, feedURL)
			if err != nil {
				return fmt.Errorf("failed to discover feed: %w", err)
			}
			fmt.Printf("%s %s\n", faint("Discovered feed:"), found.URL)
			feedURL = found.URL
		}

		var warnings []models.Warning
		podcast, err := svc.With(subscribe.WithWarningSink(models.Collect(&warnings))).Subscribe(cmd.Context(), feedURL)
		if err != nil {
			return err
		}

		writeSubscribed(cmd.OutOrStdout(), podcast, warnings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subscribeCmd)
	subscribeCmd.Flags().BoolP("discover", "d", false, "treat the URL as a website and discover its feed")
}

// writeSubscribed confirms a new subscription and lists each parse warning.
func writeSubscribed(w io.Writer, p *models.Podcast, warnings []models.Warning) {
	green := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w, green("Subscribed to "+p.Title))
	fmt.Fprintf(w, "%s %d\n", faint("Episodes:"), len(p.Episodes))
	writeWarnings(w, warnings)
}
