// ABOUTME: List command for viewing stored podcast subscriptions
// ABOUTME: Displays title, feed URL, author, and subscription date using color formatting

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List podcast subscriptions",
	Long:    "List every stored podcast sorted by title",
	RunE: func(cmd *cobra.Command, args []string) error {
		podcasts, err := store.ListPodcasts()
		if err != nil {
			return fmt.Errorf("failed to list podcasts: %w", err)
		}

		if len(podcasts) == 0 {
			fmt.Println("No podcasts found. Subscribe with 'podfeed subscribe <url>'")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		for _, p := range podcasts {
			fmt.Print(bold(p.Title))
			if p.Author != nil && *p.Author != "" {
				fmt.Printf(" %s", faint("by "+*p.Author))
			}
			fmt.Println()

			fmt.Printf("  %s", cyan(p.FeedURL))
			if p.DateAdded != nil {
				fmt.Printf(" %s", faint("added "+p.DateAdded.Local().Format(config.DateFormatShort)))
			}
			fmt.Println()
		}

		fmt.Printf("\n%d podcast(s)\n", len(podcasts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
