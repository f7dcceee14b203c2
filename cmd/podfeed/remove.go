// ABOUTME: Remove command for unsubscribing from a podcast
// ABOUTME: Deletes the podcast and its episodes after resolving the reference

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <podcast>",
	Aliases: []string{"rm", "unsubscribe"},
	Short:   "Unsubscribe from a podcast",
	Long:    "Remove a podcast and all of its stored episodes. This cannot be undone.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		podcast, err := resolvePodcast(args[0])
		if err != nil {
			return err
		}

		if err := svc.Unsubscribe(podcast.ID); err != nil {
			return fmt.Errorf("failed to remove podcast: %w", err)
		}

		color.Green("Removed %s", podcast.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
