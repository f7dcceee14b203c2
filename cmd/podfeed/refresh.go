// ABOUTME: Refresh command to reload subscribed podcast feeds and replace their episode lists
// ABOUTME: Handles refreshing every podcast or a single one with colored progress output

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/models"
)

var refreshCmd = &cobra.Command{
	Use:     "refresh [podcast]",
	Aliases: []string{"fetch"},
	Short:   "Refresh podcast feeds",
	Long: `Download every subscribed feed again, or a single podcast's feed, and
replace the stored metadata and episode list with what the feed lists now.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var podcasts []*models.Podcast
		if len(args) == 1 {
			p, err := resolvePodcast(args[0])
			if err != nil {
				return err
			}
			podcasts = []*models.Podcast{p}
		} else {
			listed, err := store.ListPodcasts()
			if err != nil {
				return fmt.Errorf("failed to list podcasts: %w", err)
			}
			podcasts = listed
		}

		if len(podcasts) == 0 {
			fmt.Println("No podcasts found. Subscribe with 'podfeed subscribe <url>'")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		totalEpisodes := 0
		totalErrors := 0
		for _, p := range podcasts {
			fmt.Printf("Refreshing %s... ", p.Title)

			refreshed, err := svc.Refresh(cmd.Context(), p.ID)
			if err != nil {
				fmt.Printf("%s %s\n", red("x"), err.Error())
				totalErrors++
				continue
			}

			fmt.Printf("%s %d episodes\n", green("v"), len(refreshed.Episodes))
			totalEpisodes += len(refreshed.Episodes)
		}

		fmt.Println()
		fmt.Printf("Summary: %d podcast(s) refreshed\n", len(podcasts)-totalErrors)
		fmt.Printf("  %s %d episodes stored\n", green("v"), totalEpisodes)
		if totalErrors > 0 {
			fmt.Printf("  %s %d errors\n", red("x"), totalErrors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
