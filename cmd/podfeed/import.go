// ABOUTME: Import command for subscribing to every feed in an OPML document
// ABOUTME: Subscribes concurrently and prints one status line per feed URL in document order

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/opml"
	"github.com/harper/podfeed/internal/subscribe"
)

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import subscriptions from OPML",
	Long: `Subscribe to every feed listed in an OPML file or URL.

Feeds already subscribed are skipped. Feeds that fail to load or parse are
reported and do not stop the import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = cfg.GetImportConcurrency()
		}

		data, err := readSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		doc, err := opml.ParseBytes(data)
		if err != nil {
			return err
		}

		urls := subscribe.UniqueFeedURLs(doc)
		if len(urls) == 0 {
			fmt.Println("No feed URLs found in OPML")
			return nil
		}
		fmt.Printf("Importing %d feed(s)...\n", len(urls))

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		results := svc.Import(cmd.Context(), doc, concurrency)
		for _, r := range results {
			switch {
			case r.Err == nil:
				fmt.Printf("%s %s %s\n", green("v"), r.Podcast.Title, faint(r.URL))
			case r.Skipped():
				fmt.Printf("%s %s\n", faint("- already subscribed"), faint(r.URL))
			default:
				fmt.Printf("%s %s: %v\n", red("x"), r.URL, r.Err)
			}
		}

		summary := subscribe.Summarize(results)
		fmt.Println()
		fmt.Printf("Summary: %d added, %d skipped, %d failed\n", summary.Added, summary.Skipped, summary.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntP("concurrency", "c", 0, "feeds to load in parallel (default from config)")
}
