// ABOUTME: Parse command for inspecting a feed or OPML document without storing anything
// ABOUTME: Reads from a local file or URL and prints podcasts, episodes, warnings, or feed URLs

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/opml"
	"github.com/harper/podfeed/internal/parse"
	"github.com/harper/podfeed/internal/subscribe"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|url>",
	Short: "Parse a feed or OPML file without subscribing",
	Long: `Parse a podcast feed and print the podcast, its episodes in feed order,
and any warnings about episodes without playable audio. Nothing is stored.

With --opml the input is read as an OPML subscription list and its outline
tree and unique feed URLs are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOPML, _ := cmd.Flags().GetBool("opml")
		out := cmd.OutOrStdout()

		if asOPML {
			data, err := readSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			doc, err := opml.ParseBytes(data)
			if err != nil {
				return err
			}
			writeOPMLSummary(out, doc)
			return nil
		}

		var warnings []models.Warning
		var podcast *models.Podcast
		if isURL(args[0]) {
			p, err := svc.Preview(cmd.Context(), args[0], models.Collect(&warnings))
			if err != nil {
				return err
			}
			podcast = p
		} else {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			p, err := parse.Feed(data, "", models.Collect(&warnings))
			if err != nil {
				return err
			}
			podcast = p
		}

		writePodcastSummary(out, podcast, warnings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("opml", false, "parse the input as an OPML subscription list")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// readSource loads bytes from a URL through the loader, or from a local file.
func readSource(ctx context.Context, src string) ([]byte, error) {
	if isURL(src) {
		data, err := loader.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", subscribe.ErrDataLoadFailed, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return data, nil
}

func writePodcastSummary(w io.Writer, p *models.Podcast, warnings []models.Warning) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w, bold(p.Title))
	if p.FeedURL != "" {
		fmt.Fprintf(w, "%s %s\n", faint("Feed:"), p.FeedURL)
	}
	if p.Author != nil {
		fmt.Fprintf(w, "%s %s\n", faint("Author:"), *p.Author)
	}
	if p.Link != nil {
		fmt.Fprintf(w, "%s %s\n", faint("Link:"), *p.Link)
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(w, "%s %s\n", faint("Categories:"), strings.Join(p.Categories, ", "))
	}
	fmt.Fprintf(w, "%s %d\n\n", faint("Episodes:"), len(p.Episodes))

	for _, e := range p.Episodes {
		writeEpisodeLine(w, e, "", false)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		writeWarnings(w, warnings)
	}
}

func writeWarnings(w io.Writer, warnings []models.Warning) {
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s %s\n", yellow("warning:"), warn.String())
	}
}

func writeOPMLSummary(w io.Writer, doc *opml.Document) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	title := doc.Head.Title
	if title == "" {
		title = "(untitled OPML)"
	}
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w)

	var walk func(outlines []opml.Outline, depth int)
	walk = func(outlines []opml.Outline, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, o := range outlines {
			if o.XMLURL != "" {
				fmt.Fprintf(w, "%s%s %s\n", indent, o.Label(), faint(o.XMLURL))
			} else {
				fmt.Fprintf(w, "%s%s/\n", indent, o.Label())
			}
			walk(o.Children, depth+1)
		}
	}
	walk(doc.Outlines, 0)

	urls := subscribe.UniqueFeedURLs(doc)
	fmt.Fprintf(w, "\n%d unique feed URL(s)\n", len(urls))
}
