// ABOUTME: Export command for writing stored subscriptions as OPML
// ABOUTME: Outputs to stdout by default, or atomically to a file with --output

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export subscriptions as OPML",
	Long:  "Export every stored podcast as an OPML 2.0 document for backup or import into another app",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		output, _ := cmd.Flags().GetString("output")

		doc, err := svc.Export(title)
		if err != nil {
			return err
		}

		if output == "" {
			return doc.Write(cmd.OutOrStdout())
		}

		if err := doc.WriteFile(config.ExpandPath(output)); err != nil {
			return err
		}
		fmt.Printf("Exported %d podcast(s) to %s\n", len(doc.AllFeedURLs()), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("title", config.OPMLExportTitle, "OPML document title")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
