// ABOUTME: Play command for opening an episode's audio in the default player
// ABOUTME: Hands the enclosure URL to the platform's URL opener

package main

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <podcast> <episode-id>",
	Short: "Open episode audio in the default player",
	Long:  "Open an episode's audio URL with the system's default handler (browser or media player)",
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

		if episode.AudioURL == nil {
			return fmt.Errorf("episode has no playable audio: %s", episode.Title)
		}

		// Validate URL format and scheme for security
		parsedURL, err := url.Parse(*episode.AudioURL)
		if err != nil {
			return fmt.Errorf("episode has malformed audio URL: %w", err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("audio URL must be http or https, got: %s", parsedURL.Scheme)
		}

		if err := openURL(parsedURL.String()); err != nil {
			return fmt.Errorf("failed to open player: %w", err)
		}

		fmt.Printf("Playing: %s\n", episode.Title)
		return nil
	},
}

// openURL opens a URL with the default handler for the current platform
func openURL(urlStr string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", urlStr)
	case "linux":
		cmd = exec.Command("xdg-open", urlStr)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", urlStr)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	// Reap the process asynchronously to prevent zombie processes
	go cmd.Wait()

	return nil
}

func init() {
	rootCmd.AddCommand(playCmd)
}
