// ABOUTME: Cobra command for interactive podfeed storage configuration.
// ABOUTME: Launches a bubbletea TUI wizard to select the backend and its location.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/podfeed/internal/config"
	"github.com/harper/podfeed/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:         "setup",
	Short:       "Configure podfeed storage backend",
	Long:        "Interactive wizard to choose sqlite, postgres, or yaml storage and where it lives.",
	Annotations: map[string]string{skipStorage: "true"},
	RunE:        runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	current, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(tui.SetupResult{
		Backend:     current.Backend,
		DataDir:     current.DataDir,
		PostgresDSN: current.PostgresDSN,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	applySetup(current, final.Result())
	if err := current.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := current.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", config.GetConfigPath())
	return nil
}

// applySetup copies wizard values into the config. Fields for the other
// backend kind are left as they were.
func applySetup(c *config.Config, r tui.SetupResult) {
	c.Backend = r.Backend
	if r.Backend == config.BackendPostgres {
		c.PostgresDSN = r.PostgresDSN
		return
	}
	c.DataDir = r.DataDir
}
