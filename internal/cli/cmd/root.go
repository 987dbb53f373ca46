// Package cmd provides Cobra CLI commands for weft.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weftwork/weft/internal/cli"
	"github.com/weftwork/weft/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "weft",
		Short: "A terminal workspace shell with persistent layouts",
		Long: `Weft - a terminal workspace shell.

Weft arranges terminal panes into tabs with named arrangements, keeps
backgrounded panes alive in an orphan pool, and persists the whole
workspace so it survives restarts.

Features:
  - Split-tree pane layouts with directional navigation
  - Tabs with multiple named arrangements per tab
  - Per-pane drawers for attached helper panes
  - Undo for closed tabs with a bounded history
  - Automatic debounced state persistence

Use 'weft open' to launch the workspace shell, or explore the
subcommands for CLI-based operations like browsing and restoring
saved workspaces.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// openCmd is a placeholder for help - actual execution is in main.go
var openCmd = &cobra.Command{
	Use:   "open [workspace-id]",
	Short: "Launch the workspace shell",
	Long: `Launch the graphical workspace shell.

If a workspace ID is provided, restore that workspace. Otherwise, the
most recently saved workspace is restored when auto-restore is enabled.

Examples:
  weft open                 # Open the last workspace
  weft open myproject       # Open a specific workspace`,
	Run: func(_ *cobra.Command, _ []string) {
		// This is handled by main.go before cobra runs
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
