package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weftwork/weft/internal/domain/entity"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and migrate persisted workspace state",
	Long: `Low-level access to persisted workspace state.

These commands operate on the raw state documents. Older schema
versions are migrated to the current one on read.`,
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

// state show <id>
var stateShowCmd = &cobra.Command{
	Use:   "show <workspace-id>",
	Short: "Dump a workspace's stored state as JSON",
	Long: `Print the stored state document for a workspace.

The document is printed after load-time filtering, so it reflects what
the shell would actually restore. Legacy-schema documents are migrated
before printing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStateShow,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
}

func runStateShow(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	snap, err := findWorkspaceByIDOrSuffix(args[0])
	if err != nil {
		return err
	}

	filtered := entity.FilterForLoad(snap)
	data, err := entity.EncodeSnapshot(filtered)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

// state migrate <file>
var stateMigrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Migrate a state document file to the current schema",
	Long: `Read a workspace state JSON document, migrate it to the current
schema version, and print the result.

Migration is deterministic: running it twice produces identical output.
Pass '-' to read from stdin.

Example:
  weft state migrate old-state.json > new-state.json`,
	Args: cobra.ExactArgs(1),
	RunE: runStateMigrate,
}

func init() {
	stateCmd.AddCommand(stateMigrateCmd)
}

func runStateMigrate(_ *cobra.Command, args []string) error {
	var raw []byte
	var err error

	if args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}

	snap, err := entity.DecodeSnapshot(raw)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	data, err := entity.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
