package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/cli/model"
	"github.com/weftwork/weft/internal/domain/entity"
)

var workspacesJSON bool

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "Manage saved workspaces",
	Long: `View, restore, and manage saved workspaces.

Workspace state is saved automatically while the shell runs. You can
list saved workspaces and inspect their tabs and panes.

Run without arguments to open the interactive workspace browser.`,
	RunE: runWorkspaces,
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
}

func runWorkspaces(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewWorkspacesModel(app.Ctx(), app.Theme, app.States)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// workspaces list
var workspacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspaces",
	Long:  `List all saved workspaces with their tab and pane counts.`,
	RunE:  runWorkspacesList,
}

func init() {
	workspacesCmd.AddCommand(workspacesListCmd)
	workspacesListCmd.Flags().BoolVar(&workspacesJSON, "json", false, "output as JSON")
}

func runWorkspacesList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	snapshots, err := app.States.GetAll(app.Ctx())
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	if workspacesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	return outputWorkspacesTable(snapshots)
}

func outputWorkspacesTable(snapshots []*entity.WorkspaceSnapshot) error {
	if len(snapshots) == 0 {
		fmt.Println("No saved workspaces found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WORKSPACE ID\tNAME\tTABS\tPANES\tLAST SAVED")

	for _, snap := range snapshots {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			snap.ID,
			snap.Name,
			len(snap.Tabs),
			snap.CountPanes(),
			snap.SavedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// workspaces restore <id>
var workspacesRestoreCmd = &cobra.Command{
	Use:   "restore <workspace-id>",
	Short: "Validate and preview a workspace restore",
	Long: `Decode a saved workspace and report what a restore would bring back.

Stale panes (for example panes tied to a worktree that no longer
exists in the snapshot) are filtered out, matching what the shell does
on startup.

You can use a short suffix of the workspace ID as long as it's unique.

Example:
  weft workspaces restore myproject
  weft workspaces restore ject`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspacesRestore,
}

func init() {
	workspacesCmd.AddCommand(workspacesRestoreCmd)
}

func runWorkspacesRestore(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	snap, err := findWorkspaceByIDOrSuffix(args[0])
	if err != nil {
		return err
	}

	out, err := app.RestoreUC.Execute(app.Ctx(), usecase.RestoreWorkspaceInput{
		WorkspaceID: snap.ID,
	})
	if err != nil {
		return fmt.Errorf("restore workspace: %w", err)
	}
	if out.Fresh {
		return fmt.Errorf("workspace %s has no restorable state", snap.ID)
	}

	ws := out.Workspace
	fmt.Printf("Workspace %s: %d tabs, %d panes restorable.\n",
		ws.ID, len(ws.Tabs), ws.Panes.Len())
	return nil
}

// workspaces delete <id>
var workspacesDeleteCmd = &cobra.Command{
	Use:   "delete <workspace-id>",
	Short: "Delete a saved workspace",
	Long: `Delete a saved workspace snapshot.

This permanently removes the stored state. A running shell keeps its
in-memory workspace and will write a fresh snapshot on its next save.

You can use a short suffix of the workspace ID as long as it's unique.

Example:
  weft workspaces delete myproject
  weft workspaces delete ject`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspacesDelete,
}

func init() {
	workspacesCmd.AddCommand(workspacesDeleteCmd)
}

func runWorkspacesDelete(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	snap, err := findWorkspaceByIDOrSuffix(args[0])
	if err != nil {
		return err
	}

	if err := app.States.Delete(app.Ctx(), snap.ID); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	fmt.Printf("Workspace %s deleted.\n", snap.ID)
	return nil
}

// findWorkspaceByIDOrSuffix finds a saved workspace by exact ID or unique suffix.
func findWorkspaceByIDOrSuffix(idOrSuffix string) (*entity.WorkspaceSnapshot, error) {
	app := GetApp()
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	snapshots, err := app.States.GetAll(app.Ctx())
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	var matches []*entity.WorkspaceSnapshot
	for _, snap := range snapshots {
		if string(snap.ID) == idOrSuffix {
			return snap, nil
		}
		if strings.HasSuffix(string(snap.ID), idOrSuffix) {
			matches = append(matches, snap)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no workspace found matching '%s'", idOrSuffix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous workspace ID '%s' matches %d workspaces - be more specific", idOrSuffix, len(matches))
	}
}
