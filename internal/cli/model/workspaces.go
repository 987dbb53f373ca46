// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weftwork/weft/internal/cli/styles"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/logging"
)

// WorkspacesModel is the Bubble Tea model for the interactive workspace
// snapshot browser.
type WorkspacesModel struct {
	help    help.Model
	keys    workspacesKeyMap
	confirm *styles.ConfirmModel

	snapshots     []*entity.WorkspaceSnapshot
	selectedIdx   int
	expandedIdx   int // -1 means none expanded
	width         int
	height        int
	err           error
	statusMessage string

	ctx       context.Context
	stateRepo repository.WorkspaceStateRepository
	theme     *styles.Theme
}

// workspacesKeyMap defines keybindings for the workspace browser.
type workspacesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k workspacesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Delete, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k workspacesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand},
		{k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

func defaultWorkspacesKeyMap() workspacesKeyMap {
	return workspacesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewWorkspacesModel creates a new workspace browser model.
func NewWorkspacesModel(ctx context.Context, theme *styles.Theme, stateRepo repository.WorkspaceStateRepository) WorkspacesModel {
	return WorkspacesModel{
		help:        help.New(),
		keys:        defaultWorkspacesKeyMap(),
		expandedIdx: -1,
		width:       80,
		height:      24,
		ctx:         ctx,
		stateRepo:   stateRepo,
		theme:       theme,
	}
}

// Init implements tea.Model.
func (m WorkspacesModel) Init() tea.Cmd {
	return m.loadSnapshots
}

type snapshotsLoadedMsg struct {
	snapshots []*entity.WorkspaceSnapshot
	err       error
}

type snapshotDeletedMsg struct {
	workspaceID entity.WorkspaceID
	err         error
}

func (m WorkspacesModel) loadSnapshots() tea.Msg {
	log := logging.FromContext(m.ctx)
	log.Debug().Msg("loading workspace snapshots")

	snapshots, err := m.stateRepo.GetAll(m.ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load workspace snapshots")
		return snapshotsLoadedMsg{err: err}
	}

	log.Debug().Int("count", len(snapshots)).Msg("loaded workspace snapshots")
	return snapshotsLoadedMsg{snapshots: snapshots}
}

// Update implements tea.Model.
func (m WorkspacesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case snapshotsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.snapshots = msg.snapshots
			m.err = nil
			if m.selectedIdx >= len(m.snapshots) {
				m.selectedIdx = len(m.snapshots) - 1
			}
			if m.selectedIdx < 0 {
				m.selectedIdx = 0
			}
		}
		return m, nil

	case snapshotDeletedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Workspace %s deleted", msg.workspaceID)
		}
		m.expandedIdx = -1
		return m, m.loadSnapshots
	}

	return m, nil
}

func (m WorkspacesModel) handleConfirmModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirm, cmd := m.confirm.Update(msg)
	m.confirm = &confirm
	if m.confirm.Done() {
		if m.confirm.Result() {
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.snapshots) {
				cmd = m.deleteSnapshot(m.snapshots[m.selectedIdx].ID)
			}
		}
		m.confirm = nil
		return m, cmd
	}
	return m, cmd
}

func (m WorkspacesModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.snapshots)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		if m.expandedIdx == m.selectedIdx {
			m.expandedIdx = -1
		} else {
			m.expandedIdx = m.selectedIdx
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedIdx >= 0 && m.selectedIdx < len(m.snapshots) {
			snap := m.snapshots[m.selectedIdx]
			confirm := styles.NewConfirm(m.theme, fmt.Sprintf("Delete workspace %s?", snap.ID))
			m.confirm = &confirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSnapshots

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m WorkspacesModel) deleteSnapshot(id entity.WorkspaceID) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Info().Str("workspace_id", string(id)).Msg("deleting workspace snapshot")

		err := m.stateRepo.Delete(m.ctx, id)
		return snapshotDeletedMsg{workspaceID: id, err: err}
	}
}

// View implements tea.Model.
func (m WorkspacesModel) View() string {
	if m.confirm != nil {
		return m.confirm.View()
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s Error: %v", styles.IconX, m.err)))
		b.WriteString("\n\n")
	}

	if m.statusMessage != "" {
		b.WriteString(t.Subtle.Render(m.statusMessage))
		b.WriteString("\n\n")
	}

	if len(m.snapshots) == 0 {
		b.WriteString(t.Subtle.Render("  No saved workspaces found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderSnapshotList())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m WorkspacesModel) renderHeader() string {
	t := m.theme

	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	icon := iconStyle.Render(styles.IconWorkspace)
	title := t.Title.MarginLeft(1).Render("Workspaces")
	stats := t.Subtle.Render(fmt.Sprintf("  %d saved", len(m.snapshots)))

	return icon + title + stats
}

func (m WorkspacesModel) renderSnapshotList() string {
	var b strings.Builder

	for i, snap := range m.snapshots {
		isSelected := i == m.selectedIdx
		isExpanded := i == m.expandedIdx

		b.WriteString(m.renderSnapshotRow(snap, isSelected, isExpanded))
		b.WriteString("\n")

		if isExpanded {
			b.WriteString(m.renderSnapshotDetails(snap))
		}
	}

	return b.String()
}

func (m WorkspacesModel) renderSnapshotRow(snap *entity.WorkspaceSnapshot, isSelected, isExpanded bool) string {
	t := m.theme

	cursor := "  "
	if isSelected {
		cursor = t.Highlight.Render(styles.IconCursor + " ")
	}

	idStyle := t.Normal
	if isSelected {
		idStyle = t.Highlight
	}

	name := snap.Name
	if name == "" {
		name = string(snap.ID)
	}

	expandIcon := styles.IconExpand
	if isExpanded {
		expandIcon = styles.IconCollapse
	}

	counts := t.Subtle.Render(fmt.Sprintf("%s %d  %s %d",
		styles.IconTab, len(snap.Tabs),
		styles.IconPane, snap.CountPanes(),
	))

	timeStr := t.Subtle.Render(fmt.Sprintf("%s %s", styles.IconClock, snap.SavedAt.Format("2006-01-02 15:04")))

	return fmt.Sprintf("%s%s  %s  %s  %s",
		cursor,
		idStyle.Render(name),
		t.Subtle.Render(expandIcon),
		counts,
		timeStr,
	)
}

func (m WorkspacesModel) renderSnapshotDetails(snap *entity.WorkspaceSnapshot) string {
	t := m.theme
	var b strings.Builder

	treeStyle := lipgloss.NewStyle().Foreground(t.Border)
	leafStyle := lipgloss.NewStyle().Foreground(t.Muted)

	panesByID := make(map[entity.PaneID]entity.PaneSnapshot, len(snap.Panes))
	for _, pane := range snap.Panes {
		panesByID[pane.ID] = pane
	}

	for tabIdx, tab := range snap.Tabs {
		isLastTab := tabIdx == len(snap.Tabs)-1

		branch := "├── "
		if isLastTab {
			branch = "└── "
		}

		tabName := tab.Name
		if tabName == "" {
			tabName = "Tab"
		}
		suffix := ""
		if len(tab.Arrangements) > 1 {
			suffix = t.Subtle.Render(fmt.Sprintf("  (%d arrangements)", len(tab.Arrangements)))
		}

		b.WriteString(fmt.Sprintf("      %s%s %s%s\n",
			treeStyle.Render(branch),
			leafStyle.Render(styles.IconTab),
			t.Normal.Render(tabName),
			suffix,
		))

		childPrefix := "      │   "
		if isLastTab {
			childPrefix = "          "
		}

		var def *entity.Arrangement
		for _, arr := range tab.Arrangements {
			if arr.IsDefault {
				def = arr
				break
			}
		}
		if def == nil {
			continue
		}

		leaves := layout.Leaves(def.Layout)
		for i, leaf := range leaves {
			isLastLeaf := i == len(leaves)-1
			b.WriteString(m.renderPaneLine(panesByID, entity.PaneID(leaf), childPrefix, isLastLeaf, treeStyle, leafStyle))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func (m WorkspacesModel) renderPaneLine(
	panes map[entity.PaneID]entity.PaneSnapshot,
	id entity.PaneID,
	prefix string,
	isLast bool,
	treeStyle, leafStyle lipgloss.Style,
) string {
	t := m.theme

	branch := "├── "
	if isLast {
		branch = "└── "
	}

	title := string(id)
	var drawerNote string
	if pane, ok := panes[id]; ok {
		if pane.Title != "" {
			title = pane.Title
		} else if pane.CWD != "" {
			title = pane.CWD
		}
		if pane.Drawer != nil && len(pane.Drawer.Children) > 0 {
			drawerNote = t.Subtle.Render(fmt.Sprintf("  %s %d", styles.IconDrawer, len(pane.Drawer.Children)))
		}
	}

	const maxTitleLen = 50
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	return fmt.Sprintf("%s%s%s %s%s\n",
		prefix,
		treeStyle.Render(branch),
		leafStyle.Render(styles.IconPane),
		t.Subtle.Render(title),
		drawerNote,
	)
}

// Ensure interface compliance at compile time.
var _ tea.Model = (*WorkspacesModel)(nil)
