package entity

import (
	"sort"
	"time"

	"github.com/weftwork/weft/internal/domain/layout"
)

// WorkspaceStateVersion is the current schema version for persisted
// workspace state. Increment on breaking serialization changes.
const WorkspaceStateVersion = 2

// WorkspaceSnapshot is the versioned document persisted for a workspace.
type WorkspaceSnapshot struct {
	Version      int            `json:"version"`
	ID           WorkspaceID    `json:"id"`
	Name         string         `json:"name,omitempty"`
	Repos        []Repo         `json:"repos,omitempty"`
	Worktrees    []Worktree     `json:"worktrees,omitempty"`
	Panes        []PaneSnapshot `json:"panes"`
	Tabs         []TabSnapshot  `json:"tabs"`
	ActiveTabID  TabID          `json:"active_tab_id,omitempty"`
	SidebarWidth float64        `json:"sidebar_width,omitempty"`
	WindowFrame  Frame          `json:"window_frame"`
	CreatedAt    time.Time      `json:"created_at"`
	SavedAt      time.Time      `json:"saved_at"`
}

// PaneSnapshot captures one pane record. Temporary panes never appear
// here; PendingUndo residency is not persisted either (the undo window
// does not survive a restart), so Residency is active or backgrounded.
type PaneSnapshot struct {
	ID        PaneID    `json:"id"`
	Content   Content   `json:"content"`
	Title     string    `json:"title,omitempty"`
	CWD       string    `json:"cwd,omitempty"`
	AgentType string    `json:"agent_type,omitempty"`
	Source    Source    `json:"source"`
	Residency Residency `json:"residency"`
	ParentID  PaneID    `json:"parent_id,omitempty"`
	Drawer    *Drawer   `json:"drawer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TabSnapshot captures one tab with all its arrangements.
type TabSnapshot struct {
	ID                  TabID          `json:"id"`
	Name                string         `json:"name,omitempty"`
	Arrangements        []*Arrangement `json:"arrangements"`
	ActiveArrangementID ArrangementID  `json:"active_arrangement_id,omitempty"`
	ActivePaneID        PaneID         `json:"active_pane_id,omitempty"`
	ZoomedPaneID        PaneID         `json:"zoomed_pane_id,omitempty"`
	Position            int            `json:"position"`
	CreatedAt           time.Time      `json:"created_at"`
}

// SnapshotWorkspace serializes a live workspace with save-time filtering
// applied to the copy only: temporary panes are excluded (cascading to
// their drawer children), panes held for undo are dropped, layouts are
// pruned with split-collapse, emptied arrangements and tabs disappear,
// and dangling active pointers are rewritten. Live state is never touched.
func SnapshotWorkspace(ws *Workspace, savedAt time.Time) *WorkspaceSnapshot {
	snap := &WorkspaceSnapshot{
		Version:      WorkspaceStateVersion,
		ID:           ws.ID,
		Name:         ws.Name,
		Repos:        append([]Repo(nil), ws.Repos...),
		Worktrees:    append([]Worktree(nil), ws.Worktrees...),
		ActiveTabID:  ws.ActiveTabID,
		SidebarWidth: ws.SidebarWidth,
		WindowFrame:  ws.WindowFrame,
		CreatedAt:    ws.CreatedAt,
		SavedAt:      savedAt,
	}

	for _, p := range ws.Panes.All() {
		snap.Panes = append(snap.Panes, snapshotPane(p))
	}
	for _, t := range ws.Tabs {
		snap.Tabs = append(snap.Tabs, snapshotTab(t))
	}

	excluded := make(map[PaneID]bool)
	for _, p := range snap.Panes {
		pane := ws.Panes.Get(p.ID)
		if pane == nil {
			continue
		}
		if pane.Lifetime == LifetimeTemporary || pane.Residency == ResidencyPendingUndo {
			excluded[p.ID] = true
		}
	}
	return filterSnapshot(snap, excluded)
}

func snapshotPane(p *Pane) PaneSnapshot {
	return PaneSnapshot{
		ID:        p.ID,
		Content:   p.Content.clone(),
		Title:     p.Title,
		CWD:       p.CWD,
		AgentType: p.AgentType,
		Source:    p.Source.clone(),
		Residency: p.Residency,
		ParentID:  p.ParentID,
		Drawer:    p.Drawer.Clone(),
		CreatedAt: p.CreatedAt,
	}
}

func snapshotTab(t *Tab) TabSnapshot {
	clone := t.Clone()
	return TabSnapshot{
		ID:                  clone.ID,
		Name:                clone.Name,
		Arrangements:        clone.Arrangements,
		ActiveArrangementID: clone.ActiveArrangementID,
		ActivePaneID:        clone.ActivePaneID,
		ZoomedPaneID:        clone.ZoomedPaneID,
		Position:            clone.Position,
		CreatedAt:           clone.CreatedAt,
	}
}

// FilterForLoad applies load-time filtering to a decoded snapshot: the
// same pruning as at save time, plus removal of panes whose worktree or
// repo metadata no longer resolves against the snapshot's records.
func FilterForLoad(snap *WorkspaceSnapshot) *WorkspaceSnapshot {
	if snap == nil {
		return nil
	}
	repos := make(map[string]bool, len(snap.Repos))
	for _, r := range snap.Repos {
		repos[r.ID] = true
	}
	worktrees := make(map[string]bool, len(snap.Worktrees))
	for _, wt := range snap.Worktrees {
		worktrees[wt.ID] = true
	}

	excluded := make(map[PaneID]bool)
	for _, p := range snap.Panes {
		if p.Residency == ResidencyPendingUndo {
			excluded[p.ID] = true
			continue
		}
		if p.Source.Kind == SourceWorktree {
			wt := p.Source.Worktree
			if wt == nil || !worktrees[wt.WorktreeID] || !repos[wt.RepoID] {
				excluded[p.ID] = true
			}
		}
	}
	return filterSnapshot(snap, excluded)
}

// filterSnapshot rebuilds the snapshot without the excluded panes.
// Exclusion cascades to drawer children; layouts referencing excluded
// panes are pruned with split-collapse; emptied custom arrangements and
// tabs with an empty default are dropped; dangling active pointers are
// rewritten to a surviving sibling or cleared.
func filterSnapshot(snap *WorkspaceSnapshot, excluded map[PaneID]bool) *WorkspaceSnapshot {
	for _, p := range snap.Panes {
		if p.ParentID != "" && excluded[p.ParentID] {
			excluded[p.ID] = true
		}
	}

	keep := func(pane string) bool { return !excluded[PaneID(pane)] }

	out := *snap
	out.Panes = nil
	out.Tabs = nil

	for _, p := range snap.Panes {
		if excluded[p.ID] {
			continue
		}
		if p.Drawer != nil {
			p.Drawer = filterDrawer(p.Drawer, excluded)
		}
		out.Panes = append(out.Panes, p)
	}
	sort.Slice(out.Panes, func(i, j int) bool { return out.Panes[i].ID < out.Panes[j].ID })

	for _, t := range snap.Tabs {
		var arrangements []*Arrangement
		for _, a := range t.Arrangements {
			filtered := a.Clone()
			filtered.Layout = layout.Filter(filtered.Layout, keep)
			if filtered.Layout == nil && !filtered.IsDefault {
				continue
			}
			arrangements = append(arrangements, filtered)
		}
		t.Arrangements = arrangements

		def := defaultOf(arrangements)
		if def == nil || def.Layout == nil {
			continue
		}

		if findArrangement(arrangements, t.ActiveArrangementID) == nil {
			t.ActiveArrangementID = def.ID
		}
		active := findArrangement(arrangements, t.ActiveArrangementID)
		if !active.Contains(t.ActivePaneID) {
			members := active.PaneIDs()
			if len(members) > 0 {
				t.ActivePaneID = members[0]
			} else {
				t.ActivePaneID = ""
			}
		}
		if t.ZoomedPaneID != "" && !active.Contains(t.ZoomedPaneID) {
			t.ZoomedPaneID = ""
		}
		out.Tabs = append(out.Tabs, t)
	}
	sort.Slice(out.Tabs, func(i, j int) bool { return out.Tabs[i].Position < out.Tabs[j].Position })
	for i := range out.Tabs {
		out.Tabs[i].Position = i
	}

	if findTabSnapshot(out.Tabs, out.ActiveTabID) == nil {
		if len(out.Tabs) > 0 {
			out.ActiveTabID = out.Tabs[0].ID
		} else {
			out.ActiveTabID = ""
		}
	}
	return &out
}

func filterDrawer(d *Drawer, excluded map[PaneID]bool) *Drawer {
	filtered := d.Clone()
	var children []PaneID
	for _, child := range filtered.Children {
		if !excluded[child] {
			children = append(children, child)
		}
	}
	filtered.Children = children

	var minimized []PaneID
	for _, child := range filtered.Minimized {
		if !excluded[child] {
			minimized = append(minimized, child)
		}
	}
	filtered.Minimized = minimized

	filtered.Layout = layout.Filter(filtered.Layout, func(pane string) bool {
		return !excluded[PaneID(pane)]
	})

	if excluded[filtered.ActiveChild] || !filtered.HasChild(filtered.ActiveChild) {
		filtered.ActiveChild = ""
		for _, child := range filtered.Children {
			if !filtered.IsMinimized(child) {
				filtered.ActiveChild = child
				break
			}
		}
		if filtered.ActiveChild == "" && len(filtered.Children) > 0 {
			filtered.ActiveChild = filtered.Children[0]
		}
	}
	return filtered
}

func defaultOf(arrangements []*Arrangement) *Arrangement {
	for _, a := range arrangements {
		if a.IsDefault {
			return a
		}
	}
	return nil
}

func findArrangement(arrangements []*Arrangement, id ArrangementID) *Arrangement {
	for _, a := range arrangements {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func findTabSnapshot(tabs []TabSnapshot, id TabID) *TabSnapshot {
	for i := range tabs {
		if tabs[i].ID == id {
			return &tabs[i]
		}
	}
	return nil
}

// WorkspaceFromSnapshot reconstructs a live workspace from a snapshot,
// applying load-time filtering first. Pane and tab identifiers are
// preserved exactly.
func WorkspaceFromSnapshot(snap *WorkspaceSnapshot) *Workspace {
	if snap == nil {
		return nil
	}
	snap = FilterForLoad(snap)

	ws := &Workspace{
		ID:           snap.ID,
		Name:         snap.Name,
		Panes:        NewPaneStore(),
		ActiveTabID:  snap.ActiveTabID,
		Repos:        append([]Repo(nil), snap.Repos...),
		Worktrees:    append([]Worktree(nil), snap.Worktrees...),
		SidebarWidth: snap.SidebarWidth,
		WindowFrame:  snap.WindowFrame,
		CreatedAt:    snap.CreatedAt,
	}

	for _, ps := range snap.Panes {
		pane := &Pane{
			ID:        ps.ID,
			Content:   ps.Content,
			Title:     ps.Title,
			CWD:       ps.CWD,
			AgentType: ps.AgentType,
			Source:    ps.Source,
			Residency: ps.Residency,
			Lifetime:  LifetimePersistent,
			ParentID:  ps.ParentID,
			Drawer:    ps.Drawer,
			CreatedAt: ps.CreatedAt,
		}
		if pane.Residency != ResidencyBackgrounded {
			pane.Residency = ResidencyActive
		}
		ws.Panes.Add(pane)
	}

	for i := range snap.Tabs {
		ts := snap.Tabs[i]
		tab := &Tab{
			ID:                  ts.ID,
			Name:                ts.Name,
			Arrangements:        ts.Arrangements,
			ActiveArrangementID: ts.ActiveArrangementID,
			ActivePaneID:        ts.ActivePaneID,
			ZoomedPaneID:        ts.ZoomedPaneID,
			Position:            ts.Position,
			CreatedAt:           ts.CreatedAt,
		}
		ws.Tabs = append(ws.Tabs, tab)
	}
	return ws
}

// CountPanes returns the number of pane records in the snapshot.
func (s *WorkspaceSnapshot) CountPanes() int {
	return len(s.Panes)
}

// IDGenerator produces unique identifiers for panes, tabs, arrangements
// and layout splits.
type IDGenerator func() string
