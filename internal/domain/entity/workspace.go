package entity

import "time"

// WorkspaceID uniquely identifies a workspace.
type WorkspaceID string

// Frame is a window rectangle in screen coordinates.
type Frame struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Workspace is the aggregate the engine operates on: the pane store, the
// ordered tab list, and the discovery records used for snapshot pruning.
// It offers queries and list bookkeeping; domain mutations live in the
// usecase layer, which sequences calls across these stores.
type Workspace struct {
	ID           WorkspaceID
	Name         string
	Panes        *PaneStore
	Tabs         []*Tab
	ActiveTabID  TabID
	Repos        []Repo
	Worktrees    []Worktree
	SidebarWidth float64
	WindowFrame  Frame
	CreatedAt    time.Time
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(id WorkspaceID, name string) *Workspace {
	return &Workspace{
		ID:        id,
		Name:      name,
		Panes:     NewPaneStore(),
		CreatedAt: time.Now(),
	}
}

// FindTab returns the tab with the given id, or nil.
func (w *Workspace) FindTab(id TabID) *Tab {
	for _, tab := range w.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// ActiveTab returns the currently active tab, or nil.
func (w *Workspace) ActiveTab() *Tab {
	return w.FindTab(w.ActiveTabID)
}

// TabContaining returns the tab whose pane pool holds the given pane.
func (w *Workspace) TabContaining(id PaneID) *Tab {
	for _, tab := range w.Tabs {
		if tab.Contains(id) {
			return tab
		}
	}
	return nil
}

// AppendTab adds a tab at the end of the list and makes it active when no
// tab was active before.
func (w *Workspace) AppendTab(tab *Tab) {
	tab.Position = len(w.Tabs)
	w.Tabs = append(w.Tabs, tab)
	if w.ActiveTabID == "" {
		w.ActiveTabID = tab.ID
	}
}

// InsertTabAt places a tab at the given index, clamped into the current
// list, and reindexes positions.
func (w *Workspace) InsertTabAt(tab *Tab, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(w.Tabs) {
		index = len(w.Tabs)
	}
	w.Tabs = append(w.Tabs[:index], append([]*Tab{tab}, w.Tabs[index:]...)...)
	w.reindexTabs()
}

// RemoveTab deletes a tab by id, reindexes positions, and moves the
// active tab to a neighbor when the removed tab was active. Returns the
// removed tab's index and whether it was found.
func (w *Workspace) RemoveTab(id TabID) (int, bool) {
	for i, tab := range w.Tabs {
		if tab.ID != id {
			continue
		}
		w.Tabs = append(w.Tabs[:i], w.Tabs[i+1:]...)
		w.reindexTabs()
		if w.ActiveTabID == id {
			switch {
			case len(w.Tabs) == 0:
				w.ActiveTabID = ""
			case i < len(w.Tabs):
				w.ActiveTabID = w.Tabs[i].ID
			default:
				w.ActiveTabID = w.Tabs[len(w.Tabs)-1].ID
			}
		}
		return i, true
	}
	return 0, false
}

func (w *Workspace) reindexTabs() {
	for i := range w.Tabs {
		w.Tabs[i].Position = i
	}
}

// RepoByID returns the discovery record for a repo id.
func (w *Workspace) RepoByID(id string) (Repo, bool) {
	for _, r := range w.Repos {
		if r.ID == id {
			return r, true
		}
	}
	return Repo{}, false
}

// WorktreeByID returns the discovery record for a worktree id.
func (w *Workspace) WorktreeByID(id string) (Worktree, bool) {
	for _, wt := range w.Worktrees {
		if wt.ID == id {
			return wt, true
		}
	}
	return Worktree{}, false
}
