package entity

import (
	"time"

	"github.com/weftwork/weft/internal/domain/layout"
)

// TabID uniquely identifies a tab.
type TabID string

// ArrangementID uniquely identifies an arrangement within a tab.
type ArrangementID string

// Arrangement is a named layout over a subset of a tab's panes. Every tab
// has exactly one default arrangement — the canonical superset of every
// pane the tab holds — plus zero or more custom ones.
type Arrangement struct {
	ID        ArrangementID `json:"id"`
	Name      string        `json:"name"`
	IsDefault bool          `json:"is_default,omitempty"`
	Layout    *layout.Node  `json:"layout,omitempty"`
}

// PaneIDs returns the arrangement's pane membership in layout order.
func (a *Arrangement) PaneIDs() []PaneID {
	leaves := layout.Leaves(a.Layout)
	ids := make([]PaneID, len(leaves))
	for i, leaf := range leaves {
		ids[i] = PaneID(leaf)
	}
	return ids
}

// Contains reports whether the pane belongs to the arrangement.
func (a *Arrangement) Contains(id PaneID) bool {
	return layout.Contains(a.Layout, string(id))
}

// Clone returns a deep copy.
func (a *Arrangement) Clone() *Arrangement {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Layout = layout.Clone(a.Layout)
	return &clone
}

// Tab groups panes and their arrangements. The default arrangement's
// leaves are the tab's pane pool; a tab with an empty default does not
// exist — the engine removes it instead.
type Tab struct {
	ID                  TabID
	Name                string
	Arrangements        []*Arrangement
	ActiveArrangementID ArrangementID
	ActivePaneID        PaneID
	ZoomedPaneID        PaneID
	Position            int
	CreatedAt           time.Time
}

// NewTab creates a tab whose default arrangement holds a single pane.
func NewTab(id TabID, defaultArrangementID ArrangementID, initial PaneID) *Tab {
	def := &Arrangement{
		ID:        defaultArrangementID,
		Name:      "Default",
		IsDefault: true,
		Layout:    layout.NewLeaf(string(initial)),
	}
	return &Tab{
		ID:                  id,
		Arrangements:        []*Arrangement{def},
		ActiveArrangementID: def.ID,
		ActivePaneID:        initial,
		CreatedAt:           time.Now(),
	}
}

// DefaultArrangement returns the tab's default arrangement.
func (t *Tab) DefaultArrangement() *Arrangement {
	for _, a := range t.Arrangements {
		if a.IsDefault {
			return a
		}
	}
	return nil
}

// ActiveArrangement returns the currently active arrangement, falling
// back to the default when the active id dangles.
func (t *Tab) ActiveArrangement() *Arrangement {
	if a := t.FindArrangement(t.ActiveArrangementID); a != nil {
		return a
	}
	return t.DefaultArrangement()
}

// FindArrangement returns the arrangement with the given id, or nil.
func (t *Tab) FindArrangement(id ArrangementID) *Arrangement {
	for _, a := range t.Arrangements {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// PaneIDs returns the tab's full pane pool (the default arrangement's
// membership).
func (t *Tab) PaneIDs() []PaneID {
	def := t.DefaultArrangement()
	if def == nil {
		return nil
	}
	return def.PaneIDs()
}

// Contains reports whether the pane belongs to the tab's pool.
func (t *Tab) Contains(id PaneID) bool {
	def := t.DefaultArrangement()
	return def != nil && def.Contains(id)
}

// Clone returns a deep copy of the tab and its arrangements.
func (t *Tab) Clone() *Tab {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Arrangements = make([]*Arrangement, len(t.Arrangements))
	for i, a := range t.Arrangements {
		clone.Arrangements[i] = a.Clone()
	}
	return &clone
}
