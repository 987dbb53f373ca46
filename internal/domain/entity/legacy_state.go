package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/weftwork/weft/internal/domain/layout"
)

// Schema version 1 predates arrangements: each tab carried a single
// layout. Version 0 means the discriminator is missing entirely, which
// the earliest builds produced; both decode through the same legacy path.

// LegacyWorkspaceState is the v1 on-disk shape.
type LegacyWorkspaceState struct {
	Version      int            `json:"version"`
	ID           WorkspaceID    `json:"id"`
	Name         string         `json:"name,omitempty"`
	Repos        []Repo         `json:"repos,omitempty"`
	Worktrees    []Worktree     `json:"worktrees,omitempty"`
	Panes        []PaneSnapshot `json:"panes"`
	Tabs         []LegacyTab    `json:"tabs"`
	ActiveTabID  TabID          `json:"active_tab_id,omitempty"`
	SidebarWidth float64        `json:"sidebar_width,omitempty"`
	WindowFrame  Frame          `json:"window_frame"`
	CreatedAt    time.Time      `json:"created_at"`
	SavedAt      time.Time      `json:"saved_at"`
}

// LegacyTab is a v1 tab: one layout, no arrangement concept.
type LegacyTab struct {
	ID           TabID        `json:"id"`
	Name         string       `json:"name,omitempty"`
	Layout       *layout.Node `json:"layout,omitempty"`
	ActivePaneID PaneID       `json:"active_pane_id,omitempty"`
	ZoomedPaneID PaneID       `json:"zoomed_pane_id,omitempty"`
	Position     int          `json:"position"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MigrateLegacy transforms a v1 document into the current schema. The
// transformation is pure and deterministic: panes keep their identifiers
// and attributes verbatim, and each tab's sole layout becomes that tab's
// default arrangement with a derived, stable id.
func MigrateLegacy(legacy *LegacyWorkspaceState) *WorkspaceSnapshot {
	if legacy == nil {
		return nil
	}
	snap := &WorkspaceSnapshot{
		Version:      WorkspaceStateVersion,
		ID:           legacy.ID,
		Name:         legacy.Name,
		Repos:        append([]Repo(nil), legacy.Repos...),
		Worktrees:    append([]Worktree(nil), legacy.Worktrees...),
		Panes:        append([]PaneSnapshot(nil), legacy.Panes...),
		ActiveTabID:  legacy.ActiveTabID,
		SidebarWidth: legacy.SidebarWidth,
		WindowFrame:  legacy.WindowFrame,
		CreatedAt:    legacy.CreatedAt,
		SavedAt:      legacy.SavedAt,
	}
	for _, t := range legacy.Tabs {
		defaultID := ArrangementID(fmt.Sprintf("%s-default", t.ID))
		snap.Tabs = append(snap.Tabs, TabSnapshot{
			ID:   t.ID,
			Name: t.Name,
			Arrangements: []*Arrangement{{
				ID:        defaultID,
				Name:      "Default",
				IsDefault: true,
				Layout:    layout.Clone(t.Layout),
			}},
			ActiveArrangementID: defaultID,
			ActivePaneID:        t.ActivePaneID,
			ZoomedPaneID:        t.ZoomedPaneID,
			Position:            t.Position,
			CreatedAt:           t.CreatedAt,
		})
	}
	return snap
}

// DecodeSnapshot parses a persisted workspace state document, migrating
// legacy schemas to the current version. Unknown future versions are an
// error so a downgrade never silently destroys newer state.
func DecodeSnapshot(raw []byte) (*WorkspaceSnapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse workspace state: %w", err)
	}

	switch {
	case probe.Version <= 1:
		var legacy LegacyWorkspaceState
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("parse legacy workspace state: %w", err)
		}
		return MigrateLegacy(&legacy), nil
	case probe.Version == WorkspaceStateVersion:
		var snap WorkspaceSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("parse workspace state: %w", err)
		}
		return &snap, nil
	default:
		return nil, fmt.Errorf("unsupported workspace state version %d", probe.Version)
	}
}

// EncodeSnapshot serializes a snapshot to its canonical JSON form.
func EncodeSnapshot(snap *WorkspaceSnapshot) ([]byte, error) {
	return json.Marshal(snap)
}
