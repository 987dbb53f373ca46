// Package entity contains domain entities for the workspace state engine.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import (
	"time"

	"github.com/weftwork/weft/internal/domain/layout"
)

// PaneID uniquely identifies a pane for its entire lifetime.
type PaneID string

// ContentType discriminates the pane content union.
type ContentType string

const (
	ContentTerminal   ContentType = "terminal"
	ContentWebview    ContentType = "webview"
	ContentCodeViewer ContentType = "code_viewer"
)

// TerminalContent is the state of a terminal-backed pane. The terminal
// process itself lives behind the external backend; only the attachment
// parameters are modeled here.
type TerminalContent struct {
	Command string `json:"command,omitempty"`
	Shell   string `json:"shell,omitempty"`
}

// WebviewContent is the state of a browser pane.
type WebviewContent struct {
	URI string `json:"uri,omitempty"`
}

// CodeViewerContent is the state of a read-only code viewer pane.
type CodeViewerContent struct {
	Path     string `json:"path,omitempty"`
	Language string `json:"language,omitempty"`
}

// Content is a tagged union over the pane content kinds. Exactly one
// payload matching Type is set.
type Content struct {
	Type       ContentType        `json:"type"`
	Terminal   *TerminalContent   `json:"terminal,omitempty"`
	Webview    *WebviewContent    `json:"webview,omitempty"`
	CodeViewer *CodeViewerContent `json:"code_viewer,omitempty"`
}

// TerminalPane is a convenience constructor for the common case.
func TerminalPane(command string) Content {
	return Content{Type: ContentTerminal, Terminal: &TerminalContent{Command: command}}
}

// SourceKind discriminates where a pane's working context came from.
type SourceKind string

const (
	SourceWorktree SourceKind = "worktree"
	SourceFloating SourceKind = "floating"
)

// WorktreeSource ties a pane to a discovered git worktree by id. This is
// metadata only: the referenced records may disappear, and stale
// references are pruned at load time rather than enforced here.
type WorktreeSource struct {
	WorktreeID string `json:"worktree_id"`
	RepoID     string `json:"repo_id"`
}

// FloatingSource describes a pane with no worktree binding.
type FloatingSource struct {
	CWD   string `json:"cwd,omitempty"`
	Title string `json:"title,omitempty"`
}

// Source is the pane's origin metadata.
type Source struct {
	Kind     SourceKind      `json:"kind"`
	Worktree *WorktreeSource `json:"worktree,omitempty"`
	Floating *FloatingSource `json:"floating,omitempty"`
}

// FloatingAt returns a floating source rooted at the given directory.
func FloatingAt(cwd string) Source {
	return Source{Kind: SourceFloating, Floating: &FloatingSource{CWD: cwd}}
}

// Residency is a pane's relationship to visibility.
type Residency string

const (
	// ResidencyActive panes are shown in some tab layout.
	ResidencyActive Residency = "active"
	// ResidencyPendingUndo panes belong to a recently closed tab and are
	// kept alive, time-boxed, for undo.
	ResidencyPendingUndo Residency = "pending_undo"
	// ResidencyBackgrounded panes are hidden but alive (orphan pool).
	ResidencyBackgrounded Residency = "backgrounded"
)

// Lifetime controls whether a pane survives into persisted snapshots.
type Lifetime string

const (
	LifetimePersistent Lifetime = "persistent"
	LifetimeTemporary  Lifetime = "temporary"
)

// Pane is the smallest addressable unit of content. A pane is either a
// layout-eligible root pane (ParentID empty, may own a Drawer) or a
// drawer child bound to exactly one root pane. Drawer nesting depth is
// one: children never own drawers of their own.
type Pane struct {
	ID            PaneID
	Content       Content
	Title         string
	CWD           string
	AgentType     string
	Source        Source
	Residency     Residency
	UndoExpiresAt *time.Time
	Lifetime      Lifetime
	ParentID      PaneID
	Drawer        *Drawer
	CreatedAt     time.Time
}

// NewPane creates an active, persistent root pane.
func NewPane(id PaneID, content Content) *Pane {
	return &Pane{
		ID:        id,
		Content:   content,
		Residency: ResidencyActive,
		Lifetime:  LifetimePersistent,
		CreatedAt: time.Now(),
	}
}

// IsDrawerChild reports whether the pane is bound to a parent's drawer.
func (p *Pane) IsDrawerChild() bool {
	return p.ParentID != ""
}

// DisplayTitle returns the pane title, falling back to source metadata.
func (p *Pane) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	if p.Source.Kind == SourceFloating && p.Source.Floating != nil && p.Source.Floating.Title != "" {
		return p.Source.Floating.Title
	}
	return string(p.ID)
}

// Clone returns a deep copy of the pane, including its drawer.
func (p *Pane) Clone() *Pane {
	if p == nil {
		return nil
	}
	clone := *p
	if p.UndoExpiresAt != nil {
		expires := *p.UndoExpiresAt
		clone.UndoExpiresAt = &expires
	}
	clone.Content = p.Content.clone()
	clone.Source = p.Source.clone()
	clone.Drawer = p.Drawer.Clone()
	return &clone
}

func (c Content) clone() Content {
	clone := c
	if c.Terminal != nil {
		t := *c.Terminal
		clone.Terminal = &t
	}
	if c.Webview != nil {
		w := *c.Webview
		clone.Webview = &w
	}
	if c.CodeViewer != nil {
		v := *c.CodeViewer
		clone.CodeViewer = &v
	}
	return clone
}

func (s Source) clone() Source {
	clone := s
	if s.Worktree != nil {
		wt := *s.Worktree
		clone.Worktree = &wt
	}
	if s.Floating != nil {
		fl := *s.Floating
		clone.Floating = &fl
	}
	return clone
}

// Drawer is a per-root-pane container of secondary child panes with its
// own mini layout. A drawer that empties is retained, not dropped, so its
// expand/collapse flag survives (flagged for product confirmation: the
// alternative policy discards empty drawers).
type Drawer struct {
	Children    []PaneID     `json:"children"`
	ActiveChild PaneID       `json:"active_child,omitempty"`
	Expanded    bool         `json:"expanded"`
	Minimized   []PaneID     `json:"minimized,omitempty"`
	Layout      *layout.Node `json:"layout,omitempty"`
}

// NewDrawer returns an empty, expanded drawer.
func NewDrawer() *Drawer {
	return &Drawer{Expanded: true}
}

// HasChild reports membership in the drawer's child list.
func (d *Drawer) HasChild(id PaneID) bool {
	if d == nil {
		return false
	}
	for _, child := range d.Children {
		if child == id {
			return true
		}
	}
	return false
}

// IsMinimized reports whether the child is in the minimized set.
func (d *Drawer) IsMinimized(id PaneID) bool {
	if d == nil {
		return false
	}
	for _, min := range d.Minimized {
		if min == id {
			return true
		}
	}
	return false
}

// VisibleChildren returns children not currently minimized, in order.
func (d *Drawer) VisibleChildren() []PaneID {
	if d == nil {
		return nil
	}
	visible := make([]PaneID, 0, len(d.Children))
	for _, child := range d.Children {
		if !d.IsMinimized(child) {
			visible = append(visible, child)
		}
	}
	return visible
}

// Clone returns a deep copy of the drawer.
func (d *Drawer) Clone() *Drawer {
	if d == nil {
		return nil
	}
	clone := &Drawer{
		ActiveChild: d.ActiveChild,
		Expanded:    d.Expanded,
		Layout:      layout.Clone(d.Layout),
	}
	clone.Children = append([]PaneID(nil), d.Children...)
	if len(d.Minimized) > 0 {
		clone.Minimized = append([]PaneID(nil), d.Minimized...)
	}
	return clone
}
