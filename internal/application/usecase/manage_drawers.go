package usecase

import (
	"context"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/logging"
)

// ManageDrawersUseCase handles the per-root-pane drawer of secondary
// panes. Drawer children live in the same pane store as root panes but
// never appear in tab layouts; their geometry is the drawer's own mini
// layout.
type ManageDrawersUseCase struct {
	ids entity.IDGenerator
}

// NewManageDrawersUseCase creates a new drawer management use case.
func NewManageDrawersUseCase(ids entity.IDGenerator) *ManageDrawersUseCase {
	return &ManageDrawersUseCase{ids: ids}
}

// AddDrawerPaneInput describes the child pane to create under a parent.
type AddDrawerPaneInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID

	Content   entity.Content
	Title     string
	CWD       string
	AgentType string
	Source    entity.Source
	Lifetime  entity.Lifetime
}

// AddDrawerPaneOutput returns the created child.
type AddDrawerPaneOutput struct {
	Pane *entity.Pane
}

// Add creates a drawer child under a root pane. The child is appended
// after the current last child, becomes the drawer's active child, and
// the drawer expands.
func (uc *ManageDrawersUseCase) Add(ctx context.Context, input AddDrawerPaneInput) (*AddDrawerPaneOutput, error) {
	log := logging.FromContext(ctx)
	parent, err := resolveRootPane(input.Workspace, input.ParentID)
	if err != nil {
		return nil, err
	}
	if parent.Drawer == nil {
		parent.Drawer = entity.NewDrawer()
	}
	drawer := parent.Drawer

	child := entity.NewPane(entity.PaneID(uc.ids()), input.Content)
	child.Title = input.Title
	child.CWD = input.CWD
	child.AgentType = input.AgentType
	child.Source = input.Source
	child.ParentID = parent.ID
	if input.Lifetime != "" {
		child.Lifetime = input.Lifetime
	}
	if !input.Workspace.Panes.Add(child) {
		return nil, ErrPaneNotFound
	}

	if len(drawer.Children) == 0 {
		drawer.Layout = layout.NewLeaf(string(child.ID))
	} else {
		last := drawer.Children[len(drawer.Children)-1]
		drawer.Layout = layout.Insert(drawer.Layout, string(child.ID), string(last),
			layout.Horizontal, layout.After, layout.IDGenerator(uc.ids))
	}
	drawer.Children = append(drawer.Children, child.ID)
	drawer.ActiveChild = child.ID
	drawer.Expanded = true

	log.Debug().
		Str("pane_id", string(child.ID)).
		Str("parent_id", string(parent.ID)).
		Msg("added drawer pane")
	return &AddDrawerPaneOutput{Pane: child}, nil
}

// RemoveDrawerPaneInput identifies the child to delete.
type RemoveDrawerPaneInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
	ChildID   entity.PaneID
}

// Remove deletes a drawer child from the child list, the drawer layout,
// the minimized set and the pane store. When the active child is
// removed, another remaining child becomes active. The drawer struct is
// retained even when it empties so its expand flag survives.
func (uc *ManageDrawersUseCase) Remove(ctx context.Context, input RemoveDrawerPaneInput) error {
	log := logging.FromContext(ctx)
	parent, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	if !drawer.HasChild(input.ChildID) {
		return ErrPaneNotFound
	}

	for i, child := range drawer.Children {
		if child == input.ChildID {
			drawer.Children = append(drawer.Children[:i], drawer.Children[i+1:]...)
			break
		}
	}
	drawer.Layout = layout.Remove(drawer.Layout, string(input.ChildID))
	drawer.Minimized = withoutPaneID(drawer.Minimized, input.ChildID)
	if drawer.ActiveChild == input.ChildID {
		drawer.ActiveChild = ""
		if len(drawer.Children) > 0 {
			drawer.ActiveChild = drawer.Children[len(drawer.Children)-1]
		}
	}
	input.Workspace.Panes.Remove(input.ChildID)

	log.Debug().
		Str("pane_id", string(input.ChildID)).
		Str("parent_id", string(parent.ID)).
		Int("remaining", len(drawer.Children)).
		Msg("removed drawer pane")
	return nil
}

// ToggleDrawerInput identifies the drawer by its owning root pane.
type ToggleDrawerInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
}

// Toggle flips the drawer's expanded flag. A drawer with zero children
// has nothing to show, so toggling it is a no-op.
func (uc *ManageDrawersUseCase) Toggle(ctx context.Context, input ToggleDrawerInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	if len(drawer.Children) == 0 {
		return nil
	}
	drawer.Expanded = !drawer.Expanded
	return nil
}

// MinimizeDrawerPaneInput identifies the child to minimize.
type MinimizeDrawerPaneInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
	ChildID   entity.PaneID
}

// Minimize hides a drawer child. At least one child must stay visible
// while any exist, so minimizing the last visible child is refused.
// Minimizing the active child hands focus to a visible sibling.
func (uc *ManageDrawersUseCase) Minimize(ctx context.Context, input MinimizeDrawerPaneInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	if !drawer.HasChild(input.ChildID) {
		return ErrPaneNotFound
	}
	if drawer.IsMinimized(input.ChildID) {
		return nil
	}
	visible := drawer.VisibleChildren()
	if len(visible) <= 1 {
		return ErrLastVisibleChild
	}

	drawer.Minimized = append(drawer.Minimized, input.ChildID)
	if drawer.ActiveChild == input.ChildID {
		for _, child := range visible {
			if child != input.ChildID {
				drawer.ActiveChild = child
				break
			}
		}
	}
	return nil
}

// ExpandDrawerPaneInput identifies the child to restore.
type ExpandDrawerPaneInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
	ChildID   entity.PaneID
}

// Expand removes a child from the minimized set; a child that is not
// minimized is left alone.
func (uc *ManageDrawersUseCase) Expand(ctx context.Context, input ExpandDrawerPaneInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	if !drawer.HasChild(input.ChildID) {
		return ErrPaneNotFound
	}
	drawer.Minimized = withoutPaneID(drawer.Minimized, input.ChildID)
	return nil
}

// ResizeDrawerSplitInput adjusts one split of the drawer layout.
type ResizeDrawerSplitInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
	SplitID   string
	Ratio     float64
}

// ResizeChild sets the ratio of one split inside the drawer layout.
// Unknown split ids leave the layout unchanged.
func (uc *ManageDrawersUseCase) ResizeChild(ctx context.Context, input ResizeDrawerSplitInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	drawer.Layout = layout.Resize(drawer.Layout, input.SplitID, input.Ratio)
	return nil
}

// EqualizeDrawerInput identifies the drawer to equalize.
type EqualizeDrawerInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
}

// EqualizeChildren resets every split in the drawer layout to 0.5.
func (uc *ManageDrawersUseCase) EqualizeChildren(ctx context.Context, input EqualizeDrawerInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	drawer.Layout = layout.Equalize(drawer.Layout)
	return nil
}

// FocusDrawerChildInput selects the drawer child to activate.
type FocusDrawerChildInput struct {
	Workspace *entity.Workspace
	ParentID  entity.PaneID
	ChildID   entity.PaneID
}

// FocusChild makes a visible drawer child the active one.
func (uc *ManageDrawersUseCase) FocusChild(ctx context.Context, input FocusDrawerChildInput) error {
	_, drawer, err := resolveDrawer(input.Workspace, input.ParentID)
	if err != nil {
		return err
	}
	if !drawer.HasChild(input.ChildID) {
		return ErrPaneNotFound
	}
	if drawer.IsMinimized(input.ChildID) {
		drawer.Minimized = withoutPaneID(drawer.Minimized, input.ChildID)
	}
	drawer.ActiveChild = input.ChildID
	return nil
}

// resolveRootPane finds a pane and verifies it may own a drawer.
func resolveRootPane(ws *entity.Workspace, id entity.PaneID) (*entity.Pane, error) {
	if ws == nil {
		return nil, ErrPaneNotFound
	}
	pane := ws.Panes.Get(id)
	if pane == nil {
		return nil, ErrPaneNotFound
	}
	if pane.IsDrawerChild() {
		return nil, ErrNotRootPane
	}
	return pane, nil
}

// resolveDrawer finds a root pane that already carries a drawer.
func resolveDrawer(ws *entity.Workspace, id entity.PaneID) (*entity.Pane, *entity.Drawer, error) {
	pane, err := resolveRootPane(ws, id)
	if err != nil {
		return nil, nil, err
	}
	if pane.Drawer == nil {
		return nil, nil, ErrEmptyDrawer
	}
	return pane, pane.Drawer, nil
}

func withoutPaneID(ids []entity.PaneID, drop entity.PaneID) []entity.PaneID {
	if len(ids) == 0 {
		return ids
	}
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
