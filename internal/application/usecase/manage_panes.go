package usecase

import (
	"context"
	"fmt"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/logging"
)

// ManagePanesUseCase handles root-pane lifecycle and layout operations.
type ManagePanesUseCase struct {
	ids entity.IDGenerator
}

// NewManagePanesUseCase creates a new pane management use case.
func NewManagePanesUseCase(ids entity.IDGenerator) *ManagePanesUseCase {
	return &ManagePanesUseCase{ids: ids}
}

// OpenPaneInput contains parameters for opening a pane.
type OpenPaneInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID // empty: the active tab
	NewTab    bool         // force a fresh tab for the pane

	// Placement relative to an existing pane; Target empty means after
	// the tab's last pane.
	Target    entity.PaneID
	Direction layout.Direction
	Position  layout.Position

	Content   entity.Content
	Title     string
	CWD       string
	AgentType string
	Source    entity.Source
	Lifetime  entity.Lifetime
}

// OpenPaneOutput is the result of opening a pane.
type OpenPaneOutput struct {
	Pane       *entity.Pane
	Tab        *entity.Tab
	CreatedTab bool
}

// Open creates a pane in the store and inserts it into a tab layout,
// creating a tab when none fits. Insertion follows the propagation rule:
// it lands in the active arrangement (when the target is a member) and
// always in the default arrangement.
func (uc *ManagePanesUseCase) Open(ctx context.Context, input OpenPaneInput) (*OpenPaneOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}

	pane := entity.NewPane(entity.PaneID(uc.ids()), input.Content)
	pane.Title = input.Title
	pane.CWD = input.CWD
	pane.AgentType = input.AgentType
	pane.Source = input.Source
	if input.Lifetime != "" {
		pane.Lifetime = input.Lifetime
	}
	if !ws.Panes.Add(pane) {
		return nil, fmt.Errorf("pane id collision: %s", pane.ID)
	}

	if input.NewTab || len(ws.Tabs) == 0 {
		tab := entity.NewTab(entity.TabID(uc.ids()), entity.ArrangementID(uc.ids()), pane.ID)
		tab.Name = input.Title
		ws.AppendTab(tab)
		ws.ActiveTabID = tab.ID
		log.Debug().Str("pane_id", string(pane.ID)).Str("tab_id", string(tab.ID)).Msg("opened pane in new tab")
		return &OpenPaneOutput{Pane: pane, Tab: tab, CreatedTab: true}, nil
	}

	tab := ws.FindTab(input.TabID)
	if input.TabID == "" {
		tab = ws.ActiveTab()
	}
	if tab == nil {
		ws.Panes.Remove(pane.ID)
		return nil, ErrTabNotFound
	}

	if !insertPaneIntoTab(tab, pane.ID, input.Target, input.Direction, input.Position, uc.ids) {
		ws.Panes.Remove(pane.ID)
		return nil, ErrPaneNotFound
	}
	tab.ActivePaneID = pane.ID

	log.Debug().
		Str("pane_id", string(pane.ID)).
		Str("tab_id", string(tab.ID)).
		Msg("opened pane")
	return &OpenPaneOutput{Pane: pane, Tab: tab}, nil
}

// ClosePaneInput identifies the pane to close.
type ClosePaneInput struct {
	Workspace *entity.Workspace
	PaneID    entity.PaneID
}

// ClosePaneOutput reports what the close removed.
type ClosePaneOutput struct {
	RemovedPaneIDs []entity.PaneID // includes cascaded drawer children
	ClosedTabID    entity.TabID    // non-empty when the tab emptied and was removed
}

// Close deletes a root pane: it leaves every arrangement of its tab, its
// drawer children cascade out of the store, and the tab itself closes
// when its default arrangement empties.
func (uc *ManagePanesUseCase) Close(ctx context.Context, input ClosePaneInput) (*ClosePaneOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	pane := ws.Panes.Get(input.PaneID)
	if pane == nil {
		return nil, ErrPaneNotFound
	}
	if pane.IsDrawerChild() {
		// Drawer children are closed through the drawer operations.
		return nil, ErrDrawerChild
	}

	out := &ClosePaneOutput{}
	if tab := ws.TabContaining(input.PaneID); tab != nil {
		if removePaneFromTab(ws, tab, input.PaneID) {
			out.ClosedTabID = tab.ID
		}
	}
	out.RemovedPaneIDs = ws.Panes.Remove(input.PaneID)

	log.Debug().
		Str("pane_id", string(input.PaneID)).
		Int("removed", len(out.RemovedPaneIDs)).
		Str("closed_tab", string(out.ClosedTabID)).
		Msg("closed pane")
	return out, nil
}

// MovePaneInput moves a pane from its current tab into another.
type MovePaneInput struct {
	Workspace *entity.Workspace
	PaneID    entity.PaneID
	ToTabID   entity.TabID
	Target    entity.PaneID
	Direction layout.Direction
	Position  layout.Position
}

// MovePaneOutput reports the move result.
type MovePaneOutput struct {
	SourceTabClosed bool
}

// Move relocates a root pane between tabs, applying the propagation rule
// on both sides.
func (uc *ManagePanesUseCase) Move(ctx context.Context, input MovePaneInput) (*MovePaneOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	pane := ws.Panes.Get(input.PaneID)
	if pane == nil {
		return nil, ErrPaneNotFound
	}
	if pane.IsDrawerChild() {
		return nil, ErrDrawerChild
	}
	source := ws.TabContaining(input.PaneID)
	if source == nil {
		return nil, ErrPaneNotInTab
	}
	dest := ws.FindTab(input.ToTabID)
	if dest == nil {
		return nil, ErrTabNotFound
	}
	if dest.ID == source.ID {
		return &MovePaneOutput{}, nil
	}
	// Validate the destination target before touching the source so a
	// miss leaves everything unchanged.
	if input.Target != "" && !dest.Contains(input.Target) {
		return nil, ErrPaneNotFound
	}

	closed := removePaneFromTab(ws, source, input.PaneID)
	if !insertPaneIntoTab(dest, input.PaneID, input.Target, input.Direction, input.Position, uc.ids) {
		// Destination emptied concurrently is impossible in the
		// single-owner model; treat as a structural miss regardless.
		return nil, ErrPaneNotFound
	}
	dest.ActivePaneID = input.PaneID

	log.Debug().
		Str("pane_id", string(input.PaneID)).
		Str("from_tab", string(source.ID)).
		Str("to_tab", string(dest.ID)).
		Msg("moved pane")
	return &MovePaneOutput{SourceTabClosed: closed}, nil
}

// ResizeSplitInput adjusts one split's ratio in the active arrangement.
type ResizeSplitInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID // empty: the active tab
	SplitID   string
	Ratio     float64
}

// Resize sets the clamped ratio on the identified split. Unknown split
// ids leave the layout unchanged.
func (uc *ManagePanesUseCase) Resize(ctx context.Context, input ResizeSplitInput) error {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return err
	}
	arr := tab.ActiveArrangement()
	if arr == nil {
		return ErrArrangementNotFound
	}
	arr.Layout = layout.Resize(arr.Layout, input.SplitID, input.Ratio)
	return nil
}

// EqualizeInput equalizes every split in the active arrangement.
type EqualizeInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID
}

// Equalize sets every split ratio in the active arrangement to 0.5.
func (uc *ManagePanesUseCase) Equalize(ctx context.Context, input EqualizeInput) error {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return err
	}
	arr := tab.ActiveArrangement()
	if arr == nil {
		return ErrArrangementNotFound
	}
	arr.Layout = layout.Equalize(arr.Layout)
	return nil
}

// FocusInput moves keyboard focus within the active arrangement.
type FocusInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID
	Direction layout.NavDirection // geometric navigation
}

// FocusOutput reports the newly focused pane.
type FocusOutput struct {
	PaneID entity.PaneID
}

// FocusNeighbor moves focus to the geometrically adjacent pane.
func (uc *ManagePanesUseCase) FocusNeighbor(ctx context.Context, input FocusInput) (*FocusOutput, error) {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return nil, err
	}
	arr := tab.ActiveArrangement()
	next := layout.Neighbor(arr.Layout, string(tab.ActivePaneID), input.Direction)
	if next == "" {
		return &FocusOutput{PaneID: tab.ActivePaneID}, nil
	}
	tab.ActivePaneID = entity.PaneID(next)
	return &FocusOutput{PaneID: tab.ActivePaneID}, nil
}

// FocusNext moves focus to the next pane in leaf order, wrapping.
func (uc *ManagePanesUseCase) FocusNext(ctx context.Context, input FocusInput) (*FocusOutput, error) {
	return uc.focusOrdinal(input, layout.Next)
}

// FocusPrevious moves focus to the previous pane in leaf order, wrapping.
func (uc *ManagePanesUseCase) FocusPrevious(ctx context.Context, input FocusInput) (*FocusOutput, error) {
	return uc.focusOrdinal(input, layout.Previous)
}

func (uc *ManagePanesUseCase) focusOrdinal(input FocusInput, step func(*layout.Node, string) string) (*FocusOutput, error) {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return nil, err
	}
	arr := tab.ActiveArrangement()
	next := step(arr.Layout, string(tab.ActivePaneID))
	if next == "" {
		return &FocusOutput{PaneID: tab.ActivePaneID}, nil
	}
	tab.ActivePaneID = entity.PaneID(next)
	return &FocusOutput{PaneID: tab.ActivePaneID}, nil
}

// ToggleZoomInput toggles single-pane zoom within a tab.
type ToggleZoomInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID
	PaneID    entity.PaneID // empty: the active pane
}

// ToggleZoomOutput reports the zoom state after the toggle.
type ToggleZoomOutput struct {
	Zoomed bool
}

// ToggleZoom zooms the pane, or clears zoom when it was already zoomed.
func (uc *ManagePanesUseCase) ToggleZoom(ctx context.Context, input ToggleZoomInput) (*ToggleZoomOutput, error) {
	tab, err := resolveTab(input.Workspace, input.TabID)
	if err != nil {
		return nil, err
	}
	target := input.PaneID
	if target == "" {
		target = tab.ActivePaneID
	}
	if tab.ZoomedPaneID == target {
		tab.ZoomedPaneID = ""
		return &ToggleZoomOutput{}, nil
	}
	arr := tab.ActiveArrangement()
	if arr == nil || !arr.Contains(target) {
		return nil, ErrPaneNotFound
	}
	tab.ZoomedPaneID = target
	return &ToggleZoomOutput{Zoomed: true}, nil
}

func resolveTab(ws *entity.Workspace, id entity.TabID) (*entity.Tab, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	tab := ws.FindTab(id)
	if id == "" {
		tab = ws.ActiveTab()
	}
	if tab == nil {
		return nil, ErrTabNotFound
	}
	return tab, nil
}

// insertPaneIntoTab applies the propagation rule for insertion: the pane
// lands in the default arrangement always, and in the active custom
// arrangement when the target is one of its members. An empty target
// means "after the tab's last pane". Returns false when the target does
// not resolve, leaving every layout unchanged.
func insertPaneIntoTab(tab *entity.Tab, pane, target entity.PaneID, dir layout.Direction, pos layout.Position, idGen entity.IDGenerator) bool {
	def := tab.DefaultArrangement()
	if def == nil || def.Layout == nil {
		return false
	}
	if dir == "" {
		dir = layout.Horizontal
	}
	if pos == "" {
		pos = layout.After
	}
	if target == "" {
		leaves := layout.Leaves(def.Layout)
		target = entity.PaneID(leaves[len(leaves)-1])
	}
	if !def.Contains(target) {
		return false
	}

	def.Layout = layout.Insert(def.Layout, string(pane), string(target), dir, pos, layout.IDGenerator(idGen))

	active := tab.ActiveArrangement()
	if active != nil && !active.IsDefault && active.Contains(target) {
		active.Layout = layout.Insert(active.Layout, string(pane), string(target), dir, pos, layout.IDGenerator(idGen))
	}
	return true
}

// removePaneFromTab removes the pane from every arrangement (a pane
// leaving the tab may not linger in any custom layout, or the default
// would stop being a superset), drops custom arrangements that emptied,
// repairs active/zoom pointers, and removes the tab when its default
// arrangement emptied. Returns true when the tab was closed.
func removePaneFromTab(ws *entity.Workspace, tab *entity.Tab, pane entity.PaneID) bool {
	kept := tab.Arrangements[:0]
	for _, arr := range tab.Arrangements {
		arr.Layout = layout.Remove(arr.Layout, string(pane))
		if arr.Layout == nil && !arr.IsDefault {
			if tab.ActiveArrangementID == arr.ID {
				tab.ActiveArrangementID = ""
			}
			continue
		}
		kept = append(kept, arr)
	}
	tab.Arrangements = kept

	def := tab.DefaultArrangement()
	if def == nil || def.Layout == nil {
		ws.RemoveTab(tab.ID)
		return true
	}

	if tab.ActiveArrangementID == "" || tab.FindArrangement(tab.ActiveArrangementID) == nil {
		tab.ActiveArrangementID = def.ID
	}
	if tab.ZoomedPaneID == pane {
		tab.ZoomedPaneID = ""
	}
	if tab.ActivePaneID == pane {
		active := tab.ActiveArrangement()
		members := active.PaneIDs()
		if len(members) > 0 {
			tab.ActivePaneID = members[0]
		} else {
			tab.ActivePaneID = ""
		}
	}
	return false
}
