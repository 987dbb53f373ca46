package usecase

import (
	"context"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/logging"
)

// ManageOrphansUseCase moves panes in and out of the orphan pool: the
// set of backgrounded panes that live in the store without appearing in
// any tab layout.
type ManageOrphansUseCase struct {
	ids entity.IDGenerator
}

// NewManageOrphansUseCase creates a new orphan pool use case.
func NewManageOrphansUseCase(ids entity.IDGenerator) *ManageOrphansUseCase {
	return &ManageOrphansUseCase{ids: ids}
}

// BackgroundPaneInput identifies the pane to detach.
type BackgroundPaneInput struct {
	Workspace *entity.Workspace
	PaneID    entity.PaneID
}

// BackgroundPaneOutput reports the side effects of backgrounding.
type BackgroundPaneOutput struct {
	ClosedTabID entity.TabID // non-empty when the tab emptied and was removed
}

// Background detaches a root pane from its tab without deleting it: the
// pane leaves every arrangement, zoom is cleared, and the pane record
// stays in the store with backgrounded residency. A tab whose default
// arrangement empties closes without an undo snapshot.
func (uc *ManageOrphansUseCase) Background(ctx context.Context, input BackgroundPaneInput) (*BackgroundPaneOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	pane, err := resolveRootPane(ws, input.PaneID)
	if err != nil {
		return nil, err
	}
	if pane.Residency == entity.ResidencyBackgrounded {
		return &BackgroundPaneOutput{}, nil
	}

	out := &BackgroundPaneOutput{}
	if tab := ws.TabContaining(input.PaneID); tab != nil {
		if removePaneFromTab(ws, tab, input.PaneID) {
			out.ClosedTabID = tab.ID
		}
	}
	pane.Residency = entity.ResidencyBackgrounded
	pane.UndoExpiresAt = nil

	log.Debug().
		Str("pane_id", string(pane.ID)).
		Str("closed_tab_id", string(out.ClosedTabID)).
		Msg("backgrounded pane")
	return out, nil
}

// OrphanedInput scopes the query to one workspace.
type OrphanedInput struct {
	Workspace *entity.Workspace
}

// Orphaned lists all backgrounded panes sorted by id.
func (uc *ManageOrphansUseCase) Orphaned(ctx context.Context, input OrphanedInput) []*entity.Pane {
	if input.Workspace == nil {
		return nil
	}
	return input.Workspace.Panes.Orphaned()
}

// ReactivatePaneInput places a backgrounded pane back into a tab.
type ReactivatePaneInput struct {
	Workspace *entity.Workspace
	PaneID    entity.PaneID
	TabID     entity.TabID // empty: the active tab

	Target    entity.PaneID
	Direction layout.Direction
	Position  layout.Position
}

// ReactivatePaneOutput reports where the pane landed.
type ReactivatePaneOutput struct {
	Tab        *entity.Tab
	CreatedTab bool
}

// Reactivate inserts a backgrounded pane into a tab layout and flips it
// back to active residency. Panes that are not backgrounded are refused,
// which makes the operation idempotent. When the workspace has no tabs
// left the pane gets a fresh tab of its own.
func (uc *ManageOrphansUseCase) Reactivate(ctx context.Context, input ReactivatePaneInput) (*ReactivatePaneOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	pane, err := resolveRootPane(ws, input.PaneID)
	if err != nil {
		return nil, err
	}
	if pane.Residency != entity.ResidencyBackgrounded {
		return nil, ErrNotBackgrounded
	}

	if len(ws.Tabs) == 0 {
		tab := entity.NewTab(entity.TabID(uc.ids()), entity.ArrangementID(uc.ids()), pane.ID)
		tab.Name = pane.DisplayTitle()
		ws.AppendTab(tab)
		ws.ActiveTabID = tab.ID
		pane.Residency = entity.ResidencyActive
		log.Debug().Str("pane_id", string(pane.ID)).Str("tab_id", string(tab.ID)).Msg("reactivated pane into new tab")
		return &ReactivatePaneOutput{Tab: tab, CreatedTab: true}, nil
	}

	tab, err := resolveTab(ws, input.TabID)
	if err != nil {
		return nil, err
	}
	if !insertPaneIntoTab(tab, pane.ID, input.Target, input.Direction, input.Position, uc.ids) {
		return nil, ErrPaneNotFound
	}
	pane.Residency = entity.ResidencyActive
	tab.ActivePaneID = pane.ID

	log.Debug().
		Str("pane_id", string(pane.ID)).
		Str("tab_id", string(tab.ID)).
		Msg("reactivated pane")
	return &ReactivatePaneOutput{Tab: tab}, nil
}

// PurgeOrphanInput identifies the pane to delete permanently.
type PurgeOrphanInput struct {
	Workspace *entity.Workspace
	PaneID    entity.PaneID
}

// PurgeOrphanOutput reports what the purge removed.
type PurgeOrphanOutput struct {
	RemovedPaneIDs []entity.PaneID
}

// Purge permanently deletes a backgrounded pane and its drawer children
// from the store. Live panes are refused so a stray purge can never take
// down something visible.
func (uc *ManageOrphansUseCase) Purge(ctx context.Context, input PurgeOrphanInput) (*PurgeOrphanOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	pane, err := resolveRootPane(ws, input.PaneID)
	if err != nil {
		return nil, err
	}
	if pane.Residency != entity.ResidencyBackgrounded {
		return nil, ErrNotBackgrounded
	}

	removed := ws.Panes.Remove(pane.ID)
	log.Debug().
		Str("pane_id", string(pane.ID)).
		Int("removed", len(removed)).
		Msg("purged orphaned pane")
	return &PurgeOrphanOutput{RemovedPaneIDs: removed}, nil
}
