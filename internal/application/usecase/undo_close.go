package usecase

import (
	"context"
	"time"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/logging"
)

// DefaultUndoTTL bounds how long a closed tab stays restorable. Panes
// referenced only by expired entries are purged from the store.
const DefaultUndoTTL = 5 * time.Minute

// UndoCloseUseCase implements close-tab undo: closing a tab pushes a
// deep snapshot onto a bounded stack, and the referenced panes stay
// alive in the store, time-boxed, until the entry is restored, evicted
// or expired.
type UndoCloseUseCase struct {
	stack *entity.UndoStack
	clock port.Clock
	ttl   time.Duration
}

// NewUndoCloseUseCase creates the undo use case. Non-positive capacity
// and TTL fall back to the defaults.
func NewUndoCloseUseCase(capacity int, ttl time.Duration, clock port.Clock) *UndoCloseUseCase {
	if ttl <= 0 {
		ttl = DefaultUndoTTL
	}
	return &UndoCloseUseCase{
		stack: entity.NewUndoStack(capacity),
		clock: clock,
		ttl:   ttl,
	}
}

// Entries returns the current undo history, oldest first.
func (uc *UndoCloseUseCase) Entries() []*entity.UndoEntry {
	return uc.stack.Entries()
}

// CloseTabInput identifies the tab to close.
type CloseTabInput struct {
	Workspace *entity.Workspace
	TabID     entity.TabID
}

// CloseTabOutput reports the pushed snapshot and any eviction fallout.
type CloseTabOutput struct {
	Entry         *entity.UndoEntry
	PurgedPaneIDs []entity.PaneID // panes lost to stack overflow
}

// CloseTab removes a tab and pushes a restorable snapshot: deep copies
// of the tab, of every pane it references (drawer children included)
// and of the tab's position. The live panes stay in the store flipped to
// pending-undo residency with an expiry stamp. Overflow evicts the
// oldest entry and purges the panes only that entry still referenced.
func (uc *UndoCloseUseCase) CloseTab(ctx context.Context, input CloseTabInput) (*CloseTabOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, ErrTabNotFound
	}
	tab := ws.FindTab(input.TabID)
	if tab == nil {
		return nil, ErrTabNotFound
	}

	now := uc.clock.Now()
	entry := &entity.UndoEntry{
		Tab:      tab.Clone(),
		ClosedAt: now,
	}
	expires := now.Add(uc.ttl)
	for _, id := range referencedPaneIDs(ws, tab) {
		pane := ws.Panes.Get(id)
		if pane == nil {
			continue
		}
		entry.Panes = append(entry.Panes, pane.Clone())
		pane.Residency = entity.ResidencyPendingUndo
		stamp := expires
		pane.UndoExpiresAt = &stamp
	}

	index, ok := ws.RemoveTab(tab.ID)
	if !ok {
		return nil, ErrTabNotFound
	}
	entry.Index = index

	out := &CloseTabOutput{Entry: entry}
	if evicted := uc.stack.Push(entry); evicted != nil {
		out.PurgedPaneIDs = uc.purgeEntry(ws, evicted)
	}

	log.Debug().
		Str("tab_id", string(tab.ID)).
		Int("pane_count", len(entry.Panes)).
		Int("stack_len", uc.stack.Len()).
		Msg("closed tab with undo snapshot")
	return out, nil
}

// RestoreInput scopes a restore to one workspace.
type RestoreInput struct {
	Workspace *entity.Workspace
}

// RestoreOutput returns the tab brought back.
type RestoreOutput struct {
	Tab *entity.Tab
}

// RestoreLastClosed pops the most recent snapshot and reinserts the tab
// at its original index, clamped to the current tab list. Every
// referenced pane returns to the store as active, re-added from the
// entry's copy when it was purged in the meantime.
func (uc *UndoCloseUseCase) RestoreLastClosed(ctx context.Context, input RestoreInput) (*RestoreOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, ErrNothingToRestore
	}
	entry := uc.stack.Pop()
	if entry == nil {
		return nil, ErrNothingToRestore
	}

	for _, snap := range entry.Panes {
		if pane := ws.Panes.Get(snap.ID); pane != nil {
			pane.Residency = entity.ResidencyActive
			pane.UndoExpiresAt = nil
			continue
		}
		restored := snap.Clone()
		restored.Residency = entity.ResidencyActive
		restored.UndoExpiresAt = nil
		ws.Panes.Add(restored)
	}

	tab := entry.Tab.Clone()
	ws.InsertTabAt(tab, entry.Index)
	ws.ActiveTabID = tab.ID

	log.Debug().
		Str("tab_id", string(tab.ID)).
		Int("pane_count", len(entry.Panes)).
		Msg("restored closed tab")
	return &RestoreOutput{Tab: tab}, nil
}

// ExpireInput scopes expiry to one workspace.
type ExpireInput struct {
	Workspace *entity.Workspace
}

// ExpireOutput reports what the sweep removed.
type ExpireOutput struct {
	DroppedEntries int
	PurgedPaneIDs  []entity.PaneID
}

// ExpireEntries drops snapshots older than the TTL and purges the
// pending-undo panes only those snapshots still referenced. The shell
// drives this from its tick; the injected clock keeps it testable.
func (uc *UndoCloseUseCase) ExpireEntries(ctx context.Context, input ExpireInput) *ExpireOutput {
	log := logging.FromContext(ctx)
	cutoff := uc.clock.Now().Add(-uc.ttl)
	expired := uc.stack.DropExpired(cutoff)
	out := &ExpireOutput{DroppedEntries: len(expired)}
	for _, entry := range expired {
		out.PurgedPaneIDs = append(out.PurgedPaneIDs, uc.purgeEntry(input.Workspace, entry)...)
	}
	if out.DroppedEntries > 0 {
		log.Debug().
			Int("dropped", out.DroppedEntries).
			Int("purged_panes", len(out.PurgedPaneIDs)).
			Msg("expired undo entries")
	}
	return out
}

// purgeEntry deletes from the store every pane the entry referenced
// that no remaining entry references and that is not active again. The
// entry must already be off the stack.
func (uc *UndoCloseUseCase) purgeEntry(ws *entity.Workspace, entry *entity.UndoEntry) []entity.PaneID {
	if ws == nil || entry == nil {
		return nil
	}
	var purged []entity.PaneID
	for _, snap := range entry.Panes {
		if snap.IsDrawerChild() {
			continue // cascades with its root
		}
		if uc.stack.AnyReferences(snap.ID) {
			continue
		}
		pane := ws.Panes.Get(snap.ID)
		if pane == nil || pane.Residency == entity.ResidencyActive {
			continue
		}
		purged = append(purged, ws.Panes.Remove(snap.ID)...)
	}
	return purged
}

// referencedPaneIDs lists every pane a tab references: the roots in its
// default arrangement plus their drawer children.
func referencedPaneIDs(ws *entity.Workspace, tab *entity.Tab) []entity.PaneID {
	roots := tab.PaneIDs()
	ids := make([]entity.PaneID, 0, len(roots))
	for _, id := range roots {
		ids = append(ids, id)
		if pane := ws.Panes.Get(id); pane != nil && pane.Drawer != nil {
			ids = append(ids, pane.Drawer.Children...)
		}
	}
	return ids
}
