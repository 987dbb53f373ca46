package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/domain/entity"
)

func TestCloseTab_SnapshotsAndFlipsResidency(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(5, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")

	out, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})

	require.NoError(t, err)
	assert.Empty(t, out.PurgedPaneIDs)
	entry := out.Entry
	require.NotNil(t, entry)
	assert.Equal(t, entity.TabID("t1"), entry.Tab.ID)
	assert.Equal(t, 0, entry.Index)
	assert.True(t, entry.References("p1"))
	assert.True(t, entry.References("p2"))
	assert.True(t, entry.References("c1"), "drawer children are snapshotted too")

	assert.Empty(t, ws.Tabs)
	for _, id := range []entity.PaneID{"p1", "p2", "c1"} {
		pane := ws.Panes.Get(id)
		require.NotNil(t, pane, "panes stay alive for undo")
		assert.Equal(t, entity.ResidencyPendingUndo, pane.Residency)
		require.NotNil(t, pane.UndoExpiresAt)
		assert.True(t, pane.UndoExpiresAt.Equal(clock.Now().Add(usecase.DefaultUndoTTL)))
	}
}

func TestCloseTab_UnknownTab(t *testing.T) {
	uc := usecase.NewUndoCloseUseCase(5, 0, newFakeClock())
	ws := twoPane(t)

	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "nope"})
	require.ErrorIs(t, err, usecase.ErrTabNotFound)
}

func TestRestoreLastClosed_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(5, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)
	tab := ws.Tabs[0]
	tab.ActivePaneID = "p2"
	tab.ZoomedPaneID = "p2"

	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})
	require.NoError(t, err)

	out, err := uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})

	require.NoError(t, err)
	restored := out.Tab
	assert.Equal(t, entity.TabID("t1"), restored.ID)
	assert.Equal(t, entity.PaneID("p2"), restored.ActivePaneID)
	assert.Equal(t, entity.PaneID("p2"), restored.ZoomedPaneID)
	assert.Equal(t, []entity.PaneID{"p1", "p2"}, restored.PaneIDs())
	assert.Equal(t, restored.ID, ws.ActiveTabID)

	for _, id := range []entity.PaneID{"p1", "p2"} {
		pane := ws.Panes.Get(id)
		assert.Equal(t, entity.ResidencyActive, pane.Residency)
		assert.Nil(t, pane.UndoExpiresAt)
	}
	assert.Empty(t, uc.Entries())
}

func TestRestoreLastClosed_Empty(t *testing.T) {
	uc := usecase.NewUndoCloseUseCase(5, 0, newFakeClock())
	ws := twoPane(t)

	_, err := uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})
	require.ErrorIs(t, err, usecase.ErrNothingToRestore)
}

func TestRestoreLastClosed_IndexClamped(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(5, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)
	require.True(t, ws.Panes.Add(entity.NewPane("p3", entity.TerminalPane("psql"))))
	ws.AppendTab(entity.NewTab("t2", "t2-default", "p3"))

	// Close the second tab (index 1), then the first. Restoring t2 at
	// index 1 lands at the end of the now single-slot list.
	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t2"})
	require.NoError(t, err)
	_, err = uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})
	require.NoError(t, err)
	require.Empty(t, ws.Tabs)

	out, err := uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})
	require.NoError(t, err)
	assert.Equal(t, entity.TabID("t1"), out.Tab.ID)

	out, err = uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})
	require.NoError(t, err)
	assert.Equal(t, entity.TabID("t2"), out.Tab.ID)

	require.Len(t, ws.Tabs, 2)
	assert.Equal(t, entity.TabID("t1"), ws.Tabs[0].ID)
	assert.Equal(t, entity.TabID("t2"), ws.Tabs[1].ID)
	assert.Equal(t, 0, ws.Tabs[0].Position)
	assert.Equal(t, 1, ws.Tabs[1].Position)
}

func TestCloseTab_OverflowPurgesEvictedPanes(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(2, usecase.DefaultUndoTTL, clock)
	ws := entity.NewWorkspace("ws1", "Test")

	for i := 1; i <= 3; i++ {
		paneID := entity.PaneID(fmt.Sprintf("p%d", i))
		tabID := entity.TabID(fmt.Sprintf("t%d", i))
		require.True(t, ws.Panes.Add(entity.NewPane(paneID, entity.TerminalPane("vim"))))
		ws.AppendTab(entity.NewTab(tabID, entity.ArrangementID(fmt.Sprintf("%s-default", tabID)), paneID))
	}

	var lastOut *usecase.CloseTabOutput
	for i := 1; i <= 3; i++ {
		out, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{
			Workspace: ws,
			TabID:     entity.TabID(fmt.Sprintf("t%d", i)),
		})
		require.NoError(t, err)
		lastOut = out
	}

	// Capacity 2: the third close evicted t1's entry and purged p1.
	assert.Equal(t, []entity.PaneID{"p1"}, lastOut.PurgedPaneIDs)
	assert.Nil(t, ws.Panes.Get("p1"))
	assert.NotNil(t, ws.Panes.Get("p2"))
	assert.Len(t, uc.Entries(), 2)
}

func TestCloseTab_EvictionSparesActivePanes(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(1, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)

	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})
	require.NoError(t, err)

	// p1 comes back to life before the entry is evicted.
	ws.Panes.Get("p1").Residency = entity.ResidencyActive
	ws.Panes.Get("p1").UndoExpiresAt = nil

	require.True(t, ws.Panes.Add(entity.NewPane("p3", entity.TerminalPane("psql"))))
	ws.AppendTab(entity.NewTab("t2", "t2-default", "p3"))

	out, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t2"})
	require.NoError(t, err)

	assert.Equal(t, []entity.PaneID{"p2"}, out.PurgedPaneIDs, "active pane is spared")
	assert.NotNil(t, ws.Panes.Get("p1"))
	assert.Nil(t, ws.Panes.Get("p2"))
}

func TestExpireEntries(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(5, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)

	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})
	require.NoError(t, err)

	// Inside the TTL nothing happens.
	clock.Advance(usecase.DefaultUndoTTL - time.Second)
	out := uc.ExpireEntries(testCtx(), usecase.ExpireInput{Workspace: ws})
	assert.Zero(t, out.DroppedEntries)
	assert.Len(t, uc.Entries(), 1)

	// Past the TTL the entry drops and its panes purge.
	clock.Advance(2 * time.Second)
	out = uc.ExpireEntries(testCtx(), usecase.ExpireInput{Workspace: ws})
	assert.Equal(t, 1, out.DroppedEntries)
	assert.ElementsMatch(t, []entity.PaneID{"p1", "p2"}, out.PurgedPaneIDs)
	assert.Zero(t, ws.Panes.Len())
	assert.Empty(t, uc.Entries())

	// Restoring after expiry has nothing to pop.
	_, err = uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})
	require.ErrorIs(t, err, usecase.ErrNothingToRestore)
}

func TestRestoreLastClosed_ReAddsPurgedPanes(t *testing.T) {
	clock := newFakeClock()
	uc := usecase.NewUndoCloseUseCase(5, usecase.DefaultUndoTTL, clock)
	ws := twoPane(t)

	_, err := uc.CloseTab(testCtx(), usecase.CloseTabInput{Workspace: ws, TabID: "t1"})
	require.NoError(t, err)

	// Simulate an external purge of one pane.
	ws.Panes.Remove("p2")
	require.Nil(t, ws.Panes.Get("p2"))

	out, err := uc.RestoreLastClosed(testCtx(), usecase.RestoreInput{Workspace: ws})
	require.NoError(t, err)

	restored := ws.Panes.Get("p2")
	require.NotNil(t, restored, "pane re-added from the entry's copy")
	assert.Equal(t, entity.ResidencyActive, restored.Residency)
	assert.Equal(t, "htop", restored.Content.Terminal.Command)
	assert.Equal(t, []entity.PaneID{"p1", "p2"}, out.Tab.PaneIDs())
}
