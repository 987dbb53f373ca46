package entity_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
)

func testIDGen() entity.IDGenerator {
	var counter int
	return func() string {
		counter++
		return fmt.Sprintf("id_%d", counter)
	}
}

// buildWorkspace assembles a workspace with one tab holding panes p1 and
// p2 in a horizontal split.
func buildWorkspace(t *testing.T) *entity.Workspace {
	t.Helper()
	idGen := testIDGen()

	ws := entity.NewWorkspace("ws1", "Test")
	p1 := entity.NewPane("p1", entity.TerminalPane("vim"))
	p2 := entity.NewPane("p2", entity.TerminalPane("htop"))
	require.True(t, ws.Panes.Add(p1))
	require.True(t, ws.Panes.Add(p2))

	tab := entity.NewTab("t1", "t1-default", "p1")
	def := tab.DefaultArrangement()
	def.Layout = layout.Insert(def.Layout, "p2", "p1", layout.Horizontal, layout.After, layout.IDGenerator(idGen))
	ws.AppendTab(tab)
	return ws
}

func TestSnapshotWorkspace_RoundTrip(t *testing.T) {
	ws := buildWorkspace(t)
	savedAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	snap := entity.SnapshotWorkspace(ws, savedAt)

	require.NotNil(t, snap)
	assert.Equal(t, entity.WorkspaceStateVersion, snap.Version)
	assert.Equal(t, entity.WorkspaceID("ws1"), snap.ID)
	assert.True(t, snap.SavedAt.Equal(savedAt))
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, 2, snap.CountPanes())

	restored := entity.WorkspaceFromSnapshot(snap)
	require.NotNil(t, restored)
	assert.Equal(t, ws.ID, restored.ID)
	assert.Equal(t, 2, restored.Panes.Len())
	require.Len(t, restored.Tabs, 1)
	assert.Equal(t, entity.TabID("t1"), restored.Tabs[0].ID, "identifiers survive verbatim")
	assert.Equal(t, []entity.PaneID{"p1", "p2"}, restored.Tabs[0].PaneIDs())
}

func TestSnapshotWorkspace_ExcludesTemporaryPanes(t *testing.T) {
	ws := buildWorkspace(t)
	ws.Panes.Get("p2").Lifetime = entity.LifetimeTemporary

	snap := entity.SnapshotWorkspace(ws, time.Now())

	assert.Equal(t, 1, snap.CountPanes())
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, []entity.PaneID{"p1"}, snap.Tabs[0].Arrangements[0].PaneIDs())

	// Live state untouched.
	assert.Equal(t, 2, ws.Panes.Len())
	assert.Len(t, ws.Tabs[0].PaneIDs(), 2)
}

func TestSnapshotWorkspace_TemporaryExclusionCascadesToDrawerChildren(t *testing.T) {
	ws := buildWorkspace(t)
	parent := ws.Panes.Get("p1")
	parent.Lifetime = entity.LifetimeTemporary
	parent.Drawer = entity.NewDrawer()
	parent.Drawer.Children = []entity.PaneID{"d1"}
	parent.Drawer.Layout = layout.NewLeaf("d1")

	child := entity.NewPane("d1", entity.TerminalPane("logs"))
	child.ParentID = "p1"
	require.True(t, ws.Panes.Add(child))

	snap := entity.SnapshotWorkspace(ws, time.Now())

	assert.Equal(t, 1, snap.CountPanes())
	assert.Equal(t, entity.PaneID("p2"), snap.Panes[0].ID)
}

func TestSnapshotWorkspace_DropsPendingUndoAndEmptiedTab(t *testing.T) {
	ws := buildWorkspace(t)
	expires := time.Now().Add(time.Minute)
	for _, id := range []entity.PaneID{"p1", "p2"} {
		p := ws.Panes.Get(id)
		p.Residency = entity.ResidencyPendingUndo
		p.UndoExpiresAt = &expires
	}

	snap := entity.SnapshotWorkspace(ws, time.Now())

	assert.Zero(t, snap.CountPanes())
	assert.Empty(t, snap.Tabs, "tab with an empty default disappears")
	assert.Empty(t, snap.ActiveTabID)
}

func TestSnapshotWorkspace_DropsEmptiedCustomArrangement(t *testing.T) {
	ws := buildWorkspace(t)
	tab := ws.Tabs[0]
	tab.Arrangements = append(tab.Arrangements, &entity.Arrangement{
		ID:     "custom",
		Name:   "Focus",
		Layout: layout.NewLeaf("p2"),
	})
	tab.ActiveArrangementID = "custom"
	ws.Panes.Get("p2").Lifetime = entity.LifetimeTemporary

	snap := entity.SnapshotWorkspace(ws, time.Now())

	require.Len(t, snap.Tabs, 1)
	tabSnap := snap.Tabs[0]
	require.Len(t, tabSnap.Arrangements, 1, "emptied custom arrangement is dropped")
	assert.True(t, tabSnap.Arrangements[0].IsDefault)
	assert.Equal(t, tabSnap.Arrangements[0].ID, tabSnap.ActiveArrangementID, "dangling active pointer falls back to default")
	assert.Equal(t, entity.PaneID("p1"), tabSnap.ActivePaneID)
}

func TestFilterForLoad_PrunesStaleWorktreePanes(t *testing.T) {
	ws := buildWorkspace(t)
	ws.Repos = []entity.Repo{{ID: "r1", Name: "weft"}}
	ws.Worktrees = []entity.Worktree{{ID: "w1", RepoID: "r1", Branch: "main"}}
	ws.Panes.Get("p1").Source = entity.Source{
		Kind:     entity.SourceWorktree,
		Worktree: &entity.WorktreeSource{WorktreeID: "w1", RepoID: "r1"},
	}
	ws.Panes.Get("p2").Source = entity.Source{
		Kind:     entity.SourceWorktree,
		Worktree: &entity.WorktreeSource{WorktreeID: "gone", RepoID: "r1"},
	}

	snap := entity.SnapshotWorkspace(ws, time.Now())
	filtered := entity.FilterForLoad(snap)

	require.Equal(t, 1, filtered.CountPanes())
	assert.Equal(t, entity.PaneID("p1"), filtered.Panes[0].ID)
	require.Len(t, filtered.Tabs, 1)
	assert.Equal(t, []entity.PaneID{"p1"}, filtered.Tabs[0].Arrangements[0].PaneIDs())
}

func TestWorkspaceFromSnapshot_BackgroundedPanesStayBackgrounded(t *testing.T) {
	ws := buildWorkspace(t)
	orphan := entity.NewPane("p3", entity.TerminalPane("sleep"))
	orphan.Residency = entity.ResidencyBackgrounded
	require.True(t, ws.Panes.Add(orphan))

	snap := entity.SnapshotWorkspace(ws, time.Now())
	restored := entity.WorkspaceFromSnapshot(snap)

	require.NotNil(t, restored.Panes.Get("p3"))
	assert.Equal(t, entity.ResidencyBackgrounded, restored.Panes.Get("p3").Residency)
	assert.Equal(t, entity.ResidencyActive, restored.Panes.Get("p1").Residency)
}

func TestDecodeSnapshot_MigratesLegacyDocument(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"id": "ws_old",
		"panes": [
			{"id": "p1", "content": {"type": "terminal", "terminal": {"command": "vim"}},
			 "source": {"kind": "floating"}, "residency": "active",
			 "created_at": "2026-01-02T10:00:00Z"}
		],
		"tabs": [
			{"id": "t1", "name": "Old Tab", "position": 0,
			 "layout": {"pane": "p1"}, "active_pane_id": "p1",
			 "created_at": "2026-01-02T10:00:00Z"}
		],
		"active_tab_id": "t1",
		"created_at": "2026-01-02T10:00:00Z",
		"saved_at": "2026-01-02T11:00:00Z"
	}`)

	snap, err := entity.DecodeSnapshot(legacy)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, entity.WorkspaceStateVersion, snap.Version)
	assert.Equal(t, entity.WorkspaceID("ws_old"), snap.ID)
	require.Len(t, snap.Tabs, 1)

	tab := snap.Tabs[0]
	require.Len(t, tab.Arrangements, 1)
	def := tab.Arrangements[0]
	assert.True(t, def.IsDefault)
	assert.Equal(t, entity.ArrangementID("t1-default"), def.ID, "derived id is stable")
	assert.Equal(t, []entity.PaneID{"p1"}, def.PaneIDs())
	assert.Equal(t, def.ID, tab.ActiveArrangementID)
}

func TestDecodeSnapshot_MigrationIsDeterministic(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"id": "ws_old",
		"panes": [],
		"tabs": [
			{"id": "t1", "layout": {"pane": "p1"}, "position": 0,
			 "created_at": "2026-01-02T10:00:00Z"}
		],
		"created_at": "2026-01-02T10:00:00Z",
		"saved_at": "2026-01-02T11:00:00Z"
	}`)

	first, err := entity.DecodeSnapshot(legacy)
	require.NoError(t, err)
	firstBytes, err := entity.EncodeSnapshot(first)
	require.NoError(t, err)

	// Re-decoding the migrated document is the identity.
	second, err := entity.DecodeSnapshot(firstBytes)
	require.NoError(t, err)
	secondBytes, err := entity.EncodeSnapshot(second)
	require.NoError(t, err)

	assert.Equal(t, firstBytes, secondBytes)
}

func TestDecodeSnapshot_MissingVersionTakesLegacyPath(t *testing.T) {
	raw := []byte(`{"id": "ws_ancient", "panes": [], "tabs": []}`)

	snap, err := entity.DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceStateVersion, snap.Version)
	assert.Equal(t, entity.WorkspaceID("ws_ancient"), snap.ID)
}

func TestDecodeSnapshot_RejectsFutureVersion(t *testing.T) {
	raw := []byte(`{"version": 99, "id": "ws_future"}`)

	snap, err := entity.DecodeSnapshot(raw)
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Contains(t, err.Error(), "unsupported workspace state version")
}

func TestDecodeSnapshot_RejectsGarbage(t *testing.T) {
	_, err := entity.DecodeSnapshot([]byte("not json"))
	require.Error(t, err)
}
