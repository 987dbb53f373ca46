package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/domain/entity"
)

// memStateRepo is an in-memory WorkspaceStateRepository for exercising
// the snapshot and restore use cases without a database.
type memStateRepo struct {
	snaps   map[entity.WorkspaceID]*entity.WorkspaceSnapshot
	saveErr error
	getErr  error
	saves   int
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{snaps: make(map[entity.WorkspaceID]*entity.WorkspaceSnapshot)}
}

func (r *memStateRepo) Save(_ context.Context, snap *entity.WorkspaceSnapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.snaps[snap.ID] = snap
	return nil
}

func (r *memStateRepo) Get(_ context.Context, id entity.WorkspaceID) (*entity.WorkspaceSnapshot, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.snaps[id], nil
}

func (r *memStateRepo) GetAll(context.Context) ([]*entity.WorkspaceSnapshot, error) {
	out := make([]*entity.WorkspaceSnapshot, 0, len(r.snaps))
	for _, snap := range r.snaps {
		out = append(out, snap)
	}
	return out, nil
}

func (r *memStateRepo) Delete(_ context.Context, id entity.WorkspaceID) error {
	delete(r.snaps, id)
	return nil
}

func TestSnapshotWorkspace_WritesFilteredSnapshot(t *testing.T) {
	repo := newMemStateRepo()
	clock := newFakeClock()
	uc := usecase.NewSnapshotWorkspaceUseCase(repo, clock)
	ws := twoPane(t)

	tmp := entity.NewPane("scratch", entity.TerminalPane("less"))
	tmp.Lifetime = entity.LifetimeTemporary
	require.True(t, ws.Panes.Add(tmp))

	out, err := uc.Execute(testCtx(), usecase.SnapshotInput{Workspace: ws})

	require.NoError(t, err)
	snap := out.Snapshot
	assert.Equal(t, entity.WorkspaceStateVersion, snap.Version)
	assert.True(t, snap.SavedAt.Equal(clock.Now()))
	assert.Equal(t, 2, snap.CountPanes(), "temporary pane filtered out")
	assert.Same(t, snap, repo.snaps["ws1"])
	assert.NotNil(t, ws.Panes.Get("scratch"), "live state untouched")
}

func TestSnapshotWorkspace_SaveFailure(t *testing.T) {
	repo := newMemStateRepo()
	repo.saveErr = errors.New("disk full")
	uc := usecase.NewSnapshotWorkspaceUseCase(repo, newFakeClock())

	_, err := uc.Execute(testCtx(), usecase.SnapshotInput{Workspace: twoPane(t)})
	require.ErrorContains(t, err, "disk full")
}

func TestSnapshotWorkspace_NilWorkspace(t *testing.T) {
	uc := usecase.NewSnapshotWorkspaceUseCase(newMemStateRepo(), newFakeClock())
	_, err := uc.Execute(testCtx(), usecase.SnapshotInput{})
	require.Error(t, err)
}

func TestRestoreWorkspace_RoundTrip(t *testing.T) {
	repo := newMemStateRepo()
	clock := newFakeClock()
	snapUC := usecase.NewSnapshotWorkspaceUseCase(repo, clock)
	restoreUC := usecase.NewRestoreWorkspaceUseCase(repo)
	ws := twoPane(t)

	_, err := snapUC.Execute(testCtx(), usecase.SnapshotInput{Workspace: ws})
	require.NoError(t, err)

	out, err := restoreUC.Execute(testCtx(), usecase.RestoreWorkspaceInput{WorkspaceID: "ws1"})

	require.NoError(t, err)
	assert.False(t, out.Fresh)
	restored := out.Workspace
	assert.Equal(t, entity.WorkspaceID("ws1"), restored.ID)
	assert.Equal(t, 2, restored.Panes.Len())
	require.Len(t, restored.Tabs, 1)
	assert.Equal(t, []entity.PaneID{"p1", "p2"}, restored.Tabs[0].PaneIDs())
	assert.Equal(t, entity.TabID("t1"), restored.ActiveTabID)
}

func TestRestoreWorkspace_NoSnapshotStartsFresh(t *testing.T) {
	uc := usecase.NewRestoreWorkspaceUseCase(newMemStateRepo())

	out, err := uc.Execute(testCtx(), usecase.RestoreWorkspaceInput{WorkspaceID: "ws1", Name: "Fresh"})

	require.NoError(t, err)
	assert.True(t, out.Fresh)
	assert.Equal(t, entity.WorkspaceID("ws1"), out.Workspace.ID)
	assert.Equal(t, "Fresh", out.Workspace.Name)
	assert.Zero(t, out.Workspace.Panes.Len())
}

func TestRestoreWorkspace_LoadErrorStartsFresh(t *testing.T) {
	repo := newMemStateRepo()
	repo.getErr = errors.New("corrupt row")
	uc := usecase.NewRestoreWorkspaceUseCase(repo)

	out, err := uc.Execute(testCtx(), usecase.RestoreWorkspaceInput{WorkspaceID: "ws1"})

	require.NoError(t, err, "load failures never block startup")
	assert.True(t, out.Fresh)
}
