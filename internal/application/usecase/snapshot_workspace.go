package usecase

import (
	"context"
	"fmt"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/logging"
)

// SnapshotWorkspaceUseCase serializes the live workspace through the
// save filter and writes it to the state repository. The debounced
// writer calls this on timer fire and on flush.
type SnapshotWorkspaceUseCase struct {
	repo  repository.WorkspaceStateRepository
	clock port.Clock
}

// NewSnapshotWorkspaceUseCase creates the snapshot use case.
func NewSnapshotWorkspaceUseCase(repo repository.WorkspaceStateRepository, clock port.Clock) *SnapshotWorkspaceUseCase {
	return &SnapshotWorkspaceUseCase{repo: repo, clock: clock}
}

// SnapshotInput carries the workspace to persist.
type SnapshotInput struct {
	Workspace *entity.Workspace
}

// SnapshotOutput returns the filtered snapshot that was written.
type SnapshotOutput struct {
	Snapshot *entity.WorkspaceSnapshot
}

// Execute filters the workspace (temporary and pending-undo panes
// dropped, layouts pruned, dangling pointers rewritten — the live state
// is never touched) and upserts the result. Write failures are wrapped
// and returned to the caller.
func (uc *SnapshotWorkspaceUseCase) Execute(ctx context.Context, input SnapshotInput) (*SnapshotOutput, error) {
	log := logging.FromContext(ctx)
	ws := input.Workspace
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}

	snap := entity.SnapshotWorkspace(ws, uc.clock.Now())
	if err := uc.repo.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save workspace state: %w", err)
	}

	log.Debug().
		Str("workspace_id", string(snap.ID)).
		Int("pane_count", snap.CountPanes()).
		Int("tab_count", len(snap.Tabs)).
		Msg("saved workspace snapshot")
	return &SnapshotOutput{Snapshot: snap}, nil
}
