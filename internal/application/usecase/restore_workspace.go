package usecase

import (
	"context"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/logging"
)

// RestoreWorkspaceUseCase loads a persisted snapshot and rebuilds the
// live workspace from it.
type RestoreWorkspaceUseCase struct {
	repo repository.WorkspaceStateRepository
}

// NewRestoreWorkspaceUseCase creates the restore use case.
func NewRestoreWorkspaceUseCase(repo repository.WorkspaceStateRepository) *RestoreWorkspaceUseCase {
	return &RestoreWorkspaceUseCase{repo: repo}
}

// RestoreWorkspaceInput identifies the workspace to load.
type RestoreWorkspaceInput struct {
	WorkspaceID entity.WorkspaceID
	Name        string // used when starting fresh
}

// RestoreWorkspaceOutput returns the rebuilt workspace.
type RestoreWorkspaceOutput struct {
	Workspace *entity.Workspace
	Fresh     bool // no usable snapshot existed
}

// Execute loads the stored snapshot, applies the load filter (including
// pruning of panes whose worktree or repo record no longer resolves)
// and rebuilds the workspace. Load failures never block startup: the
// error is logged and an empty workspace is returned instead.
func (uc *RestoreWorkspaceUseCase) Execute(ctx context.Context, input RestoreWorkspaceInput) (*RestoreWorkspaceOutput, error) {
	log := logging.FromContext(ctx)

	snap, err := uc.repo.Get(ctx, input.WorkspaceID)
	if err != nil {
		log.Warn().Err(err).
			Str("workspace_id", string(input.WorkspaceID)).
			Msg("failed to load workspace state, starting fresh")
		return uc.fresh(input), nil
	}
	if snap == nil {
		return uc.fresh(input), nil
	}

	filtered := entity.FilterForLoad(snap)
	ws := entity.WorkspaceFromSnapshot(filtered)

	log.Debug().
		Str("workspace_id", string(ws.ID)).
		Int("pane_count", ws.Panes.Len()).
		Int("tab_count", len(ws.Tabs)).
		Msg("restored workspace from snapshot")
	return &RestoreWorkspaceOutput{Workspace: ws}, nil
}

func (uc *RestoreWorkspaceUseCase) fresh(input RestoreWorkspaceInput) *RestoreWorkspaceOutput {
	return &RestoreWorkspaceOutput{
		Workspace: entity.NewWorkspace(input.WorkspaceID, input.Name),
		Fresh:     true,
	}
}
