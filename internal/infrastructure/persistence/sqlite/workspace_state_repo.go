package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/repository"
	"github.com/weftwork/weft/internal/logging"
)

type workspaceStateRepo struct {
	db *sql.DB
}

// NewWorkspaceStateRepository creates a new workspace state repository.
func NewWorkspaceStateRepository(db *sql.DB) repository.WorkspaceStateRepository {
	return &workspaceStateRepo{db: db}
}

// Save upserts a workspace snapshot together with its summary columns.
func (r *workspaceStateRepo) Save(ctx context.Context, snap *entity.WorkspaceSnapshot) error {
	log := logging.FromContext(ctx)
	if snap == nil {
		return errors.New("workspace snapshot cannot be nil")
	}

	stateJSON, err := entity.EncodeSnapshot(snap)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal workspace state")
		return err
	}

	log.Debug().
		Str("workspace_id", string(snap.ID)).
		Int("tab_count", len(snap.Tabs)).
		Int("pane_count", snap.CountPanes()).
		Msg("saving workspace state snapshot")

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workspace_states (workspace_id, state_json, version, tab_count, pane_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (workspace_id) DO UPDATE SET
			state_json = excluded.state_json,
			version    = excluded.version,
			tab_count  = excluded.tab_count,
			pane_count = excluded.pane_count,
			updated_at = excluded.updated_at`,
		string(snap.ID), string(stateJSON), snap.Version,
		len(snap.Tabs), snap.CountPanes(), snap.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert workspace state: %w", err)
	}
	return nil
}

// Get returns the snapshot for a workspace, or nil when none exists.
// Legacy-schema rows are migrated transparently on read; the row itself
// is rewritten only on the next save.
func (r *workspaceStateRepo) Get(ctx context.Context, id entity.WorkspaceID) (*entity.WorkspaceSnapshot, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM workspace_states WHERE workspace_id = ?`,
		string(id),
	).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query workspace state: %w", err)
	}

	snap, err := entity.DecodeSnapshot([]byte(stateJSON))
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("workspace_id", string(id)).
			Msg("failed to decode workspace state")
		return nil, err
	}
	return snap, nil
}

// GetAll returns every stored snapshot, most recently saved first.
// Corrupted rows are skipped with a warning instead of failing the
// whole listing.
func (r *workspaceStateRepo) GetAll(ctx context.Context) ([]*entity.WorkspaceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT workspace_id, state_json FROM workspace_states ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query workspace states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []*entity.WorkspaceSnapshot
	for rows.Next() {
		var id, stateJSON string
		if err := rows.Scan(&id, &stateJSON); err != nil {
			return nil, fmt.Errorf("scan workspace state: %w", err)
		}
		snap, err := entity.DecodeSnapshot([]byte(stateJSON))
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str("workspace_id", id).
				Msg("skipping corrupted workspace state")
			continue
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace states: %w", err)
	}
	return snaps, nil
}

// Delete removes a workspace's snapshot.
func (r *workspaceStateRepo) Delete(ctx context.Context, id entity.WorkspaceID) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("workspace_id", string(id)).Msg("deleting workspace state snapshot")
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_states WHERE workspace_id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete workspace state: %w", err)
	}
	return nil
}
