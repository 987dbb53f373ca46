// Package repository defines persistence interfaces implemented by the
// infrastructure layer.
package repository

import (
	"context"

	"github.com/weftwork/weft/internal/domain/entity"
)

// WorkspaceStateRepository persists workspace state snapshots.
type WorkspaceStateRepository interface {
	// Save upserts a workspace snapshot.
	Save(ctx context.Context, snap *entity.WorkspaceSnapshot) error

	// Get returns the snapshot for a workspace, or nil when none exists.
	// Legacy-schema rows are migrated on read.
	Get(ctx context.Context, id entity.WorkspaceID) (*entity.WorkspaceSnapshot, error)

	// GetAll returns every stored snapshot, most recently saved first.
	GetAll(ctx context.Context) ([]*entity.WorkspaceSnapshot, error)

	// Delete removes a workspace's snapshot.
	Delete(ctx context.Context, id entity.WorkspaceID) error
}
