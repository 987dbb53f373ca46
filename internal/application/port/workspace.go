package port

import "github.com/weftwork/weft/internal/domain/entity"

// WorkspaceProvider hands the snapshot service the live workspace to
// serialize. The shell implements this; the service never mutates what
// it receives.
type WorkspaceProvider interface {
	GetWorkspace() *entity.Workspace
}
