package usecase

import (
	"fmt"
	"sync/atomic"

	"github.com/weftwork/weft/internal/domain/entity"
)

// NewSequentialIDs returns a generator producing "prefix1", "prefix2", …
// Monotonic within one process, which is all the engine needs: ids only
// have to be unique inside a workspace, and persisted state carries its
// ids verbatim.
func NewSequentialIDs(prefix string) entity.IDGenerator {
	var counter atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, counter.Add(1))
	}
}
