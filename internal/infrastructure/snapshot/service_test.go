package snapshot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/infrastructure/snapshot"
	"github.com/weftwork/weft/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	armed  *manualTimer
	rearms int
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) port.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn}
	c.armed = t
	c.rearms++
	return t
}

// fire runs the currently armed timer, if it was not stopped.
func (c *manualClock) fire() {
	c.mu.Lock()
	t := c.armed
	c.mu.Unlock()
	if t == nil || t.stopped {
		return
	}
	t.fn()
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

type staticProvider struct {
	ws *entity.Workspace
}

func (p *staticProvider) GetWorkspace() *entity.Workspace { return p.ws }

type countingRepo struct {
	mu    sync.Mutex
	saves int
	last  *entity.WorkspaceSnapshot
}

func (r *countingRepo) Save(_ context.Context, snap *entity.WorkspaceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.last = snap
	return nil
}

func (r *countingRepo) Get(context.Context, entity.WorkspaceID) (*entity.WorkspaceSnapshot, error) {
	return nil, nil
}

func (r *countingRepo) GetAll(context.Context) ([]*entity.WorkspaceSnapshot, error) {
	return nil, nil
}

func (r *countingRepo) Delete(context.Context, entity.WorkspaceID) error { return nil }

func (r *countingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func newService(t *testing.T) (*snapshot.Service, *manualClock, *countingRepo) {
	t.Helper()
	clock := newManualClock()
	repo := &countingRepo{}
	ws := entity.NewWorkspace("ws1", "Test")
	require.True(t, ws.Panes.Add(entity.NewPane("p1", entity.TerminalPane("vim"))))
	ws.AppendTab(entity.NewTab("t1", "t1-default", "p1"))

	uc := usecase.NewSnapshotWorkspaceUseCase(repo, clock)
	svc := snapshot.NewService(uc, &staticProvider{ws: ws}, clock, 500)
	return svc, clock, repo
}

func TestService_DebouncesBurstsIntoOneWrite(t *testing.T) {
	svc, clock, repo := newService(t)
	ctx := testCtx()
	svc.Start(ctx)

	svc.MarkDirty()
	svc.MarkDirty()
	svc.MarkDirty()

	assert.Zero(t, repo.saveCount(), "nothing written before the window elapses")
	assert.Equal(t, 3, clock.rearms, "each mark rearms the timer")

	clock.fire()

	require.Equal(t, 1, repo.saveCount())
	assert.Equal(t, entity.WorkspaceID("ws1"), repo.last.ID)
}

func TestService_FlushIsSynchronous(t *testing.T) {
	svc, _, repo := newService(t)
	ctx := testCtx()
	svc.Start(ctx)

	svc.MarkDirty()
	require.NoError(t, svc.Flush(ctx))
	assert.Equal(t, 1, repo.saveCount())

	// The pending timer was stopped: firing it later writes nothing.
	require.NoError(t, svc.Flush(ctx))
	assert.Equal(t, 1, repo.saveCount(), "clean flush writes nothing")
}

func TestService_StopFlushesDirtyState(t *testing.T) {
	svc, _, repo := newService(t)
	ctx := testCtx()
	svc.Start(ctx)

	svc.MarkDirty()
	require.NoError(t, svc.Stop(ctx))
	assert.Equal(t, 1, repo.saveCount())
}

func TestService_TimerBeforeStartIsInert(t *testing.T) {
	svc, clock, repo := newService(t)

	svc.MarkDirty()
	clock.fire()

	assert.Zero(t, repo.saveCount(), "no context yet, nothing to write with")
}
