package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
	"github.com/weftwork/weft/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func seqIDs(prefix string) entity.IDGenerator {
	var counter int
	return func() string {
		counter++
		return fmt.Sprintf("%s%d", prefix, counter)
	}
}

// twoPane builds a workspace with tab t1 holding p1 and p2 side by side.
func twoPane(t *testing.T) *entity.Workspace {
	t.Helper()
	idGen := seqIDs("s")

	ws := entity.NewWorkspace("ws1", "Test")
	require.True(t, ws.Panes.Add(entity.NewPane("p1", entity.TerminalPane("vim"))))
	require.True(t, ws.Panes.Add(entity.NewPane("p2", entity.TerminalPane("htop"))))

	tab := entity.NewTab("t1", "t1-default", "p1")
	def := tab.DefaultArrangement()
	def.Layout = layout.Insert(def.Layout, "p2", "p1", layout.Horizontal, layout.After, layout.IDGenerator(idGen))
	ws.AppendTab(tab)
	return ws
}

// addDrawerChild wires an existing child pane under a root's drawer.
func addDrawerChild(t *testing.T, ws *entity.Workspace, rootID, childID entity.PaneID) {
	t.Helper()
	root := ws.Panes.Get(rootID)
	require.NotNil(t, root)
	if root.Drawer == nil {
		root.Drawer = entity.NewDrawer()
	}
	child := entity.NewPane(childID, entity.TerminalPane("logs"))
	child.ParentID = rootID
	require.True(t, ws.Panes.Add(child))
	if len(root.Drawer.Children) == 0 {
		root.Drawer.Layout = layout.NewLeaf(string(childID))
	} else {
		last := root.Drawer.Children[len(root.Drawer.Children)-1]
		root.Drawer.Layout = layout.Insert(root.Drawer.Layout, string(childID), string(last),
			layout.Horizontal, layout.After, layout.IDGenerator(seqIDs("ds")))
	}
	root.Drawer.Children = append(root.Drawer.Children, childID)
	root.Drawer.ActiveChild = childID
}

// fakeClock is a manually advanced port.Clock. Timers never fire on their
// own; tests drive time through Advance.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func (c *fakeClock) AfterFunc(time.Duration, func()) port.Timer {
	return fakeTimer{}
}

type fakeTimer struct{}

func (fakeTimer) Stop() bool { return true }
