package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/domain/entity"
	"github.com/weftwork/weft/internal/domain/layout"
)

func TestDrawerAdd(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)

	out, err := uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws,
		ParentID:  "p1",
		Content:   entity.TerminalPane("logs"),
		Title:     "logs",
	})
	require.NoError(t, err)

	parent := ws.Panes.Get("p1")
	require.NotNil(t, parent.Drawer, "drawer created lazily")
	drawer := parent.Drawer
	assert.Equal(t, []entity.PaneID{out.Pane.ID}, drawer.Children)
	assert.Equal(t, out.Pane.ID, drawer.ActiveChild)
	assert.True(t, drawer.Expanded)
	assert.Equal(t, entity.PaneID("p1"), out.Pane.ParentID)
	assert.Equal(t, []string{string(out.Pane.ID)}, layout.Leaves(drawer.Layout))

	// Second child splits after the first.
	out2, err := uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws,
		ParentID:  "p1",
		Content:   entity.TerminalPane("tests"),
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.PaneID{out.Pane.ID, out2.Pane.ID}, drawer.Children)
	assert.Equal(t, out2.Pane.ID, drawer.ActiveChild)
	assert.Equal(t, 2, layout.Count(drawer.Layout))
}

func TestDrawerAdd_Validation(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")

	_, err := uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws,
		ParentID:  "nope",
		Content:   entity.TerminalPane("logs"),
	})
	require.ErrorIs(t, err, usecase.ErrPaneNotFound)

	// Drawer children cannot own drawers of their own.
	_, err = uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws,
		ParentID:  "c1",
		Content:   entity.TerminalPane("logs"),
	})
	require.ErrorIs(t, err, usecase.ErrNotRootPane)
}

func TestDrawerRemove(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")
	addDrawerChild(t, ws, "p1", "c2")
	drawer := ws.Panes.Get("p1").Drawer
	require.Equal(t, entity.PaneID("c2"), drawer.ActiveChild)

	require.NoError(t, uc.Remove(testCtx(), usecase.RemoveDrawerPaneInput{
		Workspace: ws,
		ParentID:  "p1",
		ChildID:   "c2",
	}))

	assert.Equal(t, []entity.PaneID{"c1"}, drawer.Children)
	assert.Equal(t, entity.PaneID("c1"), drawer.ActiveChild, "active hands off to a remaining child")
	assert.Nil(t, ws.Panes.Get("c2"), "child leaves the store")
	assert.Equal(t, []string{"c1"}, layout.Leaves(drawer.Layout))
}

func TestDrawerRemove_LastChildRetainsDrawer(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")

	require.NoError(t, uc.Remove(testCtx(), usecase.RemoveDrawerPaneInput{
		Workspace: ws,
		ParentID:  "p1",
		ChildID:   "c1",
	}))

	drawer := ws.Panes.Get("p1").Drawer
	require.NotNil(t, drawer, "empty drawer is retained, not dropped")
	assert.Empty(t, drawer.Children)
	assert.Empty(t, drawer.ActiveChild)
	assert.True(t, drawer.Expanded, "expand flag survives")
}

func TestDrawerToggle(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")
	drawer := ws.Panes.Get("p1").Drawer

	require.NoError(t, uc.Toggle(testCtx(), usecase.ToggleDrawerInput{Workspace: ws, ParentID: "p1"}))
	assert.False(t, drawer.Expanded)
	require.NoError(t, uc.Toggle(testCtx(), usecase.ToggleDrawerInput{Workspace: ws, ParentID: "p1"}))
	assert.True(t, drawer.Expanded)
}

func TestDrawerToggle_EmptyDrawerIsNoOp(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	ws.Panes.Get("p1").Drawer = entity.NewDrawer()

	require.NoError(t, uc.Toggle(testCtx(), usecase.ToggleDrawerInput{Workspace: ws, ParentID: "p1"}))
	assert.True(t, ws.Panes.Get("p1").Drawer.Expanded, "zero children: toggle does nothing")
}

func TestDrawerToggle_NoDrawer(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)

	err := uc.Toggle(testCtx(), usecase.ToggleDrawerInput{Workspace: ws, ParentID: "p1"})
	require.ErrorIs(t, err, usecase.ErrEmptyDrawer)
}

func TestDrawerMinimize(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")
	addDrawerChild(t, ws, "p1", "c2")
	drawer := ws.Panes.Get("p1").Drawer
	drawer.ActiveChild = "c1"

	require.NoError(t, uc.Minimize(testCtx(), usecase.MinimizeDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))

	assert.True(t, drawer.IsMinimized("c1"))
	assert.Equal(t, entity.PaneID("c2"), drawer.ActiveChild, "minimizing the active child hands focus to a visible sibling")
	assert.Equal(t, []entity.PaneID{"c2"}, drawer.VisibleChildren())

	// Minimizing again is a no-op.
	require.NoError(t, uc.Minimize(testCtx(), usecase.MinimizeDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))

	// The last visible child may not be minimized.
	err := uc.Minimize(testCtx(), usecase.MinimizeDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c2",
	})
	require.ErrorIs(t, err, usecase.ErrLastVisibleChild)
}

func TestDrawerExpand(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")
	addDrawerChild(t, ws, "p1", "c2")
	drawer := ws.Panes.Get("p1").Drawer

	require.NoError(t, uc.Minimize(testCtx(), usecase.MinimizeDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))
	require.NoError(t, uc.Expand(testCtx(), usecase.ExpandDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))

	assert.False(t, drawer.IsMinimized("c1"))
	assert.Len(t, drawer.VisibleChildren(), 2)
}

func TestDrawerFocusChild_Unminimizes(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)
	addDrawerChild(t, ws, "p1", "c1")
	addDrawerChild(t, ws, "p1", "c2")
	drawer := ws.Panes.Get("p1").Drawer
	drawer.ActiveChild = "c2"

	require.NoError(t, uc.Minimize(testCtx(), usecase.MinimizeDrawerPaneInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))
	require.NoError(t, uc.FocusChild(testCtx(), usecase.FocusDrawerChildInput{
		Workspace: ws, ParentID: "p1", ChildID: "c1",
	}))

	assert.Equal(t, entity.PaneID("c1"), drawer.ActiveChild)
	assert.False(t, drawer.IsMinimized("c1"))
}

func TestDrawerResizeAndEqualize(t *testing.T) {
	uc := usecase.NewManageDrawersUseCase(seqIDs("d"))
	ws := twoPane(t)

	_, err := uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws, ParentID: "p1", Content: entity.TerminalPane("logs"),
	})
	require.NoError(t, err)
	_, err = uc.Add(testCtx(), usecase.AddDrawerPaneInput{
		Workspace: ws, ParentID: "p1", Content: entity.TerminalPane("tests"),
	})
	require.NoError(t, err)

	drawer := ws.Panes.Get("p1").Drawer
	splitID := drawer.Layout.ID
	require.NotEmpty(t, splitID)

	require.NoError(t, uc.ResizeChild(testCtx(), usecase.ResizeDrawerSplitInput{
		Workspace: ws, ParentID: "p1", SplitID: splitID, Ratio: 0.7,
	}))
	assert.InDelta(t, 0.7, drawer.Layout.Ratio, 0.001)

	require.NoError(t, uc.EqualizeChildren(testCtx(), usecase.EqualizeDrawerInput{
		Workspace: ws, ParentID: "p1",
	}))
	assert.InDelta(t, 0.5, drawer.Layout.Ratio, 0.001)
}
