// Package usecase contains the application operations that mutate the
// workspace state. Each usecase sequences calls across the pane store,
// tabs, drawers, orphan pool and undo stack but holds no domain state of
// its own.
//
// Structural misses (unknown pane/tab/arrangement ids) are expected to
// occur transiently and are reported as sentinel errors with the state
// left untouched; they must never crash the engine.
package usecase

import "errors"

var (
	ErrPaneNotFound        = errors.New("pane not found")
	ErrTabNotFound         = errors.New("tab not found")
	ErrArrangementNotFound = errors.New("arrangement not found")
	ErrDefaultArrangement  = errors.New("default arrangement cannot be removed")
	ErrEmptySelection      = errors.New("no panes selected")
	ErrPaneNotInTab        = errors.New("pane does not belong to any tab")
	ErrNotRootPane         = errors.New("pane is not a root pane")
	ErrDrawerChild         = errors.New("operation not valid on a drawer child")
	ErrEmptyDrawer         = errors.New("drawer has no children")
	ErrLastVisibleChild    = errors.New("cannot minimize the last visible drawer child")
	ErrNotBackgrounded     = errors.New("pane is not backgrounded")
	ErrNothingToRestore    = errors.New("no closed tab to restore")
)
