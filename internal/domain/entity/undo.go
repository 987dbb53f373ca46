package entity

import "time"

// UndoEntry captures everything needed to restore a closed tab exactly:
// deep copies of the tab (all arrangements) and of every pane it
// referenced, plus the tab's index in the containing list.
type UndoEntry struct {
	Tab      *Tab
	Panes    []*Pane
	Index    int
	ClosedAt time.Time
}

// References reports whether the entry holds a copy of the given pane.
func (e *UndoEntry) References(id PaneID) bool {
	for _, p := range e.Panes {
		if p.ID == id {
			return true
		}
	}
	return false
}

// DefaultUndoCapacity bounds the close-tab history.
const DefaultUndoCapacity = 10

// UndoStack is a bounded LIFO of tab-close snapshots. Pushing past
// capacity evicts the oldest entry and returns it so the caller can purge
// panes that entry uniquely referenced.
type UndoStack struct {
	entries  []*UndoEntry
	capacity int
}

// NewUndoStack creates a stack with the given capacity; non-positive
// values fall back to DefaultUndoCapacity.
func NewUndoStack(capacity int) *UndoStack {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &UndoStack{capacity: capacity}
}

// Push appends an entry, returning the evicted oldest entry when the
// stack overflows, or nil.
func (s *UndoStack) Push(e *UndoEntry) *UndoEntry {
	if e == nil {
		return nil
	}
	s.entries = append(s.entries, e)
	if len(s.entries) <= s.capacity {
		return nil
	}
	evicted := s.entries[0]
	s.entries = append([]*UndoEntry(nil), s.entries[1:]...)
	return evicted
}

// Pop removes and returns the most recent entry, or nil when empty.
func (s *UndoStack) Pop() *UndoEntry {
	if len(s.entries) == 0 {
		return nil
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e
}

// Peek returns the most recent entry without removing it.
func (s *UndoStack) Peek() *UndoEntry {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// Len returns the number of entries.
func (s *UndoStack) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the stack, oldest first.
func (s *UndoStack) Entries() []*UndoEntry {
	return append([]*UndoEntry(nil), s.entries...)
}

// DropExpired removes and returns entries closed at or before the cutoff.
func (s *UndoStack) DropExpired(cutoff time.Time) []*UndoEntry {
	var expired []*UndoEntry
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.ClosedAt.After(cutoff) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return expired
}

// AnyReferences reports whether any entry in the stack references the
// pane.
func (s *UndoStack) AnyReferences(id PaneID) bool {
	for _, e := range s.entries {
		if e.References(id) {
			return true
		}
	}
	return false
}
