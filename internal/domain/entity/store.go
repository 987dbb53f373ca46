package entity

import "sort"

// PaneStore is the authoritative map from pane id to pane record. It owns
// pane lifecycle; tabs and drawers reference panes by id only.
type PaneStore struct {
	panes map[PaneID]*Pane
}

// NewPaneStore returns an empty store.
func NewPaneStore() *PaneStore {
	return &PaneStore{panes: make(map[PaneID]*Pane)}
}

// Add inserts a pane. Returns false when the pane is nil or its id is
// already taken; pane ids are unique for the life of the store.
func (s *PaneStore) Add(p *Pane) bool {
	if p == nil || p.ID == "" {
		return false
	}
	if _, exists := s.panes[p.ID]; exists {
		return false
	}
	s.panes[p.ID] = p
	return true
}

// Get returns the pane with the given id, or nil.
func (s *PaneStore) Get(id PaneID) *Pane {
	return s.panes[id]
}

// Has reports whether the id is present.
func (s *PaneStore) Has(id PaneID) bool {
	_, ok := s.panes[id]
	return ok
}

// Remove deletes a pane. Removing a root pane cascade-deletes every
// drawer child it owns. Returns the ids actually removed, in deletion
// order, or nil when the id is unknown.
func (s *PaneStore) Remove(id PaneID) []PaneID {
	p, ok := s.panes[id]
	if !ok {
		return nil
	}
	removed := []PaneID{id}
	if p.Drawer != nil {
		for _, child := range p.Drawer.Children {
			if _, ok := s.panes[child]; ok {
				delete(s.panes, child)
				removed = append(removed, child)
			}
		}
	}
	delete(s.panes, id)
	return removed
}

// All returns every pane sorted by id for deterministic iteration.
func (s *PaneStore) All() []*Pane {
	panes := make([]*Pane, 0, len(s.panes))
	for _, p := range s.panes {
		panes = append(panes, p)
	}
	sort.Slice(panes, func(i, j int) bool { return panes[i].ID < panes[j].ID })
	return panes
}

// Len returns the number of panes in the store.
func (s *PaneStore) Len() int {
	return len(s.panes)
}

// Orphaned returns all backgrounded panes sorted by id. This is the
// orphan pool query: independent of any tab.
func (s *PaneStore) Orphaned() []*Pane {
	var orphans []*Pane
	for _, p := range s.panes {
		if p.Residency == ResidencyBackgrounded {
			orphans = append(orphans, p)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].ID < orphans[j].ID })
	return orphans
}
