package layout

// AutoTile builds a balanced tree over the given panes, alternating split
// direction by depth starting with horizontal. Used when a layout must be
// synthesized from a bare pane list (new arrangements, restore fallbacks).
func AutoTile(panes []string, idGen IDGenerator) *Node {
	return autoTile(panes, Horizontal, idGen)
}

func autoTile(panes []string, dir Direction, idGen IDGenerator) *Node {
	switch len(panes) {
	case 0:
		return nil
	case 1:
		return NewLeaf(panes[0])
	}
	next := Vertical
	if dir == Vertical {
		next = Horizontal
	}
	mid := (len(panes) + 1) / 2
	return &Node{
		ID:    idGen(),
		Dir:   dir,
		Ratio: defaultRatio,
		Left:  autoTile(panes[:mid], next, idGen),
		Right: autoTile(panes[mid:], next, idGen),
	}
}
