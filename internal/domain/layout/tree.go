// Package layout implements the immutable binary split tree that arranges
// pane ids on screen. Nodes are value-like: every operation returns a new
// root and shares untouched subtrees with the old one. Callers must never
// mutate a returned tree in place.
package layout

// Direction indicates how a split divides its area.
type Direction string

const (
	// Horizontal places children side by side (left/right).
	Horizontal Direction = "h"
	// Vertical stacks children (top/bottom).
	Vertical Direction = "v"
)

// Position selects where a newly inserted pane lands relative to its target.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
)

// Split ratios are clamped so neither side can collapse to nothing.
const (
	MinRatio     = 0.1
	MaxRatio     = 0.9
	defaultRatio = 0.5
)

// IDGenerator produces ids for newly created split nodes. Supplied by the
// caller so tests and migrations stay deterministic.
type IDGenerator func() string

// Node is either a leaf (Pane != "") or a split with exactly two children.
type Node struct {
	ID    string    `json:"id,omitempty"`
	Pane  string    `json:"pane,omitempty"`
	Dir   Direction `json:"dir,omitempty"`
	Ratio float64   `json:"ratio,omitempty"`
	Left  *Node     `json:"left,omitempty"`
	Right *Node     `json:"right,omitempty"`
}

// IsLeaf reports whether the node holds a pane.
func (n *Node) IsLeaf() bool {
	return n != nil && n.Pane != ""
}

// IsSplit reports whether the node divides into two children.
func (n *Node) IsSplit() bool {
	return n != nil && n.Pane == "" && n.Left != nil && n.Right != nil
}

// NewLeaf returns a single-pane tree.
func NewLeaf(pane string) *Node {
	return &Node{Pane: pane}
}

// ClampRatio bounds a split ratio to [MinRatio, MaxRatio].
func ClampRatio(ratio float64) float64 {
	if ratio < MinRatio {
		return MinRatio
	}
	if ratio > MaxRatio {
		return MaxRatio
	}
	return ratio
}

// Insert replaces the target leaf with a split holding the target and the
// new pane, ordered by pos. The root is returned unchanged when the target
// is absent or the pane is already present.
func Insert(root *Node, pane, target string, dir Direction, pos Position, idGen IDGenerator) *Node {
	if root == nil || pane == "" || Contains(root, pane) {
		return root
	}
	newRoot, changed := insert(root, pane, target, dir, pos, idGen)
	if !changed {
		return root
	}
	return newRoot
}

func insert(n *Node, pane, target string, dir Direction, pos Position, idGen IDGenerator) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.IsLeaf() {
		if n.Pane != target {
			return n, false
		}
		split := &Node{
			ID:    idGen(),
			Dir:   dir,
			Ratio: defaultRatio,
		}
		if pos == Before {
			split.Left = NewLeaf(pane)
			split.Right = n
		} else {
			split.Left = n
			split.Right = NewLeaf(pane)
		}
		return split, true
	}
	if left, changed := insert(n.Left, pane, target, dir, pos, idGen); changed {
		clone := *n
		clone.Left = left
		return &clone, true
	}
	if right, changed := insert(n.Right, pane, target, dir, pos, idGen); changed {
		clone := *n
		clone.Right = right
		return &clone, true
	}
	return n, false
}

// Remove deletes the leaf holding pane and promotes its sibling. Returns
// nil when the tree becomes empty, and the root unchanged when the pane
// is absent.
func Remove(root *Node, pane string) *Node {
	if root == nil {
		return nil
	}
	newRoot, changed := remove(root, pane)
	if !changed {
		return root
	}
	return newRoot
}

func remove(n *Node, pane string) (*Node, bool) {
	if n.IsLeaf() {
		if n.Pane == pane {
			return nil, true
		}
		return n, false
	}
	if left, changed := remove(n.Left, pane); changed {
		if left == nil {
			return n.Right, true
		}
		clone := *n
		clone.Left = left
		return &clone, true
	}
	if right, changed := remove(n.Right, pane); changed {
		if right == nil {
			return n.Left, true
		}
		clone := *n
		clone.Right = right
		return &clone, true
	}
	return n, false
}

// Resize sets the clamped ratio on the split with the given id. The root
// is returned unchanged when the id is unknown.
func Resize(root *Node, splitID string, ratio float64) *Node {
	if root == nil || splitID == "" {
		return root
	}
	newRoot, changed := resize(root, splitID, ClampRatio(ratio))
	if !changed {
		return root
	}
	return newRoot
}

func resize(n *Node, splitID string, ratio float64) (*Node, bool) {
	if n == nil || n.IsLeaf() {
		return n, false
	}
	if n.ID == splitID {
		clone := *n
		clone.Ratio = ratio
		return &clone, true
	}
	if left, changed := resize(n.Left, splitID, ratio); changed {
		clone := *n
		clone.Left = left
		return &clone, true
	}
	if right, changed := resize(n.Right, splitID, ratio); changed {
		clone := *n
		clone.Right = right
		return &clone, true
	}
	return n, false
}

// Equalize sets every split ratio to 0.5.
func Equalize(root *Node) *Node {
	if root == nil || root.IsLeaf() {
		return root
	}
	clone := *root
	clone.Ratio = defaultRatio
	clone.Left = Equalize(root.Left)
	clone.Right = Equalize(root.Right)
	return &clone
}

// Leaves returns pane ids in left-to-right order.
func Leaves(root *Node) []string {
	var panes []string
	walkLeaves(root, func(n *Node) {
		panes = append(panes, n.Pane)
	})
	return panes
}

func walkLeaves(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		fn(n)
		return
	}
	walkLeaves(n.Left, fn)
	walkLeaves(n.Right, fn)
}

// Contains reports whether pane is a leaf of the tree.
func Contains(root *Node, pane string) bool {
	if root == nil {
		return false
	}
	if root.IsLeaf() {
		return root.Pane == pane
	}
	return Contains(root.Left, pane) || Contains(root.Right, pane)
}

// Count returns the number of leaves.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	if root.IsLeaf() {
		return 1
	}
	return Count(root.Left) + Count(root.Right)
}

// FindSplit returns the split node with the given id, or nil.
func FindSplit(root *Node, splitID string) *Node {
	if root == nil || root.IsLeaf() {
		return nil
	}
	if root.ID == splitID {
		return root
	}
	if found := FindSplit(root.Left, splitID); found != nil {
		return found
	}
	return FindSplit(root.Right, splitID)
}

// Clone returns a deep copy of the tree.
func Clone(root *Node) *Node {
	if root == nil {
		return nil
	}
	clone := *root
	clone.Left = Clone(root.Left)
	clone.Right = Clone(root.Right)
	return &clone
}

// Filter removes every leaf for which keep returns false, collapsing
// splits as their children disappear. Returns nil when nothing survives.
func Filter(root *Node, keep func(pane string) bool) *Node {
	if root == nil {
		return nil
	}
	if root.IsLeaf() {
		if keep(root.Pane) {
			return root
		}
		return nil
	}
	left := Filter(root.Left, keep)
	right := Filter(root.Right, keep)
	switch {
	case left == nil && right == nil:
		return nil
	case left == nil:
		return right
	case right == nil:
		return left
	}
	clone := *root
	clone.Left = left
	clone.Right = right
	return &clone
}
