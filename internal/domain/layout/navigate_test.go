package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftwork/weft/internal/domain/layout"
)

// quadrants builds a 2x2 grid:
//
//	a | b
//	--+--
//	c | d
func quadrants(t *testing.T) *layout.Node {
	t.Helper()
	idGen := testIDGen()
	root := layout.NewLeaf("a")
	root = layout.Insert(root, "b", "a", layout.Horizontal, layout.After, idGen)
	root = layout.Insert(root, "c", "a", layout.Vertical, layout.After, idGen)
	root = layout.Insert(root, "d", "b", layout.Vertical, layout.After, idGen)
	return root
}

func TestNextPrevious_WrapInLeafOrder(t *testing.T) {
	root := quadrants(t)
	leaves := layout.Leaves(root)
	require.Equal(t, []string{"a", "c", "b", "d"}, leaves)

	assert.Equal(t, "c", layout.Next(root, "a"))
	assert.Equal(t, "a", layout.Next(root, "d"), "wraps at the end")
	assert.Equal(t, "d", layout.Previous(root, "a"), "wraps at the start")
	assert.Equal(t, "", layout.Next(root, "zzz"))
	assert.Equal(t, "", layout.Previous(nil, "a"))
}

func TestBounds_SubdividesUnitSquare(t *testing.T) {
	root := quadrants(t)
	bounds := layout.Bounds(root)
	require.Len(t, bounds, 4)

	a := bounds["a"]
	assert.InDelta(t, 0.0, a.X, 0.001)
	assert.InDelta(t, 0.0, a.Y, 0.001)
	assert.InDelta(t, 0.5, a.W, 0.001)
	assert.InDelta(t, 0.5, a.H, 0.001)

	d := bounds["d"]
	assert.InDelta(t, 0.5, d.X, 0.001)
	assert.InDelta(t, 0.5, d.Y, 0.001)
}

func TestNeighbor_Quadrants(t *testing.T) {
	root := quadrants(t)

	assert.Equal(t, "b", layout.Neighbor(root, "a", layout.NavRight))
	assert.Equal(t, "a", layout.Neighbor(root, "b", layout.NavLeft))
	assert.Equal(t, "c", layout.Neighbor(root, "a", layout.NavDown))
	assert.Equal(t, "b", layout.Neighbor(root, "d", layout.NavUp))

	// No pane beyond the edge.
	assert.Equal(t, "", layout.Neighbor(root, "a", layout.NavLeft))
	assert.Equal(t, "", layout.Neighbor(root, "a", layout.NavUp))
	assert.Equal(t, "", layout.Neighbor(root, "d", layout.NavRight))

	// Unknown pane.
	assert.Equal(t, "", layout.Neighbor(root, "zzz", layout.NavRight))
}

func TestNeighbor_PrefersLargestOverlap(t *testing.T) {
	// Left column is one tall pane; right column stacks two. Moving left
	// from either right pane lands on the tall one; moving right from the
	// tall pane picks the larger overlap after resizing.
	idGen := testIDGen()
	root := layout.NewLeaf("tall")
	root = layout.Insert(root, "top", "tall", layout.Horizontal, layout.After, idGen)
	root = layout.Insert(root, "bottom", "top", layout.Vertical, layout.After, idGen)

	assert.Equal(t, "tall", layout.Neighbor(root, "top", layout.NavLeft))
	assert.Equal(t, "tall", layout.Neighbor(root, "bottom", layout.NavLeft))

	// Shrink the top pane so "bottom" overlaps more with "tall".
	inner := root.Right
	require.True(t, inner.IsSplit())
	resized := layout.Resize(root, inner.ID, 0.2)
	assert.Equal(t, "bottom", layout.Neighbor(resized, "tall", layout.NavRight))
}
