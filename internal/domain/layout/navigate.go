package layout

// NavDirection is a screen-space direction for keyboard focus movement.
type NavDirection string

const (
	NavLeft  NavDirection = "left"
	NavRight NavDirection = "right"
	NavUp    NavDirection = "up"
	NavDown  NavDirection = "down"
)

// Next returns the pane following the given one in left-to-right leaf
// order, wrapping at the end. Returns "" when the pane is absent or the
// tree is empty.
func Next(root *Node, after string) string {
	leaves := Leaves(root)
	for i, pane := range leaves {
		if pane == after {
			return leaves[(i+1)%len(leaves)]
		}
	}
	return ""
}

// Previous returns the pane preceding the given one, wrapping at the
// start.
func Previous(root *Node, before string) string {
	leaves := Leaves(root)
	for i, pane := range leaves {
		if pane == before {
			return leaves[(i-1+len(leaves))%len(leaves)]
		}
	}
	return ""
}

// Rect is a pane's area within the unit square occupied by the tree.
type Rect struct {
	X, Y, W, H float64
}

// Bounds computes each pane's rectangle by recursive ratio subdivision of
// the unit square. Horizontal splits divide along the x axis, vertical
// splits along the y axis.
func Bounds(root *Node) map[string]Rect {
	bounds := make(map[string]Rect)
	collectBounds(root, Rect{X: 0, Y: 0, W: 1, H: 1}, bounds)
	return bounds
}

func collectBounds(n *Node, area Rect, out map[string]Rect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		out[n.Pane] = area
		return
	}
	ratio := ClampRatio(n.Ratio)
	if n.Dir == Horizontal {
		collectBounds(n.Left, Rect{X: area.X, Y: area.Y, W: area.W * ratio, H: area.H}, out)
		collectBounds(n.Right, Rect{X: area.X + area.W*ratio, Y: area.Y, W: area.W * (1 - ratio), H: area.H}, out)
		return
	}
	collectBounds(n.Left, Rect{X: area.X, Y: area.Y, W: area.W, H: area.H * ratio}, out)
	collectBounds(n.Right, Rect{X: area.X, Y: area.Y + area.H*ratio, W: area.W, H: area.H * (1 - ratio)}, out)
}

const navEpsilon = 1e-6

// Neighbor returns the pane geometrically adjacent to the given one in
// the requested direction, or "" when there is none. Among candidates on
// the adjacent side it prefers the nearest edge, breaking ties by the
// largest perpendicular overlap with the source pane.
func Neighbor(root *Node, of string, toward NavDirection) string {
	bounds := Bounds(root)
	src, ok := bounds[of]
	if !ok {
		return ""
	}

	best := ""
	bestDist := 0.0
	bestOverlap := -1.0

	for pane, r := range bounds {
		if pane == of {
			continue
		}
		var dist, overlap float64
		switch toward {
		case NavLeft:
			dist = src.X - (r.X + r.W)
			overlap = overlapLen(src.Y, src.H, r.Y, r.H)
		case NavRight:
			dist = r.X - (src.X + src.W)
			overlap = overlapLen(src.Y, src.H, r.Y, r.H)
		case NavUp:
			dist = src.Y - (r.Y + r.H)
			overlap = overlapLen(src.X, src.W, r.X, r.W)
		case NavDown:
			dist = r.Y - (src.Y + src.H)
			overlap = overlapLen(src.X, src.W, r.X, r.W)
		default:
			return ""
		}
		if dist < -navEpsilon || overlap <= navEpsilon {
			continue
		}
		if best == "" || dist < bestDist-navEpsilon ||
			(dist < bestDist+navEpsilon && overlap > bestOverlap) {
			best = pane
			bestDist = dist
			bestOverlap = overlap
		}
	}
	return best
}

func overlapLen(a, alen, b, blen float64) float64 {
	lo := a
	if b > lo {
		lo = b
	}
	hi := a + alen
	if b+blen < hi {
		hi = b + blen
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}
