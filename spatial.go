package main

import "math"

type ResizeHandle int

const (
	HandleNone ResizeHandle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// ContainsPoint is an axis-aligned containment test, inclusive of the border.
func (n *Node) ContainsPoint(wx, wy float64) bool {
	return wx >= n.X && wx <= n.X+n.Width && wy >= n.Y && wy <= n.Y+n.Height
}

// HandleAt tests the four corners in TL, TR, BL, BR priority order and
// returns the first within radius of the point. Handles extend outside the
// node bounds, so this runs before the containment test.
func (n *Node) HandleAt(wx, wy, radius float64) ResizeHandle {
	corners := []struct {
		h    ResizeHandle
		x, y float64
	}{
		{HandleTopLeft, n.X, n.Y},
		{HandleTopRight, n.X + n.Width, n.Y},
		{HandleBottomLeft, n.X, n.Y + n.Height},
		{HandleBottomRight, n.X + n.Width, n.Y + n.Height},
	}
	for _, c := range corners {
		if math.Abs(wx-c.x) <= radius && math.Abs(wy-c.y) <= radius {
			return c.h
		}
	}
	return HandleNone
}

// nodeAt returns the topmost node containing the point, or nil. Later nodes
// draw on top, so the scan runs back to front.
func (b *Board) nodeAt(wx, wy float64) *Node {
	for i := len(b.Nodes) - 1; i >= 0; i-- {
		if b.Nodes[i].ContainsPoint(wx, wy) {
			return &b.Nodes[i]
		}
	}
	return nil
}

// handleHitOnSelected scans selected nodes back to front for a corner handle
// under the point.
func (b *Board) handleHitOnSelected(sel *Selection, wx, wy, radius float64) (*Node, ResizeHandle) {
	for i := len(b.Nodes) - 1; i >= 0; i-- {
		n := &b.Nodes[i]
		if !sel.HasNode(n.ID) {
			continue
		}
		if h := n.HandleAt(wx, wy, radius); h != HandleNone {
			return n, h
		}
	}
	return nil, HandleNone
}

// pointNearSegment reports whether the point lies within threshold of the
// segment. Zero-length segments degrade to a point distance test.
func pointNearSegment(px, py, x1, y1, x2, y2, threshold float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1) < threshold
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	cx := x1 + t*dx
	cy := y1 + t*dy
	return math.Hypot(px-cx, py-cy) < threshold
}

// edgeAt returns the first edge whose center-to-center segment passes within
// threshold of the point. Edges with a missing endpoint never match.
func (b *Board) edgeAt(wx, wy, threshold float64) *Edge {
	for i := range b.Edges {
		e := &b.Edges[i]
		from := b.NodeByID(e.FromNode)
		to := b.NodeByID(e.ToNode)
		if from == nil || to == nil {
			continue
		}
		fx, fy := from.Center()
		tx, ty := to.Center()
		if pointNearSegment(wx, wy, fx, fy, tx, ty, threshold) {
			return e
		}
	}
	return nil
}

// intersectsRect is the standard AABB overlap test; touching edges count.
func (n *Node) intersectsRect(minX, minY, maxX, maxY float64) bool {
	return !(n.X > maxX || n.X+n.Width < minX || n.Y > maxY || n.Y+n.Height < minY)
}

// nodesInRect collects the ids of every node intersecting the rectangle.
func (b *Board) nodesInRect(minX, minY, maxX, maxY float64) map[string]bool {
	out := map[string]bool{}
	for i := range b.Nodes {
		if b.Nodes[i].intersectsRect(minX, minY, maxX, maxY) {
			out[b.Nodes[i].ID] = true
		}
	}
	return out
}
