package main

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	arrangeGapX = 80.0
	arrangeGapY = 40.0
)

// arrangeBoard lays the board out as left-to-right trees following the edge
// direction. Roots keep their relative vertical order; nodes in a cycle or
// already placed through another parent stay where the first visit put them.
func (m *model) arrangeBoard() tea.Cmd {
	if len(m.board.Nodes) == 0 {
		return nil
	}
	m.history.Push(m.board.Clone())

	children := map[string][]string{}
	hasParent := map[string]bool{}
	for _, e := range m.board.Edges {
		if m.board.NodeByID(e.FromNode) == nil || m.board.NodeByID(e.ToNode) == nil {
			continue
		}
		children[e.FromNode] = append(children[e.FromNode], e.ToNode)
		hasParent[e.ToNode] = true
	}

	var roots []string
	for _, n := range m.board.Nodes {
		if !hasParent[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	// Every node reachable only through a cycle still needs a home.
	if len(roots) == 0 {
		roots = append(roots, m.board.Nodes[0].ID)
	}
	sort.Slice(roots, func(i, j int) bool {
		return m.board.NodeByID(roots[i]).Y < m.board.NodeByID(roots[j]).Y
	})

	placed := map[string]bool{}
	y := 0.0
	for _, rootID := range roots {
		h := m.subtreeHeight(rootID, children, map[string]bool{})
		m.placeSubtree(rootID, 0, y+h/2, children, placed)
		y += h + arrangeGapY
	}

	// Anything still unplaced sits in a cycle with no entry point.
	for i := range m.board.Nodes {
		n := &m.board.Nodes[i]
		if placed[n.ID] {
			continue
		}
		n.X = 0
		n.Y = y
		y += n.Height + arrangeGapY
		placed[n.ID] = true
	}

	m.selection.Prune(&m.board)
	m.markDirty()
	return m.saveCmd()
}

// subtreeHeight is the vertical span a node and its descendants need.
// Visited guards against cycles.
func (m *model) subtreeHeight(id string, children map[string][]string, visited map[string]bool) float64 {
	node := m.board.NodeByID(id)
	if node == nil || visited[id] {
		return 0
	}
	visited[id] = true

	total := 0.0
	for _, childID := range children[id] {
		if h := m.subtreeHeight(childID, children, visited); h > 0 {
			if total > 0 {
				total += arrangeGapY
			}
			total += h
		}
	}
	return maxf(node.Height, total)
}

// placeSubtree positions a node with its vertical center at centerY and its
// children in a column to the right.
func (m *model) placeSubtree(id string, x, centerY float64, children map[string][]string, placed map[string]bool) {
	node := m.board.NodeByID(id)
	if node == nil || placed[id] {
		return
	}
	placed[id] = true

	node.X = x
	node.Y = centerY - node.Height/2

	kids := children[id]
	if len(kids) == 0 {
		return
	}

	heights := make([]float64, len(kids))
	total := 0.0
	for i, childID := range kids {
		heights[i] = m.subtreeHeight(childID, children, map[string]bool{})
		if heights[i] > 0 {
			if total > 0 {
				total += arrangeGapY
			}
			total += heights[i]
		}
	}

	childX := x + node.Width + arrangeGapX
	cur := centerY - total/2
	for i, childID := range kids {
		if heights[i] == 0 {
			continue
		}
		m.placeSubtree(childID, childX, cur+heights[i]/2, children, placed)
		cur += heights[i] + arrangeGapY
	}
}
