package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View renders the board into a rune grid. Frames are cached by revision:
// the grid is rebuilt only when markDirty has bumped the revision since the
// last render.
func (m *model) View() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}
	if m.revision == m.renderedRev && m.frameCache != "" {
		return m.frameCache
	}

	var out string
	if m.overlay.kind != overlayNone {
		out = m.overlayView()
	} else {
		out = m.canvasView()
	}
	m.renderedRev = m.revision
	m.frameCache = out
	return out
}

// markDirty flags the current frame as stale.
func (m *model) markDirty() { m.revision++ }

func (m *model) canvasView() string {
	w := m.width
	h := m.height - 1 // status line

	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = make([]rune, w)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Edges first so nodes draw over them.
	for i := range m.board.Edges {
		m.drawEdge(grid, &m.board.Edges[i])
	}

	// Edge creation preview from the source node to the pointer.
	if g, ok := m.gest.(gestureCreateEdge); ok {
		if from := m.board.NodeByID(g.fromID); from != nil {
			cx, cy := from.Center()
			sx, sy := m.camera.WorldToScreen(cx, cy)
			drawLine(grid, int(sx), int(sy), int(g.curX), int(g.curY), '*')
		}
	}

	// Nodes in slice order; later entries are on top.
	for i := range m.board.Nodes {
		m.drawNode(grid, &m.board.Nodes[i])
	}

	if m.selBox != nil {
		m.drawSelectionBox(grid)
	}

	lines := make([]string, 0, m.height)
	for _, row := range grid {
		lines = append(lines, string(row))
	}
	lines = append(lines, m.statusLine())
	return strings.Join(lines, "\n")
}

func (m *model) drawNode(grid [][]rune, n *Node) {
	x0, y0 := m.camera.WorldToScreen(n.X, n.Y)
	x1, y1 := m.camera.WorldToScreen(n.X+n.Width, n.Y+n.Height)
	left, top := int(x0), int(y0)
	right, bottom := int(x1), int(y1)
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}

	selected := m.selection.HasNode(n.ID)
	corner, horizontal, vertical := '+', '-', '|'
	if selected {
		corner, horizontal, vertical = '#', '#', '#'
	}

	for y := top; y <= bottom; y++ {
		if y < 0 || y >= len(grid) {
			continue
		}
		for x := left; x <= right; x++ {
			if x < 0 || x >= len(grid[y]) {
				continue
			}
			switch {
			case (y == top || y == bottom) && (x == left || x == right):
				grid[y][x] = corner
			case y == top || y == bottom:
				grid[y][x] = horizontal
			case x == left || x == right:
				grid[y][x] = vertical
			}
		}
	}

	// Resize handles on selected nodes.
	if selected {
		for _, c := range [][2]int{{left, top}, {right, top}, {left, bottom}, {right, bottom}} {
			putRune(grid, c[0], c[1], '■')
		}
	}

	// Kind badge on the top border for non-text nodes.
	if n.Kind != KindText {
		badge := "[" + n.Kind + "]"
		for i, r := range badge {
			putRune(grid, left+1+i, top, r)
		}
	}

	m.drawNodeBody(grid, n, left, top, right, bottom)
}

func (m *model) drawNodeBody(grid [][]rune, n *Node, left, top, right, bottom int) {
	text := n.Text

	// The inline editor's staged text replaces the node text while editing.
	editing := m.editor != nil && m.editor.nodeID == n.ID
	cursorAt := -1
	if editing {
		text = m.editor.text
		cursorAt = m.editor.cursor
	}

	// A cached link preview title reads better than the raw URL.
	if n.Kind == KindLink && !editing {
		if p, ok := m.previews.Get(n.Text); ok && p.Title != "" {
			text = p.Title + "\n" + n.Text
		}
	}

	maxWidth := right - left - 1
	if maxWidth < 1 {
		return
	}

	offset := 0
	for lineIdx, line := range strings.Split(text, "\n") {
		y := top + 1 + lineIdx
		if y >= bottom {
			break
		}
		display := line
		if len(display) > maxWidth {
			display = display[:maxWidth]
		}
		for i, r := range display {
			putRune(grid, left+1+i, y, r)
		}
		if editing && cursorAt >= offset && cursorAt <= offset+len(line) {
			putRune(grid, left+1+(cursorAt-offset), y, '█')
		}
		offset += len(line) + 1
	}
}

func (m *model) drawEdge(grid [][]rune, e *Edge) {
	from := m.board.NodeByID(e.FromNode)
	to := m.board.NodeByID(e.ToNode)
	if from == nil || to == nil {
		return
	}
	fx, fy := from.Center()
	tx, ty := to.Center()
	sx0, sy0 := m.camera.WorldToScreen(fx, fy)
	sx1, sy1 := m.camera.WorldToScreen(tx, ty)

	ch := '·'
	if m.selection.Edge() == e.ID {
		ch = '●'
	}
	drawLine(grid, int(sx0), int(sy0), int(sx1), int(sy1), ch)

	if e.Label != "" {
		mx := (int(sx0) + int(sx1)) / 2
		my := (int(sy0) + int(sy1)) / 2
		for i, r := range e.Label {
			putRune(grid, mx+i, my, r)
		}
	}
}

func (m *model) drawSelectionBox(grid [][]rune) {
	x0, y0 := m.camera.WorldToScreen(m.selBox.MinX, m.selBox.MinY)
	x1, y1 := m.camera.WorldToScreen(m.selBox.MaxX, m.selBox.MaxY)
	left, top, right, bottom := int(x0), int(y0), int(x1), int(y1)

	for x := left; x <= right; x++ {
		putRune(grid, x, top, '─')
		putRune(grid, x, bottom, '─')
	}
	for y := top; y <= bottom; y++ {
		putRune(grid, left, y, '│')
		putRune(grid, right, y, '│')
	}
	putRune(grid, left, top, '┌')
	putRune(grid, right, top, '┐')
	putRune(grid, left, bottom, '└')
	putRune(grid, right, bottom, '┘')
}

func (m *model) statusLine() string {
	var status string
	switch {
	case m.editor != nil:
		status = "EDIT | Enter=newline, Ctrl+S=save, Esc=cancel"
	case m.statusErr != "":
		return errorStyle.Render(padToWidth("ERROR: "+m.statusErr, m.width))
	default:
		status = fmt.Sprintf("zoom %.0f%% | cam (%.0f,%.0f) | ptr (%.0f,%.0f)",
			m.camera.Zoom*100, m.camera.X, m.camera.Y, m.lastMouseWorld.X, m.lastMouseWorld.Y)
		if n := m.selection.Count(); n > 0 {
			status += fmt.Sprintf(" | %d selected", n)
		} else if m.selection.Edge() != "" {
			status += " | edge selected"
		}
		if m.hover != "" {
			status += " | " + m.hover
		}
		if m.statusInfo != "" {
			status += " | " + m.statusInfo
		}
		status += " | dbl-click=new, shift+drag=link, q=quit"
	}
	return statusStyle.Render(padToWidth(status, m.width))
}

func (m *model) overlayView() string {
	lines := strings.Split(m.overlay.content, "\n")
	visible := m.height - 4
	if visible < 1 {
		visible = 1
	}
	start := m.overlay.scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}

	body := m.overlay.title + "\n" + strings.Repeat("─", lipgloss.Width(m.overlay.title)) + "\n" +
		strings.Join(lines[start:end], "\n")
	box := overlayStyle.MaxWidth(m.width).Render(body)
	footer := statusStyle.Render(padToWidth("j/k=scroll, Esc=close", m.width))
	return box + "\n" + footer
}

func putRune(grid [][]rune, x, y int, r rune) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = r
}

// drawLine is plain Bresenham over grid cells.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		putRune(grid, x0, y0, ch)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func padToWidth(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
