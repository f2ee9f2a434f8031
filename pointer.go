package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Pointer gesture state machine. Every gesture begins on pointer-down from
// idle and ends on pointer-up back at idle. A history snapshot is pushed at
// gesture start, before the first mutation, so one drag is one undo step.
// Edge creation snapshots only on successful completion.

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.pointerDown(msg)
		case tea.MouseButtonWheelUp:
			m.zoomAt(float64(msg.X), float64(msg.Y), zoomStepIn)
		case tea.MouseButtonWheelDown:
			m.zoomAt(float64(msg.X), float64(msg.Y), zoomStepOut)
		}
	case tea.MouseActionMotion:
		m.pointerMove(msg)
	case tea.MouseActionRelease:
		return m.pointerUp(msg)
	}
	return nil
}

func (m *model) zoomAt(sx, sy, factor float64) {
	m.camera.ZoomAt(sx, sy, factor, m.cfg.ZoomMin, m.cfg.ZoomMax)
	m.markDirty()
}

func (m *model) pointerDown(msg tea.MouseMsg) tea.Cmd {
	if m.editor != nil || m.overlay.kind != overlayNone {
		return nil
	}

	// Terminals have no dblclick event; two presses on the same cell within
	// the window count as one.
	now := time.Now()
	if now.Sub(m.lastClickAt) < doubleClickWindow && msg.X == m.lastClickX && msg.Y == m.lastClickY {
		m.lastClickAt = time.Time{}
		return m.doubleClick(msg)
	}
	m.lastClickAt = now
	m.lastClickX, m.lastClickY = msg.X, msg.Y

	sx, sy := float64(msg.X), float64(msg.Y)
	wx, wy := m.camera.ScreenToWorld(sx, sy)
	handleRadius := resizeHandleSize / m.camera.Zoom
	m.markDirty()

	// Priority 1: a corner handle on an already-selected node. Handles stick
	// out past the node border, so this runs before the containment scan.
	if node, handle := m.board.handleHitOnSelected(&m.selection, wx, wy, handleRadius); node != nil {
		m.history.Push(m.board.Clone())
		m.gest = gestureResize{
			nodeID:  node.ID,
			handle:  handle,
			startWX: wx,
			startWY: wy,
			origX:   node.X,
			origY:   node.Y,
			origW:   node.Width,
			origH:   node.Height,
		}
		return nil
	}

	// Priority 2: the topmost node under the point.
	if node := m.board.nodeAt(wx, wy); node != nil {
		m.selection.ClearEdge()

		if msg.Shift {
			m.gest = gestureCreateEdge{fromID: node.ID, curX: sx, curY: sy}
			return nil
		}

		var cmd tea.Cmd
		if msg.Ctrl {
			m.selection.ToggleNode(node.ID)
		} else if !m.selection.HasNode(node.ID) {
			m.selection.SelectNode(node.ID)
		}

		// Clicking a link node copies its URL.
		if node.Kind == KindLink && node.Text != "" {
			url := node.Text
			log := m.log
			cmd = func() tea.Msg {
				if err := writeClipboardText(url); err != nil {
					log.Warn("clipboard write failed", zap.Error(err))
				}
				return nil
			}
		}

		startPos := map[string]worldPoint{}
		for i := range m.board.Nodes {
			n := &m.board.Nodes[i]
			if m.selection.HasNode(n.ID) {
				startPos[n.ID] = worldPoint{n.X, n.Y}
			}
		}
		if len(startPos) == 0 {
			// Ctrl-toggle just deselected the clicked node; drag it alone.
			m.selection.SelectNode(node.ID)
			startPos[node.ID] = worldPoint{node.X, node.Y}
		}

		m.history.Push(m.board.Clone())
		m.gest = gestureDrag{startX: sx, startY: sy, startPos: startPos}
		return cmd
	}

	// Priority 3: an edge near the point. Selecting it is not a gesture.
	if edge := m.board.edgeAt(wx, wy, edgeHitThreshold/m.camera.Zoom); edge != nil {
		m.selection.SelectEdge(edge.ID)
		return nil
	}

	// Priority 4: empty canvas.
	m.selection.ClearEdge()
	if !msg.Shift && !msg.Ctrl {
		m.selection.ClearNodes()
	}
	if msg.Ctrl {
		m.gest = gestureBoxSelect{startX: sx, startY: sy}
	} else {
		m.gest = gesturePan{startX: sx, startY: sy, camStartX: m.camera.X, camStartY: m.camera.Y}
	}
	return nil
}

func (m *model) pointerMove(msg tea.MouseMsg) {
	sx, sy := float64(msg.X), float64(msg.Y)

	switch g := m.gest.(type) {
	case gestureResize:
		wx, wy := m.camera.ScreenToWorld(sx, sy)
		m.applyResize(g, wx-g.startWX, wy-g.startWY)
		m.markDirty()

	case gestureDrag:
		dx := (sx - g.startX) / m.camera.Zoom
		dy := (sy - g.startY) / m.camera.Zoom
		for id, start := range g.startPos {
			// A node deleted since gesture start silently drops out.
			if n := m.board.NodeByID(id); n != nil {
				n.X = start.X + dx
				n.Y = start.Y + dy
			}
		}
		m.markDirty()

	case gestureBoxSelect:
		swx, swy := m.camera.ScreenToWorld(g.startX, g.startY)
		wx, wy := m.camera.ScreenToWorld(sx, sy)
		m.selBox = &worldRect{
			MinX: minf(swx, wx), MinY: minf(swy, wy),
			MaxX: maxf(swx, wx), MaxY: maxf(swy, wy),
		}
		m.markDirty()

	case gesturePan:
		m.camera.X = g.camStartX - (sx-g.startX)/m.camera.Zoom
		m.camera.Y = g.camStartY - (sy-g.startY)/m.camera.Zoom
		m.markDirty()

	case gestureCreateEdge:
		g.curX, g.curY = sx, sy
		m.gest = g
		m.markDirty()

	case gestureIdle:
		// Hover hinting only; no document mutation.
		wx, wy := m.camera.ScreenToWorld(sx, sy)
		m.lastMouseWorld = worldPoint{wx, wy}
		m.updateHover(wx, wy)
	}
}

func (m *model) updateHover(wx, wy float64) {
	hover := ""
	radius := resizeHandleSize / m.camera.Zoom
	if node, handle := m.board.handleHitOnSelected(&m.selection, wx, wy, radius); node != nil {
		switch handle {
		case HandleTopLeft, HandleBottomRight:
			hover = "resize \\"
		default:
			hover = "resize /"
		}
	} else if m.board.nodeAt(wx, wy) != nil {
		hover = "move"
	}
	if hover != m.hover {
		m.hover = hover
		m.markDirty()
	}
}

func (m *model) pointerUp(msg tea.MouseMsg) tea.Cmd {
	sx, sy := float64(msg.X), float64(msg.Y)
	defer func() { m.gest = gestureIdle{} }()

	switch g := m.gest.(type) {
	case gestureResize, gestureDrag:
		m.markDirty()
		return m.saveCmd()

	case gestureBoxSelect:
		if m.selBox != nil {
			inBox := m.board.nodesInRect(m.selBox.MinX, m.selBox.MinY, m.selBox.MaxX, m.selBox.MaxY)
			if msg.Shift {
				m.selection.AddNodes(inBox)
			} else {
				m.selection.SelectNodes(inBox)
			}
			m.selBox = nil
		}
		m.markDirty()

	case gestureCreateEdge:
		wx, wy := m.camera.ScreenToWorld(sx, sy)
		target := m.board.nodeAt(wx, wy)
		if target != nil && target.ID != g.fromID {
			m.history.Push(m.board.Clone())
			m.board.Edges = append(m.board.Edges, NewEdge(g.fromID, target.ID))
			m.markDirty()
			return m.saveCmd()
		}
		m.markDirty()

	case gesturePan:
		// Camera is not part of the document; nothing to persist.
	}
	return nil
}

// applyResize recomputes geometry from the drag delta, keeping the corner
// opposite the handle fixed. When the minimum size clamps, the position
// offset is recomputed from the clamped size so the fixed corner holds.
func (m *model) applyResize(g gestureResize, dx, dy float64) {
	node := m.board.NodeByID(g.nodeID)
	if node == nil {
		return
	}
	switch g.handle {
	case HandleTopLeft:
		w := maxf(g.origW-dx, minNodeWidth)
		h := maxf(g.origH-dy, minNodeHeight)
		node.X = g.origX + (g.origW - w)
		node.Y = g.origY + (g.origH - h)
		node.Width = w
		node.Height = h
	case HandleTopRight:
		w := maxf(g.origW+dx, minNodeWidth)
		h := maxf(g.origH-dy, minNodeHeight)
		node.Y = g.origY + (g.origH - h)
		node.Width = w
		node.Height = h
	case HandleBottomLeft:
		w := maxf(g.origW-dx, minNodeWidth)
		h := maxf(g.origH+dy, minNodeHeight)
		node.X = g.origX + (g.origW - w)
		node.Width = w
		node.Height = h
	case HandleBottomRight:
		node.Width = maxf(g.origW+dx, minNodeWidth)
		node.Height = maxf(g.origH+dy, minNodeHeight)
	}
}

func (m *model) doubleClick(msg tea.MouseMsg) tea.Cmd {
	sx, sy := float64(msg.X), float64(msg.Y)
	wx, wy := m.camera.ScreenToWorld(sx, sy)
	m.markDirty()

	node := m.board.nodeAt(wx, wy)
	if node == nil {
		// Create a default node centered on the click and start editing it.
		m.history.Push(m.board.Clone())
		n := NewNode(wx-defaultNodeWidth/2, wy-defaultNodeHeight/2, "New Node")
		m.board.Nodes = append(m.board.Nodes, n)
		m.selection.SelectNode(n.ID)
		m.openEditor(n.ID)
		return m.saveCmd()
	}

	switch {
	case node.Kind == KindImage:
		return m.openImageOverlayCmd(node.Text)
	case node.Kind == KindMarkdown:
		m.openMarkdownOverlay(node.Text, "markdown")
		return nil
	case node.Kind == KindLink && isLocalMarkdown(node.Text):
		return m.openLocalMarkdownOverlay(node.Text)
	case node.Kind == KindLink:
		target := node.Text
		log := m.log
		return func() tea.Msg {
			if err := openExternally(target); err != nil {
				log.Warn("open link failed", zap.String("url", target), zap.Error(err))
			}
			return nil
		}
	default:
		m.openEditor(node.ID)
		return nil
	}
}

// saveCmd persists a snapshot of the board in the background. The live board
// is never handed across the goroutine boundary.
func (m *model) saveCmd() tea.Cmd {
	snapshot := m.board.Clone()
	store := m.store
	return func() tea.Msg {
		return saveDoneMsg{err: store.Save(snapshot)}
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
