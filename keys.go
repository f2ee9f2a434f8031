package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Keyboard pan step in screen cells.
const keyPanStep = 4

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.overlay.kind != overlayNone {
		m.overlayKey(msg)
		return nil
	}
	if m.editor != nil {
		return m.editorKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "esc":
		m.selection.Clear()
		m.gest = gestureIdle{}
		m.selBox = nil
		m.statusErr = ""
		m.statusInfo = ""
		m.markDirty()

	case "delete", "backspace", "d":
		return m.deleteSelection()

	case "t":
		return m.cycleSelectedKinds()

	case "ctrl+z", "u":
		return m.undo()

	case "ctrl+y", "ctrl+r":
		return m.redo()

	case "y":
		m.copySelection()

	case "p":
		return m.pasteInternal()

	case "ctrl+v":
		return m.pasteSystemClipboard()

	case "n":
		return m.createNodeAtCenter()

	case "enter":
		return m.editSelected()

	case "a":
		return m.arrangeBoard()

	case "e":
		return m.exportPNG()

	case "o":
		return m.openSelected()

	case "h", "left":
		m.camera.Pan(-keyPanStep, 0)
		m.markDirty()
	case "l", "right":
		m.camera.Pan(keyPanStep, 0)
		m.markDirty()
	case "k", "up":
		m.camera.Pan(0, -keyPanStep)
		m.markDirty()
	case "j", "down":
		m.camera.Pan(0, keyPanStep)
		m.markDirty()

	case "+", "=":
		m.zoomAt(float64(m.width)/2, float64(m.height)/2, zoomStepIn)
	case "-", "_":
		m.zoomAt(float64(m.width)/2, float64(m.height)/2, zoomStepOut)

	case "0":
		m.camera = NewCamera()
		m.markDirty()
	}
	return nil
}

// deleteSelection removes the selected nodes (with their referencing edges)
// or the selected edge. Image assets owned by the app are removed from disk
// alongside their node.
func (m *model) deleteSelection() tea.Cmd {
	if m.selection.IsEmpty() {
		return nil
	}
	m.history.Push(m.board.Clone())

	if edgeID := m.selection.Edge(); edgeID != "" {
		m.board.RemoveEdge(edgeID)
		m.selection.ClearEdge()
		m.markDirty()
		return m.saveCmd()
	}

	ids := m.selection.Nodes()
	var orphaned []string
	for id := range ids {
		n := m.board.NodeByID(id)
		if n != nil && n.Kind == KindImage && m.assets.Owns(n.Text) {
			orphaned = append(orphaned, n.Text)
		}
	}
	m.board.RemoveNodes(ids)
	m.selection.ClearNodes()
	m.markDirty()

	save := m.saveCmd()
	if len(orphaned) == 0 {
		return save
	}
	assets := m.assets
	log := m.log
	return tea.Batch(save, func() tea.Msg {
		for _, path := range orphaned {
			if err := assets.Delete(path); err != nil {
				log.Warn("asset delete failed", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})
}

func (m *model) cycleSelectedKinds() tea.Cmd {
	if m.selection.Count() == 0 {
		return nil
	}
	m.history.Push(m.board.Clone())
	for i := range m.board.Nodes {
		n := &m.board.Nodes[i]
		if m.selection.HasNode(n.ID) {
			n.Kind = cycleNodeKind(n.Kind)
		}
	}
	m.markDirty()
	return m.saveCmd()
}

// Undo and redo replace the live board wholesale, so any selection would
// point into the old document; it is cleared rather than remapped.
func (m *model) undo() tea.Cmd {
	board, ok := m.history.Undo(m.board.Clone())
	if !ok {
		return nil
	}
	m.board = board
	m.selection.Clear()
	m.markDirty()
	return m.saveCmd()
}

func (m *model) redo() tea.Cmd {
	board, ok := m.history.Redo(m.board.Clone())
	if !ok {
		return nil
	}
	m.board = board
	m.selection.Clear()
	m.markDirty()
	return m.saveCmd()
}

// copySelection captures the selected nodes and the edges fully inside the
// selection. Node ids are regenerated on paste, not here.
func (m *model) copySelection() {
	if m.selection.Count() == 0 {
		return
	}
	clip := &boardClipboard{}
	for _, n := range m.board.Nodes {
		if m.selection.HasNode(n.ID) {
			c := n
			if n.Tags != nil {
				c.Tags = append([]string(nil), n.Tags...)
			}
			clip.nodes = append(clip.nodes, c)
		}
	}
	for _, e := range m.board.Edges {
		if m.selection.HasNode(e.FromNode) && m.selection.HasNode(e.ToNode) {
			clip.edges = append(clip.edges, e)
		}
	}
	m.clip = clip
}

// pasteInternal inserts the copied subgraph offset from the originals, with
// fresh ids, and selects the new nodes.
func (m *model) pasteInternal() tea.Cmd {
	if m.clip == nil || len(m.clip.nodes) == 0 {
		return nil
	}
	m.history.Push(m.board.Clone())

	const pasteOffset = 20.0
	idMap := map[string]string{}
	newIDs := map[string]bool{}
	for _, n := range m.clip.nodes {
		c := n
		c.ID = newNodeID()
		c.X += pasteOffset
		c.Y += pasteOffset
		if n.Tags != nil {
			c.Tags = append([]string(nil), n.Tags...)
		}
		idMap[n.ID] = c.ID
		newIDs[c.ID] = true
		m.board.Nodes = append(m.board.Nodes, c)
	}
	for _, e := range m.clip.edges {
		c := e
		c.ID = newNodeID()
		c.FromNode = idMap[e.FromNode]
		c.ToNode = idMap[e.ToNode]
		m.board.Edges = append(m.board.Edges, c)
	}
	m.selection.SelectNodes(newIDs)
	m.markDirty()
	return m.saveCmd()
}

// pasteSystemClipboard reads the OS clipboard off the event loop. Image paths
// become image imports, everything else comes back as text.
func (m *model) pasteSystemClipboard() tea.Cmd {
	wx, wy := m.camera.ScreenToWorld(float64(m.width)/2, float64(m.height)/2)
	assets := m.assets
	return func() tea.Msg {
		text, err := readClipboardText()
		if err != nil {
			return clipboardTextMsg{err: err}
		}
		trimmed := strings.TrimSpace(text)
		if isImagePath(trimmed) {
			path, w, h, err := assets.ImportImage(strings.TrimPrefix(trimmed, "file://"))
			return imagePastedMsg{path: path, width: w, height: h, worldX: wx, worldY: wy, err: err}
		}
		return clipboardTextMsg{text: trimmed, worldX: wx, worldY: wy, err: nil}
	}
}

func (m *model) createNodeAtCenter() tea.Cmd {
	wx, wy := m.camera.ScreenToWorld(float64(m.width)/2, float64(m.height)/2)
	m.history.Push(m.board.Clone())
	n := NewNode(wx-defaultNodeWidth/2, wy-defaultNodeHeight/2, "New Node")
	m.board.Nodes = append(m.board.Nodes, n)
	m.selection.SelectNode(n.ID)
	m.openEditor(n.ID)
	return m.saveCmd()
}

// openSelected hands the selected node's target to the platform opener:
// the file path for images, the URL for links.
func (m *model) openSelected() tea.Cmd {
	if m.selection.Count() != 1 {
		return nil
	}
	for id := range m.selection.Nodes() {
		node := m.board.NodeByID(id)
		if node == nil || node.Text == "" {
			return nil
		}
		if node.Kind != KindImage && node.Kind != KindLink {
			return nil
		}
		target := node.Text
		log := m.log
		return func() tea.Msg {
			if err := openExternally(target); err != nil {
				log.Warn("open failed", zap.String("target", target), zap.Error(err))
			}
			return nil
		}
	}
	return nil
}

// editSelected opens the inline editor when exactly one node is selected.
func (m *model) editSelected() tea.Cmd {
	if m.selection.Count() != 1 {
		return nil
	}
	for id := range m.selection.Nodes() {
		node := m.board.NodeByID(id)
		if node == nil {
			return nil
		}
		switch node.Kind {
		case KindImage:
			return m.openImageOverlayCmd(node.Text)
		case KindMarkdown:
			m.openMarkdownOverlay(node.Text, "markdown")
		case KindLink:
			if isLocalMarkdown(node.Text) {
				return m.openLocalMarkdownOverlay(node.Text)
			}
			m.openEditor(id)
		default:
			m.openEditor(id)
		}
	}
	return nil
}
