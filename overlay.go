package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Inline editor. Text is staged in the editor and only written back to the
// node on commit, so cancel never touches the document.

func (m *model) openEditor(nodeID string) {
	node := m.board.NodeByID(nodeID)
	if node == nil {
		return
	}
	m.editor = &nodeEditor{
		nodeID: nodeID,
		text:   node.Text,
		cursor: len(node.Text),
	}
	m.markDirty()
}

func (m *model) editorKey(msg tea.KeyMsg) tea.Cmd {
	ed := m.editor

	switch msg.Type {
	case tea.KeyEscape:
		m.editor = nil
		m.markDirty()
		return nil

	case tea.KeyEnter:
		ed.text = ed.text[:ed.cursor] + "\n" + ed.text[ed.cursor:]
		ed.cursor++
		m.markDirty()
		return nil

	case tea.KeyBackspace:
		if ed.cursor > 0 {
			_, size := lastRune(ed.text[:ed.cursor])
			ed.text = ed.text[:ed.cursor-size] + ed.text[ed.cursor:]
			ed.cursor -= size
			m.markDirty()
		}
		return nil

	case tea.KeyLeft:
		if ed.cursor > 0 {
			_, size := lastRune(ed.text[:ed.cursor])
			ed.cursor -= size
			m.markDirty()
		}
		return nil

	case tea.KeyRight:
		if ed.cursor < len(ed.text) {
			_, size := firstRune(ed.text[ed.cursor:])
			ed.cursor += size
			m.markDirty()
		}
		return nil

	case tea.KeyHome:
		ed.cursor = 0
		m.markDirty()
		return nil

	case tea.KeyEnd:
		ed.cursor = len(ed.text)
		m.markDirty()
		return nil
	}

	switch msg.String() {
	case "ctrl+s":
		return m.commitEditor()

	case "ctrl+v":
		text, err := readClipboardText()
		if err != nil {
			m.log.Warn("clipboard read failed", zap.Error(err))
			return nil
		}
		ed.text = ed.text[:ed.cursor] + text + ed.text[ed.cursor:]
		ed.cursor += len(text)
		m.markDirty()
		return nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		var input string
		if msg.Type == tea.KeySpace {
			input = " "
		} else {
			input = string(msg.Runes)
		}
		ed.text = ed.text[:ed.cursor] + input + ed.text[ed.cursor:]
		ed.cursor += len(input)
		m.markDirty()
	}
	return nil
}

// commitEditor writes the staged text back to the node. The snapshot is taken
// just before the mutation so an unchanged commit costs nothing.
func (m *model) commitEditor() tea.Cmd {
	ed := m.editor
	m.editor = nil
	m.markDirty()

	node := m.board.NodeByID(ed.nodeID)
	if node == nil || node.Text == ed.text {
		return nil
	}
	m.history.Push(m.board.Clone())
	node.Text = ed.text

	// A link node with a fresh URL warrants a preview fetch.
	if node.Kind == KindLink {
		return tea.Batch(m.saveCmd(), m.ensurePreview(node.Text))
	}
	return m.saveCmd()
}

func lastRune(s string) (rune, int) {
	r := []rune(s)
	if len(r) == 0 {
		return 0, 0
	}
	last := r[len(r)-1]
	return last, len(string(last))
}

func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}

// Overlays. View-only, closed with esc or q, scrolled with j/k.

func (m *model) openMarkdownOverlay(content, title string) {
	m.overlay = overlayState{kind: overlayMarkdown, title: title, content: content}
	m.markDirty()
}

// openLocalMarkdownOverlay serves from the markdown cache when resolved,
// otherwise shows a loading overlay and kicks off the read.
func (m *model) openLocalMarkdownOverlay(path string) tea.Cmd {
	if content, ok := m.mdFiles.Get(path); ok {
		m.openMarkdownOverlay(content, path)
		return nil
	}
	m.overlay = overlayState{kind: overlayMarkdown, title: path, content: "Loading..."}
	m.markDirty()
	if m.mdFiles.Known(path) {
		return nil
	}
	m.mdFiles.MarkPending(path)
	return func() tea.Msg {
		content, err := readMarkdownFile(path)
		return markdownLoadedMsg{path: path, content: content, err: err}
	}
}

// openImageOverlayCmd loads the image off the event loop and opens the
// overlay when the data arrives.
func (m *model) openImageOverlayCmd(path string) tea.Cmd {
	return func() tea.Msg {
		dataURL, err := ReadDataURL(path)
		if err != nil {
			return overlayImageMsg{title: path, err: err}
		}
		w, h, err := ImageSize(path)
		if err != nil {
			return overlayImageMsg{title: path, err: err}
		}
		return overlayImageMsg{title: path, dataURL: dataURL, width: w, height: h}
	}
}

func (m *model) overlayKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.overlay = overlayState{}
		m.markDirty()
	case "j", "down":
		if m.overlay.scroll < strings.Count(m.overlay.content, "\n") {
			m.overlay.scroll++
			m.markDirty()
		}
	case "k", "up":
		if m.overlay.scroll > 0 {
			m.overlay.scroll--
			m.markDirty()
		}
	case "g":
		m.overlay.scroll = 0
		m.markDirty()
	case "G":
		m.overlay.scroll = strings.Count(m.overlay.content, "\n")
		m.markDirty()
	}
}

// ensurePreview schedules a metadata fetch for a link URL unless one is
// already cached or in flight.
func (m *model) ensurePreview(url string) tea.Cmd {
	if url == "" || m.previews.Known(url) {
		return nil
	}
	m.previews.MarkPending(url)
	return func() tea.Msg {
		p, err := fetchLinkPreview(url)
		return previewFetchedMsg{url: url, preview: p, err: err}
	}
}

// ensurePreviews walks the board for link nodes that still need a preview.
func (m *model) ensurePreviews() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.board.Nodes {
		n := &m.board.Nodes[i]
		if n.Kind != KindLink || n.Text == "" || isLocalMarkdown(n.Text) {
			continue
		}
		if cmd := m.ensurePreview(n.Text); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
