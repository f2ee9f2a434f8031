package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBoardLoadedPrunesSelection(t *testing.T) {
	m := newTestModel(t)
	m.selection.SelectNode("stale")

	fresh := boardWithNodes("a")
	m.Update(boardLoadedMsg{board: fresh})

	assert.Len(t, m.board.Nodes, 1)
	assert.Equal(t, 0, m.selection.Count())
}

func TestUpdateExternalChangeDropsGesture(t *testing.T) {
	m := newTestModel(t)
	id := addNode(m, 0, 0, 50, 50, "n")
	m.handleMouse(press(25, 25))
	require.IsType(t, gestureDrag{}, m.gest)
	m.openEditor(id)

	_, cmd := m.Update(externalChangeMsg{})

	assert.IsType(t, gestureIdle{}, m.gest)
	assert.Nil(t, m.editor)
	require.NotNil(t, cmd, "reload must be scheduled")
}

func TestUpdateClipboardTextCreatesNode(t *testing.T) {
	m := newTestModel(t)

	m.Update(clipboardTextMsg{text: "plain words", worldX: 100, worldY: 50})

	require.Len(t, m.board.Nodes, 1)
	n := m.board.Nodes[0]
	assert.Equal(t, KindText, n.Kind)
	assert.Equal(t, "plain words", n.Text)
	assert.Equal(t, 100-defaultNodeWidth/2, n.X)
	assert.True(t, m.selection.HasNode(n.ID))
}

func TestUpdateClipboardURLCreatesLinkNode(t *testing.T) {
	m := newTestModel(t)

	m.Update(clipboardTextMsg{text: "https://example.com", worldX: 0, worldY: 0})

	require.Len(t, m.board.Nodes, 1)
	assert.Equal(t, KindLink, m.board.Nodes[0].Kind)
	// The preview fetch was marked in flight.
	assert.True(t, m.previews.Known("https://example.com"))
}

func TestUpdateClipboardEmptyTextIgnored(t *testing.T) {
	m := newTestModel(t)
	m.Update(clipboardTextMsg{text: ""})
	assert.Empty(t, m.board.Nodes)
	assert.False(t, m.history.CanUndo())
}

func TestUpdateImagePastedCreatesClampedNode(t *testing.T) {
	m := newTestModel(t)

	m.Update(imagePastedMsg{path: "/tmp/assets/x.png", width: 1600, height: 800, worldX: 0, worldY: 0})

	require.Len(t, m.board.Nodes, 1)
	n := m.board.Nodes[0]
	assert.Equal(t, KindImage, n.Kind)
	assert.Equal(t, "/tmp/assets/x.png", n.Text)
	assert.Equal(t, pasteImageMaxSize, n.Width)
	assert.Equal(t, pasteImageMaxSize/2, n.Height)
	// Centered on the paste point.
	assert.Equal(t, -pasteImageMaxSize/2, n.X)
}

func TestUpdatePreviewFetched(t *testing.T) {
	m := newTestModel(t)
	const url = "https://example.com"
	m.previews.MarkPending(url)

	m.Update(previewFetchedMsg{url: url, preview: LinkPreview{URL: url, Title: "T"}})
	got, ok := m.previews.Get(url)
	require.True(t, ok)
	assert.Equal(t, "T", got.Title)

	// A failed fetch clears the pending slot so it can be retried.
	m.previews.MarkPending("https://bad.example")
	m.Update(previewFetchedMsg{url: "https://bad.example", err: assert.AnError})
	assert.False(t, m.previews.Known("https://bad.example"))
}

func TestUpdateSaveErrorSurfacesInStatus(t *testing.T) {
	m := newTestModel(t)
	m.Update(saveDoneMsg{err: assert.AnError})
	assert.Contains(t, m.statusErr, "save failed")
}
