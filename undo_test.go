package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithNodes(texts ...string) Board {
	b := Board{Nodes: []Node{}, Edges: []Edge{}}
	for _, text := range texts {
		b.Nodes = append(b.Nodes, NewNode(0, 0, text))
	}
	return b
}

func TestHistoryPushAndUndo(t *testing.T) {
	h := NewHistory(10)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	before := boardWithNodes("a")
	after := boardWithNodes("a", "b")

	h.Push(before.Clone())
	require.True(t, h.CanUndo())

	restored, ok := h.Undo(after.Clone())
	require.True(t, ok)
	assert.Len(t, restored.Nodes, 1)
	assert.True(t, h.CanRedo())
	assert.False(t, h.CanUndo())
}

func TestHistoryRedo(t *testing.T) {
	h := NewHistory(10)
	before := boardWithNodes("a")
	after := boardWithNodes("a", "b")

	h.Push(before.Clone())
	restored, ok := h.Undo(after.Clone())
	require.True(t, ok)

	redone, ok := h.Redo(restored)
	require.True(t, ok)
	assert.Len(t, redone.Nodes, 2)
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push(boardWithNodes("a"))
	_, ok := h.Undo(boardWithNodes("a", "b"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(boardWithNodes("c"))
	assert.False(t, h.CanRedo())
	assert.True(t, h.CanUndo())
}

func TestHistoryUndoEmpty(t *testing.T) {
	h := NewHistory(10)
	_, ok := h.Undo(boardWithNodes("a"))
	assert.False(t, ok)
	_, ok = h.Redo(boardWithNodes("a"))
	assert.False(t, ok)
}

func TestHistoryDepthZeroStoresNothing(t *testing.T) {
	h := NewHistory(0)
	h.Push(boardWithNodes("a"))
	h.Push(boardWithNodes("b"))
	assert.False(t, h.CanUndo())

	// A zero-depth push still clears the redo stack.
	h2 := NewHistory(1)
	h2.Push(boardWithNodes("a"))
	_, ok := h2.Undo(boardWithNodes("b"))
	require.True(t, ok)
	require.True(t, h2.CanRedo())
}

func TestHistoryEvictsOldest(t *testing.T) {
	const depth = 3
	h := NewHistory(depth)
	for i := 0; i < depth+2; i++ {
		h.Push(boardWithNodes(string(rune('a' + i))))
	}

	// Only the newest `depth` snapshots survive; the oldest remaining one
	// is the third push.
	var last Board
	count := 0
	current := boardWithNodes("current")
	for {
		restored, ok := h.Undo(current)
		if !ok {
			break
		}
		last = restored
		current = restored
		count++
	}
	assert.Equal(t, depth, count)
	require.Len(t, last.Nodes, 1)
	assert.Equal(t, "c", last.Nodes[0].Text)
}

func TestHistoryNegativeDepth(t *testing.T) {
	h := NewHistory(-5)
	h.Push(boardWithNodes("a"))
	assert.False(t, h.CanUndo())
}

func TestHistorySnapshotsDoNotAlias(t *testing.T) {
	h := NewHistory(10)
	live := boardWithNodes("a")
	h.Push(live.Clone())
	live.Nodes[0].Text = "mutated"

	restored, ok := h.Undo(live.Clone())
	require.True(t, ok)
	assert.Equal(t, "a", restored.Nodes[0].Text)
}
