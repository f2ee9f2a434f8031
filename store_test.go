package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *BoardStore {
	t.Helper()
	return NewBoardStore(filepath.Join(t.TempDir(), "board.json"), zap.NewNop())
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	b := s.Load()
	assert.Empty(t, b.Nodes)
	assert.Empty(t, b.Edges)
	assert.NotNil(t, b.Nodes)
}

func TestStoreLoadMalformedFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{{{"), 0o644))
	b := s.Load()
	assert.Empty(t, b.Nodes)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	board := boardWithNodes("hello")
	board.Nodes[0].Kind = KindIdea
	board.Edges = append(board.Edges, NewEdge(board.Nodes[0].ID, board.Nodes[0].ID))

	require.NoError(t, s.Save(board))

	loaded := s.Load()
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "hello", loaded.Nodes[0].Text)
	assert.Equal(t, KindIdea, loaded.Nodes[0].Kind)
	assert.Len(t, loaded.Edges, 1)
}

func TestStoreSaveCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	s := NewBoardStore(filepath.Join(dir, "nested", "deep", "board.json"), zap.NewNop())
	require.NoError(t, s.Save(boardWithNodes("x")))
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestStoreSuppressFlagConsumedOnce(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(boardWithNodes("x")))

	// The save armed the flag; the first watcher event consumes it, the
	// second must pass through.
	assert.True(t, s.skipNext.Swap(false))
	assert.False(t, s.skipNext.Swap(false))
}
