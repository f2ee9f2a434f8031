package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBoardHealsDefaults(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "n1", "x": 10, "y": 20, "text": "no kind or size"},
			{"id": "n2", "x": 0, "y": 0, "width": 120, "height": 80, "text": "ok", "node_type": "idea"}
		],
		"edges": [{"id": "e1", "from_node": "n1", "to_node": "n2"}]
	}`)

	b, err := decodeBoard(data)
	require.NoError(t, err)
	require.Len(t, b.Nodes, 2)

	n1 := b.NodeByID("n1")
	require.NotNil(t, n1)
	assert.Equal(t, KindText, n1.Kind)
	assert.Greater(t, n1.Width, 0.0)
	assert.Greater(t, n1.Height, 0.0)

	n2 := b.NodeByID("n2")
	require.NotNil(t, n2)
	assert.Equal(t, KindIdea, n2.Kind)
	assert.Equal(t, 120.0, n2.Width)
}

func TestDecodeBoardEmptyDocument(t *testing.T) {
	b, err := decodeBoard([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, b.Nodes)
	assert.NotNil(t, b.Edges)

	_, err = decodeBoard([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeBoardWireFormat(t *testing.T) {
	b := Board{
		Nodes: []Node{{ID: "n1", X: 1, Y: 2, Width: 3, Height: 4, Text: "t", Kind: KindNote}},
		Edges: []Edge{{ID: "e1", FromNode: "n1", ToNode: "n1"}},
	}
	data, err := encodeBoard(b)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	nodes := raw["nodes"].([]any)
	node := nodes[0].(map[string]any)
	assert.Equal(t, "note", node["node_type"])
	// Optional metadata stays off the wire when empty.
	_, hasColor := node["color"]
	assert.False(t, hasColor)

	edge := raw["edges"].([]any)[0].(map[string]any)
	assert.Equal(t, "n1", edge["from_node"])
}

func TestRemoveNodesPrunesEdges(t *testing.T) {
	a := NewNode(0, 0, "a")
	b := NewNode(0, 0, "b")
	c := NewNode(0, 0, "c")
	board := Board{
		Nodes: []Node{a, b, c},
		Edges: []Edge{NewEdge(a.ID, b.ID), NewEdge(b.ID, c.ID), NewEdge(a.ID, c.ID)},
	}

	board.RemoveNodes(map[string]bool{b.ID: true})

	assert.Len(t, board.Nodes, 2)
	require.Len(t, board.Edges, 1)
	assert.Equal(t, a.ID, board.Edges[0].FromNode)
	assert.Equal(t, c.ID, board.Edges[0].ToNode)
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := Board{
		Nodes: []Node{{ID: "n", Text: "before", Tags: []string{"x"}}},
		Edges: []Edge{{ID: "e"}},
	}
	clone := orig.Clone()

	clone.Nodes[0].Text = "after"
	clone.Nodes[0].Tags[0] = "y"
	clone.Edges[0].ID = "e2"

	assert.Equal(t, "before", orig.Nodes[0].Text)
	assert.Equal(t, "x", orig.Nodes[0].Tags[0])
	assert.Equal(t, "e", orig.Edges[0].ID)
}

func TestCycleNodeKind(t *testing.T) {
	assert.Equal(t, KindIdea, cycleNodeKind(KindText))
	assert.Equal(t, KindLink, cycleNodeKind(KindMarkdown))
	// The cycle wraps and unknown kinds reset to the start.
	assert.Equal(t, KindText, cycleNodeKind(KindLink))
	assert.Equal(t, KindText, cycleNodeKind("mystery"))
}

func TestIsLocalMarkdown(t *testing.T) {
	assert.True(t, isLocalMarkdown("/home/me/notes.md"))
	assert.True(t, isLocalMarkdown("~/notes.MD"))
	assert.True(t, isLocalMarkdown("file:///tmp/notes.md"))
	assert.False(t, isLocalMarkdown("https://example.com/notes.md"))
	assert.False(t, isLocalMarkdown("/home/me/notes.txt"))
	assert.False(t, isLocalMarkdown("notes.md"))
}

func TestSelectionNodeEdgeExclusive(t *testing.T) {
	s := NewSelection()
	s.SelectNode("a")
	s.AddNodes(map[string]bool{"b": true})
	assert.Equal(t, 2, s.Count())

	s.SelectEdge("e")
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "e", s.Edge())

	s.ToggleNode("c")
	assert.Empty(t, s.Edge())
	assert.True(t, s.HasNode("c"))
}

func TestSelectionPrune(t *testing.T) {
	a := NewNode(0, 0, "a")
	board := Board{Nodes: []Node{a}, Edges: []Edge{}}

	s := NewSelection()
	s.AddNodes(map[string]bool{a.ID: true, "ghost": true})
	s.Prune(&board)
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.HasNode(a.ID))

	s.SelectEdge("ghost-edge")
	s.Prune(&board)
	assert.Empty(t, s.Edge())
}
