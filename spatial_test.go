package main

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeContainsPoint(t *testing.T) {
	n := Node{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left of", 9.9, 40, false},
		{"below", 50, 70.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.ContainsPoint(tt.x, tt.y))
		})
	}
}

func TestNodeHandleAt(t *testing.T) {
	n := Node{X: 0, Y: 0, Width: 100, Height: 50}

	assert.Equal(t, HandleTopLeft, n.HandleAt(2, -3, 5))
	assert.Equal(t, HandleTopRight, n.HandleAt(103, 4, 5))
	assert.Equal(t, HandleBottomLeft, n.HandleAt(-4, 52, 5))
	assert.Equal(t, HandleBottomRight, n.HandleAt(98, 48, 5))
	assert.Equal(t, HandleNone, n.HandleAt(50, 25, 5))
	assert.Equal(t, HandleNone, n.HandleAt(10, 10, 5))
}

func TestNodeAtPicksTopmost(t *testing.T) {
	b := Board{Nodes: []Node{
		{ID: "under", X: 0, Y: 0, Width: 100, Height: 100},
		{ID: "over", X: 50, Y: 50, Width: 100, Height: 100},
	}}

	hit := b.nodeAt(75, 75)
	require.NotNil(t, hit)
	assert.Equal(t, "over", hit.ID)

	hit = b.nodeAt(10, 10)
	require.NotNil(t, hit)
	assert.Equal(t, "under", hit.ID)

	assert.Nil(t, b.nodeAt(500, 500))
}

func TestHandleHitOnSelectedIgnoresUnselected(t *testing.T) {
	b := Board{Nodes: []Node{{ID: "a", X: 0, Y: 0, Width: 100, Height: 50}}}
	sel := NewSelection()

	node, handle := b.handleHitOnSelected(&sel, 0, 0, 5)
	assert.Nil(t, node)
	assert.Equal(t, HandleNone, handle)

	sel.SelectNode("a")
	node, handle = b.handleHitOnSelected(&sel, 0, 0, 5)
	require.NotNil(t, node)
	assert.Equal(t, HandleTopLeft, handle)
}

func TestPointNearSegment(t *testing.T) {
	assert.True(t, pointNearSegment(50, 3, 0, 0, 100, 0, 5))
	assert.False(t, pointNearSegment(50, 8, 0, 0, 100, 0, 5))
	// Beyond the endpoint the closest point clamps to the endpoint.
	assert.False(t, pointNearSegment(110, 0, 0, 0, 100, 0, 5))
	assert.True(t, pointNearSegment(103, 0, 0, 0, 100, 0, 5))
	// Degenerate segment is a point test.
	assert.True(t, pointNearSegment(2, 2, 10, 10, 10, 10, 12))
	assert.False(t, pointNearSegment(2, 2, 10, 10, 10, 10, 5))
}

func TestEdgeAt(t *testing.T) {
	a := NewNode(0, 0, "a")
	c := NewNode(200, 0, "c")
	b := Board{
		Nodes: []Node{a, c},
		Edges: []Edge{NewEdge(a.ID, c.ID), NewEdge(a.ID, "gone")},
	}

	// Centers are (100,50) and (300,50); midpoint of the segment is (200,50).
	hit := b.edgeAt(200, 52, 10)
	require.NotNil(t, hit)
	assert.Equal(t, b.Edges[0].ID, hit.ID)

	assert.Nil(t, b.edgeAt(200, 80, 10))
}

func TestNodesInRect(t *testing.T) {
	b := Board{Nodes: []Node{
		{ID: "in", X: 0, Y: 0, Width: 50, Height: 50},
		{ID: "touching", X: 100, Y: 0, Width: 50, Height: 50},
		{ID: "out", X: 300, Y: 300, Width: 50, Height: 50},
	}}

	got := b.nodesInRect(25, 25, 100, 100)
	assert.True(t, got["in"])
	assert.True(t, got["touching"])
	assert.False(t, got["out"])
}

func TestSpatialProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genCoord := gen.Float64Range(-1e4, 1e4)
	genSize := gen.Float64Range(1, 1e3)

	properties.Property("containment is translation invariant", prop.ForAll(
		func(x, y, w, h, px, py, dx, dy float64) bool {
			n := Node{X: x, Y: y, Width: w, Height: h}
			moved := Node{X: x + dx, Y: y + dy, Width: w, Height: h}
			return n.ContainsPoint(px, py) == moved.ContainsPoint(px+dx, py+dy)
		},
		genCoord, genCoord, genSize, genSize, genCoord, genCoord, genCoord, genCoord,
	))

	properties.Property("node corners always report their handle", prop.ForAll(
		func(x, y, w, h float64) bool {
			n := Node{X: x, Y: y, Width: w, Height: h}
			return n.HandleAt(x, y, 1) == HandleTopLeft &&
				n.HandleAt(x+w, y+h, 1) == HandleBottomRight
		},
		genCoord, genCoord, gen.Float64Range(10, 1e3), gen.Float64Range(10, 1e3),
	))

	properties.TestingRun(t)
}
