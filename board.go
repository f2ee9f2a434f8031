package main

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Board is the whole document: nodes in z-order (later = on top) plus edges.
// It is the unit of persistence and of undo snapshots.
type Board struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type Node struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Text     string   `json:"text"`
	Kind     string   `json:"node_type"`
	Color    string   `json:"color,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Status   string   `json:"status,omitempty"`
	Group    string   `json:"group,omitempty"`
	Priority int      `json:"priority,omitempty"`
}

type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"from_node"`
	ToNode   string `json:"to_node"`
	Label    string `json:"label,omitempty"`
}

func newNodeID() string { return uuid.NewString() }

func NewNode(x, y float64, text string) Node {
	return Node{
		ID:     uuid.NewString(),
		X:      x,
		Y:      y,
		Width:  defaultNodeWidth,
		Height: defaultNodeHeight,
		Text:   text,
		Kind:   KindText,
	}
}

func NewEdge(fromID, toID string) Edge {
	return Edge{ID: uuid.NewString(), FromNode: fromID, ToNode: toID}
}

func (n *Node) Center() (float64, float64) {
	return n.X + n.Width/2, n.Y + n.Height/2
}

// autoSize picks a size for a node whose persisted size is missing, growing
// with the amount of text but staying within the paste-image clamp range.
func autoSize(text string) (float64, float64) {
	w, h := defaultNodeWidth, defaultNodeHeight
	lines := strings.Count(text, "\n") + 1
	if extra := float64(lines-4) * 18; extra > 0 {
		h += extra
	}
	if h > pasteImageMaxSize {
		h = pasteImageMaxSize
	}
	return w, h
}

func (b *Board) NodeByID(id string) *Node {
	for i := range b.Nodes {
		if b.Nodes[i].ID == id {
			return &b.Nodes[i]
		}
	}
	return nil
}

func (b *Board) EdgeByID(id string) *Edge {
	for i := range b.Edges {
		if b.Edges[i].ID == id {
			return &b.Edges[i]
		}
	}
	return nil
}

// RemoveNodes deletes the given nodes and prunes every edge that references
// one of them, so the board never holds a dangling edge.
func (b *Board) RemoveNodes(ids map[string]bool) {
	nodes := b.Nodes[:0]
	for _, n := range b.Nodes {
		if !ids[n.ID] {
			nodes = append(nodes, n)
		}
	}
	b.Nodes = nodes

	edges := b.Edges[:0]
	for _, e := range b.Edges {
		if !ids[e.FromNode] && !ids[e.ToNode] {
			edges = append(edges, e)
		}
	}
	b.Edges = edges
}

func (b *Board) RemoveEdge(id string) {
	edges := b.Edges[:0]
	for _, e := range b.Edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}
	b.Edges = edges
}

// Clone deep-copies the board. Snapshots handed to history or to background
// save tasks must never alias the live document.
func (b Board) Clone() Board {
	out := Board{
		Nodes: make([]Node, len(b.Nodes)),
		Edges: make([]Edge, len(b.Edges)),
	}
	copy(out.Nodes, b.Nodes)
	copy(out.Edges, b.Edges)
	for i := range out.Nodes {
		if tags := b.Nodes[i].Tags; tags != nil {
			out.Nodes[i].Tags = append([]string(nil), tags...)
		}
	}
	return out
}

// heal fills in defaults for fields older board files omit: a missing kind
// becomes "text" and zero sizes are replaced by an automatic size.
func (b *Board) heal() {
	for i := range b.Nodes {
		n := &b.Nodes[i]
		if n.Kind == "" {
			n.Kind = KindText
		}
		if n.Width == 0 || n.Height == 0 {
			w, h := autoSize(n.Text)
			if n.Width == 0 {
				n.Width = w
			}
			if n.Height == 0 {
				n.Height = h
			}
		}
	}
}

func decodeBoard(data []byte) (Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return Board{}, err
	}
	if b.Nodes == nil {
		b.Nodes = []Node{}
	}
	if b.Edges == nil {
		b.Edges = []Edge{}
	}
	b.heal()
	return b, nil
}

func encodeBoard(b Board) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// isLocalMarkdown reports whether a link node's text points at a local
// markdown file rather than a web URL.
func isLocalMarkdown(path string) bool {
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		return false
	}
	return strings.HasPrefix(path, "/") || strings.HasPrefix(path, "file://") || strings.HasPrefix(path, "~")
}
