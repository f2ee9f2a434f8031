package main

// Selection holds either a set of selected node ids or one selected edge id,
// never both. Selecting an edge clears the nodes and vice versa.
type Selection struct {
	nodes map[string]bool
	edge  string
}

func NewSelection() Selection {
	return Selection{nodes: map[string]bool{}}
}

func (s *Selection) Nodes() map[string]bool { return s.nodes }
func (s *Selection) Edge() string           { return s.edge }

func (s *Selection) HasNode(id string) bool { return s.nodes[id] }

func (s *Selection) Count() int { return len(s.nodes) }

func (s *Selection) IsEmpty() bool { return len(s.nodes) == 0 && s.edge == "" }

func (s *Selection) SelectNode(id string) {
	s.edge = ""
	s.nodes = map[string]bool{id: true}
}

func (s *Selection) SelectNodes(ids map[string]bool) {
	s.edge = ""
	s.nodes = map[string]bool{}
	for id := range ids {
		s.nodes[id] = true
	}
}

func (s *Selection) AddNodes(ids map[string]bool) {
	s.edge = ""
	for id := range ids {
		s.nodes[id] = true
	}
}

func (s *Selection) ToggleNode(id string) {
	s.edge = ""
	if s.nodes[id] {
		delete(s.nodes, id)
	} else {
		s.nodes[id] = true
	}
}

func (s *Selection) SelectEdge(id string) {
	s.nodes = map[string]bool{}
	s.edge = id
}

func (s *Selection) ClearNodes() { s.nodes = map[string]bool{} }
func (s *Selection) ClearEdge()  { s.edge = "" }

func (s *Selection) Clear() {
	s.nodes = map[string]bool{}
	s.edge = ""
}

// Prune drops selected ids that no longer exist on the board, e.g. after an
// undo or an external reload replaced the document.
func (s *Selection) Prune(b *Board) {
	for id := range s.nodes {
		if b.NodeByID(id) == nil {
			delete(s.nodes, id)
		}
	}
	if s.edge != "" && b.EdgeByID(s.edge) == nil {
		s.edge = ""
	}
}
