package main

// History keeps full board snapshots on two stacks. One snapshot is pushed
// per gesture, so an entire drag or resize collapses into one undo step.
// The undo stack is bounded by maxDepth; the redo stack is not.
type History struct {
	past     []Board
	future   []Board
	maxDepth int
}

func NewHistory(maxDepth int) *History {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &History{maxDepth: maxDepth}
}

// Push records a snapshot and clears the redo stack. With a depth of zero
// nothing is retained; beyond the depth the oldest entries are evicted.
func (h *History) Push(snapshot Board) {
	h.future = h.future[:0]
	if h.maxDepth == 0 {
		return
	}
	h.past = append(h.past, snapshot)
	if over := len(h.past) - h.maxDepth; over > 0 {
		h.past = append(h.past[:0], h.past[over:]...)
	}
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// Returns false when there is nothing to undo.
func (h *History) Undo(current Board) (Board, bool) {
	if len(h.past) == 0 {
		return Board{}, false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return last, true
}

// Redo is the mirror of Undo, using the redo stack.
func (h *History) Redo(current Board) (Board, bool) {
	if len(h.future) == 0 {
		return Board{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }
