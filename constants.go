package main

import "time"

const (
	minNodeWidth  = 60.0
	minNodeHeight = 40.0

	defaultNodeWidth  = 200.0
	defaultNodeHeight = 100.0

	// Grab radius of a corner handle in screen pixels. Hit testing divides
	// by the zoom so the grab area stays constant on screen.
	resizeHandleSize = 10.0

	// Screen-space distance below which a click counts as hitting an edge.
	edgeHitThreshold = 10.0

	zoomStepIn  = 1.1
	zoomStepOut = 0.9

	defaultZoomMin = 0.1
	defaultZoomMax = 5.0

	defaultHistoryDepth = 100

	doubleClickWindow = 400 * time.Millisecond

	// Debounce window for filesystem change notifications.
	watchDebounce = 500 * time.Millisecond

	// Pasted images are sized to their pixel dimensions, clamped to this range.
	pasteImageMinSize = 100.0
	pasteImageMaxSize = 400.0
)

const (
	KindText     = "text"
	KindIdea     = "idea"
	KindNote     = "note"
	KindImage    = "image"
	KindMarkdown = "md"
	KindLink     = "link"
)

// Order the "cycle type" command walks through.
var nodeKindCycle = []string{KindText, KindIdea, KindNote, KindImage, KindMarkdown, KindLink}

func cycleNodeKind(current string) string {
	for i, kind := range nodeKindCycle {
		if kind == current {
			return nodeKindCycle[(i+1)%len(nodeKindCycle)]
		}
	}
	return nodeKindCycle[0]
}
