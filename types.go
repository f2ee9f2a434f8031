package main

// Gesture is a tagged union: exactly one gesture is active at a time, and
// each carries only the state that gesture needs. All of them start from
// idle on pointer-down and end back at idle on pointer-up.
type gesture interface {
	isGesture()
}

type gestureIdle struct{}

type gesturePan struct {
	startX, startY       float64 // screen
	camStartX, camStartY float64
}

type gestureDrag struct {
	startX, startY float64 // screen
	startPos       map[string]worldPoint
}

type gestureBoxSelect struct {
	startX, startY float64 // screen
}

type gestureResize struct {
	nodeID       string
	handle       ResizeHandle
	startWX      float64 // world
	startWY      float64
	origX, origY float64
	origW, origH float64
}

type gestureCreateEdge struct {
	fromID     string
	curX, curY float64 // screen, for the preview line
}

func (gestureIdle) isGesture()       {}
func (gesturePan) isGesture()        {}
func (gestureDrag) isGesture()       {}
func (gestureBoxSelect) isGesture()  {}
func (gestureResize) isGesture()     {}
func (gestureCreateEdge) isGesture() {}

type worldPoint struct {
	X, Y float64
}

type worldRect struct {
	MinX, MinY, MaxX, MaxY float64
}

// nodeEditor is the inline text editing state for a node.
type nodeEditor struct {
	nodeID string
	text   string
	cursor int
}

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayImage
	overlayMarkdown
)

// overlayState is the view-only modal over the canvas: an image inspector or
// a markdown content view.
type overlayState struct {
	kind    overlayKind
	title   string
	content string
	scroll  int
}

// boardClipboard holds copied nodes plus the edges fully inside the copy.
type boardClipboard struct {
	nodes []Node
	edges []Edge
}

// Messages delivered back to the event loop by background tasks.

type boardLoadedMsg struct {
	board Board
}

type externalChangeMsg struct{}

type saveDoneMsg struct {
	err error
}

type previewFetchedMsg struct {
	url     string
	preview LinkPreview
	err     error
}

type markdownLoadedMsg struct {
	path    string
	content string
	err     error
}

type imagePastedMsg struct {
	path   string
	width  int
	height int
	worldX float64
	worldY float64
	err    error
}

type clipboardTextMsg struct {
	text   string
	worldX float64
	worldY float64
	err    error
}

type overlayImageMsg struct {
	title   string
	dataURL string
	width   int
	height  int
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}
