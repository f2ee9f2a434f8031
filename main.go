package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type model struct {
	cfg   *Config
	log   *zap.Logger
	store *BoardStore

	board     Board
	camera    Camera
	selection Selection
	history   *History

	gest   gesture
	selBox *worldRect

	editor  *nodeEditor
	overlay overlayState
	clip    *boardClipboard

	assets   *AssetStore
	previews *PreviewCache
	mdFiles  *MarkdownCache

	width  int
	height int

	lastClickAt    time.Time
	lastClickX     int
	lastClickY     int
	lastMouseWorld worldPoint
	hover          string

	statusErr  string
	statusInfo string

	// Frame cache; View rebuilds only when revision has moved on.
	revision    uint64
	renderedRev uint64
	frameCache  string
}

func newModel(cfg *Config, log *zap.Logger, store *BoardStore) *model {
	return &model{
		cfg:       cfg,
		log:       log,
		store:     store,
		board:     Board{Nodes: []Node{}, Edges: []Edge{}},
		camera:    NewCamera(),
		selection: NewSelection(),
		history:   NewHistory(cfg.HistoryDepth),
		gest:      gestureIdle{},
		assets:    NewAssetStore(cfg.AssetsDir),
		previews:  NewPreviewCache(),
		mdFiles:   NewMarkdownCache(),
		width:     80,
		height:    24,
	}
}

func (m *model) Init() tea.Cmd {
	return m.loadBoardCmd()
}

func (m *model) loadBoardCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return boardLoadedMsg{board: store.Load()}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.markDirty()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case boardLoadedMsg:
		m.board = msg.board
		m.selection.Prune(&m.board)
		m.markDirty()
		return m, m.ensurePreviews()

	case externalChangeMsg:
		// Another process rewrote the board file; reload and drop any
		// in-flight gesture so it cannot mutate the stale document.
		m.log.Info("external change detected, reloading")
		m.gest = gestureIdle{}
		m.selBox = nil
		m.editor = nil
		return m, m.loadBoardCmd()

	case saveDoneMsg:
		if msg.err != nil {
			m.log.Error("save failed", zap.Error(msg.err))
			m.statusErr = "save failed: " + msg.err.Error()
			m.markDirty()
		}

	case previewFetchedMsg:
		if msg.err != nil {
			m.log.Warn("preview fetch failed", zap.String("url", msg.url), zap.Error(msg.err))
			m.previews.Forget(msg.url)
		} else {
			m.previews.Resolve(msg.url, msg.preview)
			m.markDirty()
		}

	case markdownLoadedMsg:
		m.applyMarkdownLoaded(msg)

	case imagePastedMsg:
		return m, m.applyImagePasted(msg)

	case clipboardTextMsg:
		return m, m.applyClipboardText(msg)

	case overlayImageMsg:
		m.applyOverlayImage(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.statusErr = "export failed: " + msg.err.Error()
		} else {
			m.statusInfo = "exported " + msg.path
			m.log.Info("board exported", zap.String("path", msg.path))
		}
		m.markDirty()
	}
	return m, nil
}

func (m *model) applyMarkdownLoaded(msg markdownLoadedMsg) {
	if msg.err != nil {
		m.log.Warn("markdown read failed", zap.String("path", msg.path), zap.Error(msg.err))
		m.mdFiles.Forget(msg.path)
		if m.overlay.kind == overlayMarkdown && m.overlay.title == msg.path {
			m.overlay.content = "Error: " + msg.err.Error()
			m.markDirty()
		}
		return
	}
	m.mdFiles.Resolve(msg.path, msg.content)
	if m.overlay.kind == overlayMarkdown && m.overlay.title == msg.path {
		m.overlay.content = msg.content
		m.markDirty()
	}
}

// applyImagePasted creates an image node sized to the picture's aspect
// ratio, clamped to the paste size range.
func (m *model) applyImagePasted(msg imagePastedMsg) tea.Cmd {
	if msg.err != nil {
		m.statusErr = "paste failed: " + msg.err.Error()
		m.markDirty()
		return nil
	}
	w, h := clampImageSize(msg.width, msg.height)
	m.history.Push(m.board.Clone())
	n := NewNode(msg.worldX-w/2, msg.worldY-h/2, msg.path)
	n.Kind = KindImage
	n.Width = w
	n.Height = h
	m.board.Nodes = append(m.board.Nodes, n)
	m.selection.SelectNode(n.ID)
	m.markDirty()
	return m.saveCmd()
}

func (m *model) applyClipboardText(msg clipboardTextMsg) tea.Cmd {
	if msg.err != nil {
		m.statusErr = "paste failed: " + msg.err.Error()
		m.markDirty()
		return nil
	}
	if msg.text == "" {
		return nil
	}
	m.history.Push(m.board.Clone())
	n := NewNode(msg.worldX-defaultNodeWidth/2, msg.worldY-defaultNodeHeight/2, msg.text)
	var fetch tea.Cmd
	if strings.HasPrefix(msg.text, "http://") || strings.HasPrefix(msg.text, "https://") {
		n.Kind = KindLink
		fetch = m.ensurePreview(msg.text)
	} else {
		n.Width, n.Height = autoSize(msg.text)
	}
	m.board.Nodes = append(m.board.Nodes, n)
	m.selection.SelectNode(n.ID)
	m.markDirty()
	return tea.Batch(m.saveCmd(), fetch)
}

func (m *model) applyOverlayImage(msg overlayImageMsg) {
	if msg.err != nil {
		m.statusErr = "image open failed: " + msg.err.Error()
		m.markDirty()
		return
	}
	content := fmt.Sprintf("%s\n%d x %d px\n\nImage preview is not available in the terminal.\nPress o on the node to open it externally.", msg.title, msg.width, msg.height)
	m.overlay = overlayState{kind: overlayImage, title: filepath.Base(msg.title), content: content}
	m.markDirty()
}

// clampImageSize scales pixel dimensions into the paste range, preserving
// the aspect ratio.
func clampImageSize(pxW, pxH int) (float64, float64) {
	w, h := float64(pxW), float64(pxH)
	if w <= 0 || h <= 0 {
		return defaultNodeWidth, defaultNodeHeight
	}
	if longest := maxf(w, h); longest > pasteImageMaxSize {
		scale := pasteImageMaxSize / longest
		w *= scale
		h *= scale
	}
	if longest := maxf(w, h); longest < pasteImageMinSize {
		scale := pasteImageMinSize / longest
		w *= scale
		h *= scale
	}
	return w, h
}

func newLogger(cfg *Config) *zap.Logger {
	path := cfg.LogPath
	if path == "" {
		path = filepath.Join(filepath.Dir(cfg.BoardPath), "driftpad.log")
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	log, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	cfg := loadConfig()
	if len(os.Args) > 1 {
		cfg.BoardPath = os.Args[1]
		cfg.AssetsDir = ""
		home, _ := os.UserHomeDir()
		cfg.normalize(home)
	}

	log := newLogger(cfg)
	defer log.Sync()

	store := NewBoardStore(cfg.BoardPath, log)
	m := newModel(cfg, log, store)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	done := make(chan struct{})
	go store.Watch(done, func() {
		p.Send(externalChangeMsg{})
	})

	if _, err := p.Run(); err != nil {
		close(done)
		fmt.Fprintf(os.Stderr, "driftpad: %v\n", err)
		os.Exit(1)
	}
	close(done)
}
