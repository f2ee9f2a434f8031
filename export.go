package main

import (
	"errors"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var errNothingToExport = errors.New("nothing to export")

// exportPNG renders the whole board to a PNG next to the board file,
// independent of the current camera.
func (m *model) exportPNG() tea.Cmd {
	board := m.board.Clone()
	path := strings.TrimSuffix(m.store.Path(), ".json") + ".png"
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: exportBoardPNG(board, path)}
	}
}

func exportBoardPNG(board Board, path string) error {
	if len(board.Nodes) == 0 {
		return errNothingToExport
	}

	minX, minY := board.Nodes[0].X, board.Nodes[0].Y
	maxX := board.Nodes[0].X + board.Nodes[0].Width
	maxY := board.Nodes[0].Y + board.Nodes[0].Height
	for _, n := range board.Nodes[1:] {
		minX = minf(minX, n.X)
		minY = minf(minY, n.Y)
		maxX = maxf(maxX, n.X+n.Width)
		maxY = maxf(maxY, n.Y+n.Height)
	}

	const padding = 40.0
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return err
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    14,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	// Edges behind nodes.
	dc.SetColor(color.Gray{Y: 0x80})
	dc.SetLineWidth(1.5)
	for _, e := range board.Edges {
		from := board.NodeByID(e.FromNode)
		to := board.NodeByID(e.ToNode)
		if from == nil || to == nil {
			continue
		}
		fx, fy := from.Center()
		tx, ty := to.Center()
		dc.DrawLine(fx-minX, fy-minY, tx-minX, ty-minY)
		dc.Stroke()
		if e.Label != "" {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(e.Label, (fx+tx)/2-minX, (fy+ty)/2-minY, 0.5, 0.5)
			dc.SetColor(color.Gray{Y: 0x80})
		}
	}

	for _, n := range board.Nodes {
		drawNodePNG(dc, n, minX, minY)
	}

	return dc.SavePNG(path)
}

func drawNodePNG(dc *gg.Context, n Node, minX, minY float64) {
	x, y := n.X-minX, n.Y-minY

	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, n.Width, n.Height, 6)
	dc.FillPreserve()
	dc.SetColor(nodeBorderColor(n))
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetColor(color.Black)
	lineHeight := 16.0
	ty := y + lineHeight
	for _, line := range strings.Split(n.Text, "\n") {
		if ty > y+n.Height-4 {
			break
		}
		dc.DrawStringAnchored(truncateForWidth(dc, line, n.Width-12), x+6, ty, 0, 0)
		ty += lineHeight
	}

	if n.Kind != KindText {
		dc.SetColor(color.Gray{Y: 0x60})
		dc.DrawStringAnchored("["+n.Kind+"]", x+6, y+n.Height-6, 0, 0)
	}
}

func nodeBorderColor(n Node) color.Color {
	switch n.Kind {
	case KindIdea:
		return color.RGBA{R: 0xd9, G: 0xa4, B: 0x06, A: 0xff}
	case KindNote:
		return color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	case KindImage:
		return color.RGBA{R: 0x6a, G: 0x1b, B: 0x9a, A: 0xff}
	case KindLink, KindMarkdown:
		return color.RGBA{R: 0x15, G: 0x65, B: 0xc0, A: 0xff}
	default:
		return color.Black
	}
}

func truncateForWidth(dc *gg.Context, s string, maxWidth float64) string {
	for len(s) > 0 {
		if w, _ := dc.MeasureString(s); w <= maxWidth {
			return s
		}
		s = s[:len(s)-1]
	}
	return s
}
