// Package render rasterizes slide summaries into blackboard-styled images.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math/rand"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Error reports a failure to prepare the drawing surface or its fonts.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Slide struct {
	Title    string
	Content  string
	Duration int // declared pacing in seconds
}

type Options struct {
	Width           int
	Height          int
	BoardColor      string
	TextColor       string
	TitleFontSize   float64
	ContentFontSize float64
	Padding         float64
}

// DefaultOptions is the 9:16 chalkboard layout.
func DefaultOptions() Options {
	return Options{
		Width:           1080,
		Height:          1920,
		BoardColor:      "#2D5016",
		TextColor:       "#FFFFFF",
		TitleFontSize:   72,
		ContentFontSize: 56,
		Padding:         80,
	}
}

// PreviewOptions is a half-size layout for thumbnails.
func PreviewOptions() Options {
	return Options{
		Width:           540,
		Height:          960,
		BoardColor:      "#2D5016",
		TextColor:       "#FFFFFF",
		TitleFontSize:   36,
		ContentFontSize: 28,
		Padding:         40,
	}
}

// FrameWidth is the thickness of the wooden border in pixels.
const FrameWidth = 60

var (
	fontOnce    sync.Once
	fontErr     error
	regularFont *sfnt.Font
	boldFont    *sfnt.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
	})
	return fontErr
}

func newFace(f *sfnt.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Blackboard renders one slide as a PNG. `index` is the 0-based playback
// position, displayed as index+1 of total in the corner. Output is
// deterministic: the decorative grain and chalk jitter are seeded by `index`.
func Blackboard(slide Slide, index, total int, opts Options) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, &Error{Err: err}
	}

	titleFace, err := newFace(boldFont, opts.TitleFontSize)
	if err != nil {
		return nil, &Error{Err: err}
	}
	contentFace, err := newFace(regularFont, opts.ContentFontSize)
	if err != nil {
		return nil, &Error{Err: err}
	}
	smallFace, err := newFace(regularFont, opts.ContentFontSize*0.6)
	if err != nil {
		return nil, &Error{Err: err}
	}
	labelFace, err := newFace(regularFont, opts.ContentFontSize*0.7)
	if err != nil {
		return nil, &Error{Err: err}
	}

	w := float64(opts.Width)
	h := float64(opts.Height)
	dc := gg.NewContext(opts.Width, opts.Height)
	rng := rand.New(rand.NewSource(int64(index) + 1))

	drawWoodenFrame(dc, w, h, rng)

	// board area inset from the frame
	boardX := float64(FrameWidth)
	boardY := float64(FrameWidth)
	boardW := w - FrameWidth*2
	boardH := h - FrameWidth*2

	dc.SetHexColor(opts.BoardColor)
	dc.DrawRectangle(boardX, boardY, boardW, boardH)
	dc.Fill()

	dc.DrawRectangle(boardX, boardY, boardW, boardH)
	dc.Clip()
	drawChalkTexture(dc, w, h, rng)
	dc.ResetClip()

	dc.SetHexColor(opts.TextColor)

	// slide number, top right
	dc.SetFontFace(smallFace)
	dc.DrawStringAnchored(fmt.Sprintf("%d/%d", index+1, total),
		boardX+boardW-opts.Padding/2, boardY+opts.Padding/2, 1, 0.5)

	// title sits high to leave headroom
	dc.SetFontFace(titleFace)
	titleY := boardY + boardH*0.2
	titleLines := wrapText(dc, slide.Title, boardW-opts.Padding*2)
	drawWrappedText(dc, titleLines, boardX+boardW/2, titleY, opts.TitleFontSize*1.2)

	drawChalkLine(dc, boardX+opts.Padding, boardY+boardH*0.28,
		boardX+boardW-opts.Padding, boardY+boardH*0.28, rng)

	dc.SetHexColor(opts.TextColor)
	dc.SetFontFace(contentFace)
	contentY := boardY + boardH*0.45
	contentLines := wrapText(dc, slide.Content, boardW-opts.Padding*2)
	drawWrappedText(dc, contentLines, boardX+boardW/2, contentY, opts.ContentFontSize*1.4)

	// pacing label, bottom center
	dc.SetFontFace(labelFace)
	dc.DrawStringAnchored(fmt.Sprintf("%ds", slide.Duration),
		boardX+boardW/2, boardY+boardH-opts.Padding/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, &Error{Err: err}
	}
	return buf.Bytes(), nil
}

func drawWoodenFrame(dc *gg.Context, w, h float64, rng *rand.Rand) {
	grad := gg.NewLinearGradient(0, 0, FrameWidth, FrameWidth)
	grad.AddColorStop(0, color.RGBA{0x8B, 0x45, 0x13, 0xFF})
	grad.AddColorStop(0.3, color.RGBA{0xA0, 0x52, 0x2D, 0xFF})
	grad.AddColorStop(0.7, color.RGBA{0xCD, 0x85, 0x3F, 0xFF})
	grad.AddColorStop(1, color.RGBA{0xDE, 0xB8, 0x87, 0xFF})
	dc.SetFillStyle(grad)

	dc.DrawRectangle(0, 0, w, FrameWidth)
	dc.DrawRectangle(0, h-FrameWidth, w, FrameWidth)
	dc.DrawRectangle(0, 0, FrameWidth, h)
	dc.DrawRectangle(w-FrameWidth, 0, FrameWidth, h)
	dc.Fill()

	// grain
	dc.SetRGBA(139/255.0, 69/255.0, 19/255.0, 0.3)
	dc.SetLineWidth(2)
	for i := 0; i < 10; i++ {
		x := rng.Float64() * w
		dc.DrawLine(x, 0, x+rng.Float64()*20-10, h)
		dc.Stroke()
	}

	// knots
	dc.SetRGBA(101/255.0, 67/255.0, 33/255.0, 0.2)
	for i := 0; i < 5; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		radius := rng.Float64()*15 + 5
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
}

func drawChalkTexture(dc *gg.Context, w, h float64, rng *rand.Rand) {
	dc.SetRGBA(1, 1, 1, 0.01)
	for i := 0; i < 200; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		size := rng.Float64()
		dc.DrawRectangle(x, y, size, size)
		dc.Fill()
	}
}

// a hand-drawn line: straight, but with per-segment jitter
func drawChalkLine(dc *gg.Context, x1, y1, x2, y2 float64, rng *rand.Rand) {
	dc.SetRGBA(1, 1, 1, 0.8)
	dc.SetLineWidth(3)
	dc.SetLineCapRound()

	dc.MoveTo(x1, y1)
	const segments = 20
	for i := 1; i <= segments; i++ {
		t := float64(i) / segments
		x := x1 + (x2-x1)*t
		y := y1 + (y2-y1)*t + (rng.Float64()-0.5)*2
		dc.LineTo(x, y)
	}
	dc.Stroke()
}

func drawWrappedText(dc *gg.Context, lines []string, x, y, lineHeight float64) {
	totalHeight := float64(len(lines)) * lineHeight
	startY := y - totalHeight/2

	for i, line := range lines {
		dc.DrawStringAnchored(line, x, startY+float64(i)*lineHeight, 0.5, 0.5)
	}
}
