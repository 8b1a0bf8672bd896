package render

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBlackboardDimensions(t *testing.T) {
	slide := Slide{Title: "Photosynthesis", Content: "Plants turn light into sugar.", Duration: 5}

	for _, opts := range []Options{DefaultOptions(), PreviewOptions()} {
		data, err := Blackboard(slide, 0, 6, opts)
		if err != nil {
			t.Fatalf("Blackboard: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("output is not a PNG: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != opts.Width || b.Dy() != opts.Height {
			t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), opts.Width, opts.Height)
		}
	}
}

// The decoration is seeded by the slide index, so rendering the same slide
// twice yields identical bytes.
func TestBlackboardDeterministic(t *testing.T) {
	slide := Slide{Title: "Mitosis", Content: "One cell becomes two.", Duration: 7}

	a, err := Blackboard(slide, 2, 6, PreviewOptions())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := Blackboard(slide, 2, 6, PreviewOptions())
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("renders of the same slide differ")
	}
}

func TestBlackboardIndexVariesDecoration(t *testing.T) {
	slide := Slide{Title: "Mitosis", Content: "One cell becomes two.", Duration: 7}

	a, err := Blackboard(slide, 0, 6, PreviewOptions())
	if err != nil {
		t.Fatalf("render index 0: %v", err)
	}
	b, err := Blackboard(slide, 1, 6, PreviewOptions())
	if err != nil {
		t.Fatalf("render index 1: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("different indices produced identical images")
	}
}

func TestBlackboardEmptySlide(t *testing.T) {
	data, err := Blackboard(Slide{}, 0, 1, PreviewOptions())
	if err != nil {
		t.Fatalf("Blackboard on empty slide: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Error("degenerate image")
	}
}

func TestBlackboardBoardColor(t *testing.T) {
	data, err := Blackboard(Slide{Title: "x", Content: "y", Duration: 5}, 0, 6, DefaultOptions())
	if err != nil {
		t.Fatalf("Blackboard: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// a point well inside the board, away from text
	r, g, b, _ := img.At(FrameWidth+20, FrameWidth+20).RGBA()
	if r>>8 != 0x2D || g>>8 != 0x50 || b>>8 != 0x16 {
		// chalk texture may brighten it slightly, allow one step
		if !near(uint8(r>>8), 0x2D) || !near(uint8(g>>8), 0x50) || !near(uint8(b>>8), 0x16) {
			t.Errorf("board corner is #%02X%02X%02X, want about #2D5016", r>>8, g>>8, b>>8)
		}
	}

	// inside the wooden frame
	r, g, b, _ = img.At(5, 5).RGBA()
	if r>>8 == 0x2D && g>>8 == 0x50 && b>>8 == 0x16 {
		t.Error("frame pixel has the board color, frame not drawn")
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -4 && d <= 4
}
