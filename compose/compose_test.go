package compose

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"chalkcast/render"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestOverlayNilMascot(t *testing.T) {
	slide := encodePNG(t, 540, 960, color.RGBA{0x2D, 0x50, 0x16, 0xFF})
	out, err := Overlay(slide, nil)
	if err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if !bytes.Equal(out, slide) {
		t.Error("nil mascot should return the slide unchanged")
	}
}

func TestOverlayDrawsMascot(t *testing.T) {
	slide := encodePNG(t, 540, 960, color.RGBA{0x2D, 0x50, 0x16, 0xFF})
	mascot := encodePNG(t, 64, 64, color.RGBA{0xFF, 0x00, 0x00, 0xFF})

	out, err := Overlay(slide, mascot)
	if err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	if bytes.Equal(out, slide) {
		t.Fatal("composited image is identical to the input")
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 540 || b.Dy() != 960 {
		t.Errorf("dimensions changed: got %dx%d", b.Dx(), b.Dy())
	}

	// center of the mascot region should be strongly red
	size := int(float64(b.Dy()) * mascotFraction)
	cx := b.Dx() / 2
	cy := b.Max.Y - render.FrameWidth - bottomMargin - size/2
	r, g, _, _ := img.At(cx, cy).RGBA()
	if r>>8 < 0xC0 || g>>8 > 0x40 {
		t.Errorf("mascot region pixel is not red: r=%d g=%d", r>>8, g>>8)
	}

	// well above the mascot the board color must survive untouched
	r, g, bl, _ := img.At(cx, b.Dy()/4).RGBA()
	if r>>8 != 0x2D || g>>8 != 0x50 || bl>>8 != 0x16 {
		t.Errorf("board pixel disturbed: #%02X%02X%02X", r>>8, g>>8, bl>>8)
	}
}

func TestOverlayBadMascot(t *testing.T) {
	slide := encodePNG(t, 540, 960, color.RGBA{0x2D, 0x50, 0x16, 0xFF})
	_, err := Overlay(slide, []byte("not an image"))
	if err == nil {
		t.Fatal("expected an error for an undecodable mascot")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Errorf("expected *compose.Error, got %T", err)
	}
}

func TestOverlayBadSlide(t *testing.T) {
	mascot := encodePNG(t, 64, 64, color.RGBA{0xFF, 0x00, 0x00, 0xFF})
	_, err := Overlay([]byte("not an image"), mascot)
	if err == nil {
		t.Fatal("expected an error for an undecodable slide")
	}
}
