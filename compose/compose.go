// Package compose overlays a mascot image onto rendered slides.
package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"chalkcast/render"
)

// Error reports a compositing failure, usually an undecodable image.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compose: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// mascot square side as a fraction of canvas height, 350px on the full
// 1920px canvas
const mascotFraction = 350.0 / 1920.0

// gap between the mascot and the bottom frame edge
const bottomMargin = 50

// near-full opacity, 0.95 of 255
const mascotAlpha = 242

// Overlay draws `mascot` onto `slide` at a fixed square region: horizontally
// centered, anchored above the bottom frame edge, at near-full opacity. A nil
// mascot returns the slide unchanged. Callers compositing a batch should fall
// back to the plain slide for any index that fails.
func Overlay(slide, mascot []byte) ([]byte, error) {
	if len(mascot) == 0 {
		return slide, nil
	}

	base, _, err := image.Decode(bytes.NewReader(slide))
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("slide image: %w", err)}
	}
	overlay, _, err := image.Decode(bytes.NewReader(mascot))
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("mascot image: %w", err)}
	}

	bounds := base.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, base, bounds.Min, draw.Src)

	size := int(float64(bounds.Dy()) * mascotFraction)
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), overlay, overlay.Bounds(), xdraw.Over, nil)

	x := bounds.Min.X + (bounds.Dx()-size)/2
	y := bounds.Max.Y - render.FrameWidth - size - bottomMargin
	region := image.Rect(x, y, x+size, y+size)

	mask := image.NewUniform(color.Alpha{A: mascotAlpha})
	draw.DrawMask(dst, region, scaled, image.Point{}, mask, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, &Error{Err: err}
	}
	return buf.Bytes(), nil
}
