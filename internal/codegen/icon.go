package codegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DecodeIcon decodes raw icon bytes into a renderable image. PNG, JPEG
// and GIF are tried first; anything else is treated as SVG and
// rasterized. A failure here is never fatal to a generation — the
// caller simply keeps the icon-less artifact.
func DecodeIcon(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	return decodeSVG(data)
}

// decodeSVG rasterizes SVG bytes at the icon's declared viewbox size.
func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 256, 256
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}

// OverlayIcon draws icon into a centered square covering fraction of
// dst's width. The square is first flat-filled with the background
// color so the icon keeps visual contrast against the module pattern
// (its quiet zone), then the icon is resized to fill the square exactly
// and drawn over it.
func OverlayIcon(dst *image.RGBA, icon image.Image, bg color.RGBA, fraction float64) {
	bounds := dst.Bounds()
	box := int(fraction * float64(bounds.Dx()))
	if box <= 0 {
		return
	}

	x0 := bounds.Min.X + (bounds.Dx()-box)/2
	y0 := bounds.Min.Y + (bounds.Dy()-box)/2
	patch := image.Rect(x0, y0, x0+box, y0+box)

	draw.Draw(dst, patch, &image.Uniform{C: bg}, image.Point{}, draw.Src)

	scaled := imaging.Resize(icon, box, box, imaging.Lanczos)
	draw.Draw(dst, patch, scaled, image.Point{}, draw.Over)
}
