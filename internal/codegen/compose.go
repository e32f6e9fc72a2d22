package codegen

import (
	"image"
	"image/color"
	"image/draw"
)

// ForegroundLayer builds a raster of the given bounds filled with either
// a flat foreground color or, when gradientEnd is non-nil, a linear
// gradient running from the top-left corner (foreground) to the
// bottom-right corner (gradientEnd).
func ForegroundLayer(bounds image.Rectangle, fg color.RGBA, gradientEnd *color.RGBA) *image.RGBA {
	layer := image.NewRGBA(bounds)
	if gradientEnd == nil {
		draw.Draw(layer, bounds, &image.Uniform{C: fg}, image.Point{}, draw.Src)
		return layer
	}

	w := bounds.Dx()
	h := bounds.Dy()
	span := float64(w - 1 + h - 1)
	if span <= 0 {
		span = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / span
			layer.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, lerpColor(fg, *gradientEnd, t))
		}
	}
	return layer
}

// MaskLayer restricts layer to the opaque pixels of mask
// (destination-in): wherever mask is transparent the layer pixel is
// cleared entirely, everywhere else it is left as drawn. Both rasters
// must share the same bounds.
func MaskLayer(layer, mask *image.RGBA) {
	for i := 0; i+3 < len(layer.Pix) && i+3 < len(mask.Pix); i += 4 {
		if mask.Pix[i+3] == 0 {
			layer.Pix[i] = 0
			layer.Pix[i+1] = 0
			layer.Pix[i+2] = 0
			layer.Pix[i+3] = 0
		}
	}
}

// Composite runs the full QR compositing core: the two-tone base raster
// is converted into an alpha mask, a flat or gradient foreground layer
// is restricted to the module pixels, and the result is drawn
// source-over onto a background-filled canvas.
func Composite(base *image.RGBA, fg, bg color.RGBA, gradientEnd *color.RGBA, threshold uint8) *image.RGBA {
	ApplyAlphaMask(base, threshold)

	layer := ForegroundLayer(base.Bounds(), fg, gradientEnd)
	MaskLayer(layer, base)

	final := image.NewRGBA(base.Bounds())
	draw.Draw(final, final.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(final, final.Bounds(), layer, base.Bounds().Min, draw.Over)
	return final
}

// lerpColor performs linear interpolation between two colors.
func lerpColor(c1, c2 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c1.R) + t*(float64(c2.R)-float64(c1.R))),
		G: uint8(float64(c1.G) + t*(float64(c2.G)-float64(c1.G))),
		B: uint8(float64(c1.B) + t*(float64(c2.B)-float64(c1.B))),
		A: 255,
	}
}

// scaleNearest resizes src to w x h with nearest-neighbor sampling,
// which keeps module edges sharp.
func scaleNearest(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		sy := sb.Min.Y + y*sh/h
		for x := 0; x < w; x++ {
			sx := sb.Min.X + x*sw/w
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// cloneRGBA returns a deep copy of img. The displayed artifact is
// replace-only, so late overlays draw onto a copy.
func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}
