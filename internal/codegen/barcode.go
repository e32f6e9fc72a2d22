package codegen

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// BarcodeOptions controls the finished CODE128 raster. Unlike the QR
// path, the barcode renderer emits an already-colored image and the
// compositor is never involved.
type BarcodeOptions struct {
	BarWidth   int // width of the bar area in pixels
	BarHeight  int // height of the bar area in pixels
	Foreground color.RGBA
	Background color.RGBA
	// ShowText renders the encoded text as a human-readable line
	// beneath the bars.
	ShowText bool
	// Threshold is the per-channel brightness above which a scaled
	// pixel counts as background rather than bar. Zero means
	// DefaultMaskThreshold.
	Threshold uint8
}

// labelBand is the height in pixels reserved for the human-readable
// line under the bars.
const labelBand = 24

// RenderBarcode encodes text as a CODE128 symbol and renders the
// finished raster: colored bars on a colored background plus the
// optional text line. Fails when the text contains characters the
// symbology cannot represent.
func RenderBarcode(text string, opts BarcodeOptions) (*image.RGBA, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode code128: %w", err)
	}

	scaled, err := barcode.Scale(bc, opts.BarWidth, opts.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("scale code128: %w", err)
	}

	totalHeight := opts.BarHeight
	if opts.ShowText {
		totalHeight += labelBand
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultMaskThreshold
	}

	dc := gg.NewContext(opts.BarWidth, totalHeight)
	dc.SetColor(opts.Background)
	dc.Clear()
	dc.DrawImage(recolorBars(scaled, opts.Foreground, opts.Background, threshold), 0, 0)

	if opts.ShowText {
		face, err := labelFace(14)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(opts.Foreground)
		dc.DrawStringAnchored(text, float64(opts.BarWidth)/2, float64(opts.BarHeight)+labelBand/2, 0.5, 0.5)
	}

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		out = cloneInto(dc.Image())
	}
	return out, nil
}

// recolorBars maps the scanner-style black/white barcode raster onto the
// requested colors using the same brightness classification as the QR
// mask: clearly light pixels become background, everything else bars.
func recolorBars(src image.Image, fg, bg color.RGBA, threshold uint8) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			c := fg
			if uint8(r>>8) > threshold && uint8(g>>8) > threshold && uint8(b>>8) > threshold {
				c = bg
			}
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, c)
		}
	}
	return out
}

func cloneInto(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out
}

var (
	labelFaceMu    sync.Mutex
	labelFaceCache = map[float64]font.Face{}
)

// labelFace returns the embedded Go Regular face at the given size,
// parsing the TTF only once per size.
func labelFace(size float64) (font.Face, error) {
	labelFaceMu.Lock()
	defer labelFaceMu.Unlock()

	if face, ok := labelFaceCache[size]; ok {
		return face, nil
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	labelFaceCache[size] = face
	return face, nil
}
