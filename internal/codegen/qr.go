package codegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// nopWriteCloser adapts a bytes.Buffer to the io.WriteCloser the
// standard writer expects.
type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

// EncodeQRBase encodes text at the highest error-correction level and
// returns a two-tone (white/black, fully opaque) raster of exactly
// size x size pixels. The high correction tier keeps the symbol
// scannable after the center icon occludes up to a quarter of its
// width. Encoding fails when the text exceeds symbol capacity.
func EncodeQRBase(text string, size int) (*image.RGBA, error) {
	qrc, err := qrcode.NewWith(text,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
	)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	moduleSize := size / qrc.Dimension()
	if moduleSize < 1 {
		moduleSize = 1
	}
	if moduleSize > 255 {
		moduleSize = 255
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithQRWidth(uint8(moduleSize)),
		standard.WithBorderWidth(0),
		standard.WithBgColor(color.RGBA{255, 255, 255, 255}),
		standard.WithFgColor(color.RGBA{0, 0, 0, 255}),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("render qr raster: %w", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode qr raster: %w", err)
	}

	return scaleNearest(img, size, size), nil
}
