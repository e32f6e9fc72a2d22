// Package codegen implements the code generation pipeline: symbol
// encoding, the masking/compositing core that colorizes a raw QR
// raster, and the optional center icon overlay.
package codegen

import (
	"errors"
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

// CodeType selects which symbology a request renders.
type CodeType string

const (
	TypeQR      CodeType = "qr"
	TypeBarcode CodeType = "barcode"
)

var (
	// ErrEmptyText is returned when a request carries no encodable text.
	ErrEmptyText = errors.New("text is empty")
	// ErrNoArtifact is returned when a download is requested before any
	// generation has produced an artifact.
	ErrNoArtifact = errors.New("no rendered artifact")
	// ErrUnknownType is returned for a code type outside {qr, barcode}.
	ErrUnknownType = errors.New("unknown code type")
)

// Request describes a single generation. All fields are consumed once;
// nothing is retained between generations except the resulting artifact.
type Request struct {
	Text       string
	Type       CodeType
	Foreground color.RGBA
	Background color.RGBA
	// GradientEnd, when non-nil, switches the foreground fill to a
	// top-left to bottom-right linear gradient ending in this color.
	GradientEnd *color.RGBA
	// Icon holds raw image bytes (PNG/JPEG/GIF/SVG) to overlay on the
	// center of a QR artifact. Ignored for barcodes.
	Icon []byte
}

// Validate rejects requests that must not start any work.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	switch r.Type {
	case TypeQR, TypeBarcode:
		return nil
	default:
		return ErrUnknownType
	}
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseHexColor parses a strict #RRGGBB color, case-insensitive.
func ParseHexColor(s string) (color.RGBA, error) {
	if !hexColorPattern.MatchString(s) {
		return color.RGBA{}, errors.New("not a #RRGGBB color: " + strconv.Quote(s))
	}
	r, _ := strconv.ParseUint(s[1:3], 16, 8)
	g, _ := strconv.ParseUint(s[3:5], 16, 8)
	b, _ := strconv.ParseUint(s[5:7], 16, 8)
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}

// ColorOrDefault parses a hex color parameter, tolerating a missing "#"
// prefix, and falls back to def when the value is absent or malformed.
func ColorOrDefault(param string, def color.RGBA) color.RGBA {
	param = strings.TrimSpace(param)
	if param == "" {
		return def
	}
	if !strings.HasPrefix(param, "#") {
		param = "#" + param
	}
	c, err := ParseHexColor(param)
	if err != nil {
		return def
	}
	return c
}
