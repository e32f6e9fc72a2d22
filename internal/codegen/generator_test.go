package codegen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(DefaultOptions(), nil)
}

// solidPNG returns the PNG bytes of a size x size image in one color.
func solidPNG(t *testing.T, size int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGeneratorValidation(t *testing.T) {
	g := testGenerator(t)

	t.Run("whitespace-only text aborts before any work", func(t *testing.T) {
		_, err := g.Generate(context.Background(), Request{Text: "   \t ", Type: TypeQR})
		require.ErrorIs(t, err, ErrEmptyText)

		_, err = g.Current()
		assert.ErrorIs(t, err, ErrNoArtifact)
		assert.Equal(t, StateIdle, g.State())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := g.Generate(context.Background(), Request{Text: "hi", Type: "pdf417"})
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestGeneratorQR(t *testing.T) {
	fg := color.RGBA{180, 0, 0, 255}
	bg := color.RGBA{240, 240, 255, 255}

	t.Run("flat QR contains only the two requested colors", func(t *testing.T) {
		g := testGenerator(t)
		art, err := g.Generate(context.Background(), Request{
			Text: "https://example.com", Type: TypeQR,
			Foreground: fg, Background: bg,
		})
		require.NoError(t, err)
		require.Equal(t, TypeQR, art.Type)
		require.Equal(t, StateReady, g.State())

		for y := 0; y < art.Image.Bounds().Dy(); y++ {
			for x := 0; x < art.Image.Bounds().Dx(); x++ {
				px := art.Image.RGBAAt(x, y)
				require.True(t, px == fg || px == bg,
					"pixel at %d,%d is %v", x, y, px)
			}
		}
	})

	t.Run("icon lands in the center quiet zone", func(t *testing.T) {
		g := testGenerator(t)
		iconColor := color.RGBA{0, 200, 0, 255}
		art, err := g.Generate(context.Background(), Request{
			Text: "https://example.com", Type: TypeQR,
			Foreground: fg, Background: bg,
			Icon: solidPNG(t, 64, iconColor),
		})
		require.NoError(t, err)
		<-art.IconDone

		current, err := g.Current()
		require.NoError(t, err)
		require.Equal(t, StateReady, g.State())

		// The central quarter-width square must carry no module pixels:
		// only the background patch and the icon's own content remain.
		w := current.Image.Bounds().Dx()
		box := w / 4
		x0 := (w - box) / 2
		for y := x0; y < x0+box; y++ {
			for x := x0; x < x0+box; x++ {
				px := current.Image.RGBAAt(x, y)
				require.NotEqual(t, fg, px,
					"module-colored pixel inside the icon square at %d,%d", x, y)
			}
		}
	})

	t.Run("failed icon decode keeps the artifact without icon", func(t *testing.T) {
		g := testGenerator(t)
		art, err := g.Generate(context.Background(), Request{
			Text: "https://example.com", Type: TypeQR,
			Foreground: fg, Background: bg,
			Icon: []byte("not an image"),
		})
		require.NoError(t, err)
		<-art.IconDone

		current, err := g.Current()
		require.NoError(t, err)
		assert.Same(t, art, current)
		assert.Equal(t, StateReady, g.State())
	})

	t.Run("stale icon overlay never clobbers a newer artifact", func(t *testing.T) {
		g := testGenerator(t)
		first, err := g.Generate(context.Background(), Request{
			Text: "first", Type: TypeQR,
			Foreground: fg, Background: bg,
			Icon: solidPNG(t, 64, color.RGBA{0, 200, 0, 255}),
		})
		require.NoError(t, err)

		second, err := g.Generate(context.Background(), Request{
			Text: "second", Type: TypeQR,
			Foreground: fg, Background: bg,
		})
		require.NoError(t, err)

		<-first.IconDone
		current, err := g.Current()
		require.NoError(t, err)
		assert.Same(t, second, current, "most recent request must win")
	})
}

func TestGeneratorBarcode(t *testing.T) {
	g := testGenerator(t)
	art, err := g.Generate(context.Background(), Request{
		Text: "ABC-12345", Type: TypeBarcode,
		Foreground: color.RGBA{0, 0, 0, 255},
		Background: color.RGBA{255, 255, 255, 255},
	})
	require.NoError(t, err)
	require.Equal(t, TypeBarcode, art.Type)
	assert.Equal(t, StateReady, g.State())

	// Barcodes bypass the compositor and are ready immediately.
	select {
	case <-art.IconDone:
	default:
		t.Fatal("barcode artifact must not wait on an icon")
	}

	current, err := g.Current()
	require.NoError(t, err)
	assert.Same(t, art, current)
}

func TestArtifactFilename(t *testing.T) {
	g := testGenerator(t)
	art, err := g.Generate(context.Background(), Request{
		Text: "x", Type: TypeQR,
		Foreground: color.RGBA{0, 0, 0, 255},
		Background: color.RGBA{255, 255, 255, 255},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^qr_\d{13}\.png$`), art.Filename())

	data, err := art.PNG()
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, art.Image.Bounds(), decoded.Bounds())
}
