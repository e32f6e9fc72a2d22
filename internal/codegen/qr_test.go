package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQRBase(t *testing.T) {
	t.Run("produces a two-tone raster at the requested size", func(t *testing.T) {
		base, err := EncodeQRBase("https://example.com", 256)
		require.NoError(t, err)
		require.Equal(t, 256, base.Bounds().Dx())
		require.Equal(t, 256, base.Bounds().Dy())

		dark, light := 0, 0
		for i := 0; i+3 < len(base.Pix); i += 4 {
			r, g, b, a := base.Pix[i], base.Pix[i+1], base.Pix[i+2], base.Pix[i+3]
			assert.EqualValues(t, 255, a)
			if r > DefaultMaskThreshold && g > DefaultMaskThreshold && b > DefaultMaskThreshold {
				light++
			} else {
				dark++
			}
		}
		assert.Greater(t, dark, 0, "expected dark modules")
		assert.Greater(t, light, 0, "expected light modules")
	})

	t.Run("fails when text exceeds symbol capacity", func(t *testing.T) {
		// Version 40 at the highest correction tier caps out near 1.2KB;
		// 8KB cannot be encoded.
		_, err := EncodeQRBase(strings.Repeat("x", 8192), 256)
		assert.Error(t, err)
	})
}
