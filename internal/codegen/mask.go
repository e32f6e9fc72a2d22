package codegen

import "image"

// DefaultMaskThreshold is the per-channel brightness above which a pixel
// counts as a light module. 200 tolerates encoder anti-aliasing without
// requiring pure white.
const DefaultMaskThreshold = 200

// ApplyAlphaMask converts a two-tone raster into its own alpha mask, in
// place: every pixel whose R, G and B channels all exceed threshold
// becomes fully transparent; every other pixel stays fully opaque with
// its color channels untouched. Boundary pixels that are not clearly
// light stay opaque, so the transform never punches holes in the module
// pattern. Re-applying the transform is a no-op.
func ApplyAlphaMask(img *image.RGBA, threshold uint8) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		if img.Pix[i] > threshold && img.Pix[i+1] > threshold && img.Pix[i+2] > threshold {
			img.Pix[i+3] = 0
		}
	}
}
