package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks img by factor on both axes using bilinear resampling.
// Each output side is at least one pixel. A factor of 1 or less returns img
// unchanged.
func Downsample(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w := max(b.Dx()/factor, 1)
	h := max(b.Dy()/factor, 1)
	return Scale(img, w, h)
}

// Scale resizes img to exactly w x h.
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
