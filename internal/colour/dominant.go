package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
)

// DominantQuantizer uses weighted dominant-colour detection. A swatch's
// population is its weight scaled by the number of opaque pixels.
type DominantQuantizer struct{}

// Quantize implements Quantizer.
func (DominantQuantizer) Quantize(img image.Image, maxColours int) ([]*Swatch, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if maxColours < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", maxColours)
	}

	total := opaquePixels(img)
	if total == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	found := dominantcolor.FindWeight(img, maxColours)
	if len(found) == 0 {
		return nil, fmt.Errorf("no dominant colours found")
	}

	pal := make([]color.Color, 0, len(found))
	counts := make([]int, 0, len(found))
	for _, c := range found {
		pal = append(pal, c.RGBA)
		counts = append(counts, max(int(math.Round(c.Weight*float64(total))), 1))
	}

	return mergeSwatches(pal, counts), nil
}

func opaquePixels(img image.Image) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				n++
			}
		}
	}
	return n
}
