package colour

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/ericpauley/go-quantize/quantize"
)

// MedianCutQuantizer builds swatches with median cut quantization. Each
// pixel is counted towards its nearest palette entry. Images that already
// have no more than the requested number of distinct colours are used as is.
type MedianCutQuantizer struct{}

// Quantize implements Quantizer.
func (MedianCutQuantizer) Quantize(img image.Image, maxColours int) ([]*Swatch, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if maxColours < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", maxColours)
	}

	histogram := colourHistogram(img)
	if len(histogram) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}
	if len(histogram) <= maxColours {
		return histogramSwatches(histogram), nil
	}

	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, maxColours), img)
	if len(pal) == 0 {
		return nil, fmt.Errorf("quantizer returned an empty palette")
	}

	counts := make([]int, len(pal))
	for rgb, n := range histogram {
		counts[pal.Index(RGBToColor(rgb))] += n
	}

	return mergeSwatches(pal, counts), nil
}

// colourHistogram counts opaque pixels by colour.
func colourHistogram(img image.Image) map[RGB]int {
	histogram := make(map[RGB]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			histogram[ToRGB(c)]++
		}
	}
	return histogram
}

// histogramSwatches returns one swatch per colour, most populous first.
func histogramSwatches(histogram map[RGB]int) []*Swatch {
	swatches := make([]*Swatch, 0, len(histogram))
	for rgb, n := range histogram {
		swatches = append(swatches, NewSwatch(rgb, n))
	}
	slices.SortFunc(swatches, func(a, b *Swatch) int {
		if c := cmp.Compare(b.Population(), a.Population()); c != 0 {
			return c
		}
		return cmp.Compare(a.RGB().Hex(), b.RGB().Hex())
	})
	return swatches
}

// mergeSwatches turns palette entries and their pixel counts into swatches,
// dropping empty entries and folding entries that reduce to the same RGB.
func mergeSwatches(pal []color.Color, counts []int) []*Swatch {
	order := make([]RGB, 0, len(pal))
	totals := make(map[RGB]int, len(pal))
	for i, c := range pal {
		if counts[i] == 0 {
			continue
		}
		rgb := ToRGB(c)
		if _, seen := totals[rgb]; !seen {
			order = append(order, rgb)
		}
		totals[rgb] += counts[i]
	}

	swatches := make([]*Swatch, 0, len(order))
	for _, rgb := range order {
		swatches = append(swatches, NewSwatch(rgb, totals[rgb]))
	}
	return swatches
}
