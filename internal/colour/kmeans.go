package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeansQuantizer clusters pixels in RGB space with k-means. The population
// of a swatch is the size of its cluster.
type KMeansQuantizer struct{}

// maxKMeansSamples bounds the number of pixels handed to the clusterer.
const maxKMeansSamples = 12000

// Quantize implements Quantizer.
func (KMeansQuantizer) Quantize(img image.Image, maxColours int) ([]*Swatch, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if maxColours < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d", maxColours)
	}

	dataset, unique := observations(img)
	if len(dataset) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	// Partition needs at least k distinct points to seed k clusters.
	k := min(maxColours, unique)

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster pixels: %w", err)
	}

	pal := make([]color.Color, 0, len(cc))
	counts := make([]int, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		pal = append(pal, color.RGBA{
			R: unitToByte(c.Center[0]),
			G: unitToByte(c.Center[1]),
			B: unitToByte(c.Center[2]),
			A: 255,
		})
		counts = append(counts, len(c.Observations))
	}

	return mergeSwatches(pal, counts), nil
}

// observations samples opaque pixels as RGB coordinates in [0, 1] and
// reports how many distinct colours were seen.
func observations(img image.Image) (clusters.Observations, int) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, 0
	}

	step := 1
	if width*height > maxKMeansSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxKMeansSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxKMeansSamples))
	seen := make(map[RGB]struct{})
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := img.At(x, y)
			r, g, bl, a := c.RGBA()
			if a == 0 {
				continue
			}
			seen[ToRGB(c)] = struct{}{}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bl) / 65535.0,
			})
		}
	}
	return dataset, len(seen)
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
