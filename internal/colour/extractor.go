package colour

import (
	"fmt"
	"image"
	"slices"
)

// Quantizer reduces an image to at most maxColours swatches.
type Quantizer interface {
	Quantize(img image.Image, maxColours int) ([]*Swatch, error)
}

// Algorithm represents the quantization algorithm type.
type Algorithm string

const (
	// AlgorithmMedianCut splits the colour space by median cut.
	AlgorithmMedianCut Algorithm = "mediancut"

	// AlgorithmKMeans uses k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant uses weighted dominant-colour detection.
	AlgorithmDominant Algorithm = "dominant"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmMedianCut, AlgorithmKMeans, AlgorithmDominant}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// NewQuantizer creates a Quantizer for the specified algorithm.
func NewQuantizer(alg Algorithm) (Quantizer, error) {
	switch alg {
	case AlgorithmMedianCut:
		return MedianCutQuantizer{}, nil
	case AlgorithmKMeans:
		return KMeansQuantizer{}, nil
	case AlgorithmDominant:
		return DominantQuantizer{}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// GeneratorConfig holds configuration for palette generation.
type GeneratorConfig struct {
	Algorithm  Algorithm
	MaxColours int

	// ResizeArea is the pixel area the image is scaled down to before
	// quantizing. Zero or less disables scaling.
	ResizeArea int

	// Filters are applied to every quantized swatch. Nil means DefaultFilter.
	Filters []Filter

	// Targets are scored in order. Nil means DefaultTargets.
	Targets []Target
}

// Default generator settings.
const (
	DefaultMaxColours = 16
	DefaultResizeArea = 112 * 112
)

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Algorithm:  AlgorithmMedianCut,
		MaxColours: DefaultMaxColours,
		ResizeArea: DefaultResizeArea,
	}
}

// Validate validates the generator configuration.
func (c GeneratorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.MaxColours < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d", c.MaxColours)
	}
	if c.MaxColours > 256 {
		return fmt.Errorf("colour count too large: %d (maximum: 256)", c.MaxColours)
	}
	return nil
}
