// Package assets holds resources bundled into the binary.
package assets

import (
	_ "embed"
)

// DefaultImageName is the name reported for the bundled image.
const DefaultImageName = "bg_flower.png"

//go:embed bg_flower.png
var defaultImage []byte

// DefaultImage returns the bundled fallback image, PNG encoded.
// The returned slice is a copy and may be modified by the caller.
func DefaultImage() []byte {
	out := make([]byte, len(defaultImage))
	copy(out, defaultImage)
	return out
}
