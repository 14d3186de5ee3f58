// Package app holds the sample's state and runs the load-and-extract
// pipeline that feeds it.
package app

import (
	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
)

// State is everything the view needs. Rendering is a pure function of it.
type State struct {
	// Source is the source of the image currently shown.
	Source imgutil.Source

	// Loaded is the decoded image, or nil before the first load completes.
	Loaded *imgutil.Loaded

	// Palette is the palette extracted from Loaded, or nil.
	Palette *colour.Palette

	// Err is the most recent load failure. It is cleared by the next
	// successful load.
	Err error

	// Generation increases by one on every publish.
	Generation uint64
}

// Ready reports whether both the image and its palette are available.
func (s State) Ready() bool {
	return s.Loaded != nil && s.Loaded.Image != nil && s.Palette != nil
}
