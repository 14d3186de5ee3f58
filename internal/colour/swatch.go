package colour

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Minimum contrast ratios for text drawn on a swatch.
const (
	MinContrastTitleText = 3.0
	MinContrastBodyText  = 4.5
)

var (
	white = RGB{R: 255, G: 255, B: 255}
	black = RGB{}
)

// HSL holds hue in degrees [0, 360) and saturation and lightness in [0, 1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ToHSL converts an RGB colour to HSL.
func ToHSL(rgb RGB) HSL {
	c, _ := colorful.MakeColor(RGBToColor(rgb))
	h, s, l := c.Hsl()
	return HSL{H: h, S: s, L: l}
}

// Swatch is a representative colour from an image with the number of pixels
// it stands for and text colours that are legible on top of it.
type Swatch struct {
	rgb        RGB
	hsl        HSL
	population int
	titleText  RGBA
	bodyText   RGBA
}

// NewSwatch creates a swatch for rgb covering population pixels.
func NewSwatch(rgb RGB, population int) *Swatch {
	s := &Swatch{
		rgb:        rgb,
		hsl:        ToHSL(rgb),
		population: population,
	}
	s.titleText, s.bodyText = textColours(rgb)
	return s
}

// RGB returns the swatch colour.
func (s *Swatch) RGB() RGB { return s.rgb }

// HSL returns the swatch colour in HSL space.
func (s *Swatch) HSL() HSL { return s.hsl }

// Population returns the number of pixels the swatch represents.
func (s *Swatch) Population() int { return s.population }

// TitleTextColour returns a white or black colour, with alpha, that meets
// MinContrastTitleText on the swatch.
func (s *Swatch) TitleTextColour() RGBA { return s.titleText }

// BodyTextColour returns a white or black colour, with alpha, that meets
// MinContrastBodyText on the swatch.
func (s *Swatch) BodyTextColour() RGBA { return s.bodyText }

// String returns a one-line description of the swatch.
func (s *Swatch) String() string {
	return fmt.Sprintf("Swatch [RGB: %s] [HSL: [%.1f, %.3f, %.3f]] [Population: %d] [Title Text: %s] [Body Text: %s]",
		s.rgb.Hex(), s.hsl.H, s.hsl.S, s.hsl.L, s.population, s.titleText.HexAlpha(), s.bodyText.HexAlpha())
}

// textColours picks title and body text colours for bg. White is preferred
// when it works for both, then black, and otherwise the two are mixed.
func textColours(bg RGB) (title, body RGBA) {
	lightBody := MinimumAlpha(white, bg, MinContrastBodyText)
	lightTitle := MinimumAlpha(white, bg, MinContrastTitleText)
	if lightBody != -1 && lightTitle != -1 {
		return withAlpha(white, lightTitle), withAlpha(white, lightBody)
	}

	darkBody := MinimumAlpha(black, bg, MinContrastBodyText)
	darkTitle := MinimumAlpha(black, bg, MinContrastTitleText)
	if darkBody != -1 && darkTitle != -1 {
		return withAlpha(black, darkTitle), withAlpha(black, darkBody)
	}

	if lightTitle != -1 {
		title = withAlpha(white, lightTitle)
	} else {
		title = withAlpha(black, darkTitle)
	}
	if lightBody != -1 {
		body = withAlpha(white, lightBody)
	} else {
		body = withAlpha(black, darkBody)
	}
	return title, body
}

func withAlpha(rgb RGB, alpha int) RGBA {
	return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: uint8(max(alpha, 0))}
}

// SwatchJSON is the JSON form of a swatch.
type SwatchJSON struct {
	Hex        string `json:"hex"`
	RGB        RGB    `json:"rgb"`
	HSL        HSL    `json:"hsl"`
	Population int    `json:"population"`
	TitleText  string `json:"title_text"`
	BodyText   string `json:"body_text"`
}

// JSON returns the JSON form of the swatch.
func (s *Swatch) JSON() SwatchJSON {
	return SwatchJSON{
		Hex:        s.rgb.Hex(),
		RGB:        s.rgb,
		HSL:        s.hsl,
		Population: s.population,
		TitleText:  s.titleText.HexAlpha(),
		BodyText:   s.bodyText.HexAlpha(),
	}
}
