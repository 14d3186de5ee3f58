package colour

// Filter reports whether a colour may become a swatch.
type Filter func(rgb RGB, hsl HSL) bool

const (
	blackMaxLightness = 0.05
	whiteMinLightness = 0.95
)

// DefaultFilter rejects colours close to black or white and skin-like tones
// near the red I-line.
func DefaultFilter(_ RGB, hsl HSL) bool {
	return !isBlack(hsl) && !isWhite(hsl) && !isNearRedILine(hsl)
}

func isBlack(hsl HSL) bool {
	return hsl.L <= blackMaxLightness
}

func isWhite(hsl HSL) bool {
	return hsl.L >= whiteMinLightness
}

func isNearRedILine(hsl HSL) bool {
	return hsl.H >= 10 && hsl.H <= 37 && hsl.S <= 0.82
}

// allowed reports whether every filter accepts s.
func allowed(filters []Filter, s *Swatch) bool {
	for _, f := range filters {
		if !f(s.RGB(), s.HSL()) {
			return false
		}
	}
	return true
}
