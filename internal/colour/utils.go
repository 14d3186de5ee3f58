package colour

import (
	"image/color"
	"math"
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	rf := gammaCorrect(float64(r>>8) / 255.0)
	gf := gammaCorrect(float64(g>>8) / 255.0)
	bf := gammaCorrect(float64(b>>8) / 255.0)

	return 0.2126*rf + 0.7152*gf + 0.0722*bf
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 color.Color) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

// CompositeOver blends fg over an opaque bg using fg's alpha.
func CompositeOver(fg RGBA, bg RGB) RGB {
	a := fg.AlphaFloat()
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	return RGB{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B)}
}

const (
	alphaSearchIterations = 10
	alphaSearchPrecision  = 1
)

// MinimumAlpha returns the lowest alpha at which fg, composited over bg,
// reaches minContrast against bg. It returns -1 when even an opaque fg
// falls short.
func MinimumAlpha(fg, bg RGB, minContrast float64) int {
	bgColour := RGBToColor(bg)
	if ContrastRatio(RGBToColor(fg), bgColour) < minContrast {
		return -1
	}

	minAlpha, maxAlpha := 0, 255
	for i := 0; i < alphaSearchIterations && maxAlpha-minAlpha > alphaSearchPrecision; i++ {
		testAlpha := (minAlpha + maxAlpha) / 2
		test := CompositeOver(RGBA{R: fg.R, G: fg.G, B: fg.B, A: uint8(testAlpha)}, bg)
		if ContrastRatio(RGBToColor(test), bgColour) < minContrast {
			minAlpha = testAlpha
		} else {
			maxAlpha = testAlpha
		}
	}
	return maxAlpha
}
