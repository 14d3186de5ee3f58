package colour

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestContrastRatio(t *testing.T) {
	got := ContrastRatio(RGBToColor(white), RGBToColor(black))
	if math.Abs(got-21) > 0.01 {
		t.Errorf("ContrastRatio(white, black) = %.3f, want 21", got)
	}
	if got := ContrastRatio(RGBToColor(white), RGBToColor(white)); got != 1 {
		t.Errorf("ContrastRatio(white, white) = %.3f, want 1", got)
	}
}

func TestCompositeOver(t *testing.T) {
	bg := RGB{R: 0, G: 100, B: 200}
	tests := []struct {
		name string
		fg   RGBA
		want RGB
	}{
		{name: "opaque", fg: RGBA{R: 255, G: 255, B: 255, A: 255}, want: RGB{R: 255, G: 255, B: 255}},
		{name: "transparent", fg: RGBA{R: 255, G: 255, B: 255, A: 0}, want: bg},
		{name: "half", fg: RGBA{R: 255, G: 0, B: 0, A: 128}, want: RGB{R: 128, G: 50, B: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompositeOver(tt.fg, bg); got != tt.want {
				t.Errorf("CompositeOver() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMinimumAlpha(t *testing.T) {
	t.Run("unreachable contrast", func(t *testing.T) {
		if got := MinimumAlpha(white, white, MinContrastTitleText); got != -1 {
			t.Errorf("MinimumAlpha(white on white) = %d, want -1", got)
		}
	})

	backgrounds := []RGB{black, {R: 30, G: 90, B: 230}, {R: 240, G: 200, B: 40}, {R: 128, G: 128, B: 128}}
	for _, bg := range backgrounds {
		for _, fg := range []RGB{white, black} {
			for _, minContrast := range []float64{MinContrastTitleText, MinContrastBodyText} {
				alpha := MinimumAlpha(fg, bg, minContrast)
				if alpha == -1 {
					continue
				}
				composite := CompositeOver(RGBA{R: fg.R, G: fg.G, B: fg.B, A: uint8(alpha)}, bg)
				if c := ContrastRatio(RGBToColor(composite), RGBToColor(bg)); c < minContrast {
					t.Errorf("fg %s on %s at alpha %d has contrast %.2f, want >= %.1f",
						fg.Hex(), bg.Hex(), alpha, c, minContrast)
				}
				if alpha < 255 {
					lower := CompositeOver(RGBA{R: fg.R, G: fg.G, B: fg.B, A: uint8(max(alpha-2, 0))}, bg)
					if c := ContrastRatio(RGBToColor(lower), RGBToColor(bg)); c >= minContrast && alpha > 2 {
						t.Errorf("fg %s on %s: alpha %d is not minimal (alpha %d reaches %.2f)",
							fg.Hex(), bg.Hex(), alpha, alpha-2, c)
					}
				}
			}
		}
	}
}

func TestSwatchTextColours(t *testing.T) {
	tests := []struct {
		name      string
		rgb       RGB
		wantLight bool
	}{
		{name: "black background uses white text", rgb: black, wantLight: true},
		{name: "dark blue uses white text", rgb: RGB{R: 20, G: 30, B: 90}, wantLight: true},
		{name: "white background uses black text", rgb: white, wantLight: false},
		{name: "yellow uses black text", rgb: RGB{R: 240, G: 220, B: 60}, wantLight: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSwatch(tt.rgb, 1)
			title, body := s.TitleTextColour(), s.BodyTextColour()

			want := black
			if tt.wantLight {
				want = white
			}
			if title.RGB() != want || body.RGB() != want {
				t.Errorf("text colours = %s / %s, want %s", title.HexAlpha(), body.HexAlpha(), want.Hex())
			}
			if title.A > body.A {
				t.Errorf("title alpha %d exceeds body alpha %d", title.A, body.A)
			}
			if c := ContrastRatio(RGBToColor(CompositeOver(body, tt.rgb)), RGBToColor(tt.rgb)); c < MinContrastBodyText {
				t.Errorf("body text contrast %.2f below %.1f", c, MinContrastBodyText)
			}
		})
	}
}

func TestSwatchHSLAndString(t *testing.T) {
	s := NewSwatch(RGB{R: 255, G: 0, B: 0}, 42)

	hsl := s.HSL()
	if math.Abs(hsl.H) > 0.01 || math.Abs(hsl.S-1) > 0.01 || math.Abs(hsl.L-0.5) > 0.01 {
		t.Errorf("HSL() = %+v, want {0 1 0.5}", hsl)
	}

	str := s.String()
	for _, want := range []string{"[RGB: #ff0000]", "[Population: 42]", "[Title Text: #", "[Body Text: #", "[HSL: [0.0, 1.000, 0.500]]"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}

func TestDefaultFilter(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want bool
	}{
		{name: "black", rgb: RGB{R: 5, G: 5, B: 5}, want: false},
		{name: "white", rgb: RGB{R: 250, G: 250, B: 250}, want: false},
		{name: "skin tone near red i-line", rgb: RGB{R: 200, G: 150, B: 120}, want: false},
		{name: "saturated orange passes", rgb: RGB{R: 255, G: 120, B: 0}, want: true},
		{name: "blue passes", rgb: RGB{R: 30, G: 90, B: 230}, want: true},
		{name: "mid grey passes", rgb: RGB{R: 128, G: 128, B: 128}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultFilter(tt.rgb, ToHSL(tt.rgb)); got != tt.want {
				t.Errorf("DefaultFilter(%s) = %v, want %v (hsl %+v)", tt.rgb.Hex(), got, tt.want, ToHSL(tt.rgb))
			}
		})
	}
}

func TestTargetScore(t *testing.T) {
	ideal := NewSwatch(hslRGB(0, 1, 0.5), 10)
	weak := NewSwatch(hslRGB(0, 0.4, 0.65), 10)

	if !Vibrant.accepts(ideal.HSL()) {
		t.Fatalf("Vibrant should accept %+v", ideal.HSL())
	}
	if Muted.accepts(ideal.HSL()) {
		t.Errorf("Muted should reject %+v", ideal.HSL())
	}

	if a, b := Vibrant.score(ideal, 10), Vibrant.score(weak, 10); a <= b {
		t.Errorf("ideal score %.3f should exceed weak score %.3f", a, b)
	}
	if got := Vibrant.score(ideal, 10); math.Abs(got-1) > 0.02 {
		t.Errorf("ideal score = %.3f, want about 1", got)
	}

	ws, wl, wp := Target{SaturationWeight: 1, LightnessWeight: 1, PopulationWeight: 2}.normalisedWeights()
	if ws != 0.25 || wl != 0.25 || wp != 0.5 {
		t.Errorf("normalisedWeights() = %v, %v, %v", ws, wl, wp)
	}
}

// hslRGB converts HSL to RGB for test fixtures.
func hslRGB(h, s, l float64) RGB {
	r, g, b := colorful.Hsl(h, s, l).RGB255()
	return RGB{R: r, G: g, B: b}
}
