package colour

import "math"

// Range is a minimum, ideal and maximum value for one HSL component.
type Range struct {
	Min    float64
	Target float64
	Max    float64
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Target describes the kind of swatch a palette slot looks for.
type Target struct {
	Name       string
	Saturation Range
	Lightness  Range

	SaturationWeight float64
	LightnessWeight  float64
	PopulationWeight float64

	// Exclusive targets claim their swatch so later targets cannot reuse it.
	Exclusive bool
}

const (
	weightSaturation = 0.24
	weightLightness  = 0.52
	weightPopulation = 0.24
)

var (
	lightLightness  = Range{Min: 0.55, Target: 0.74, Max: 1}
	normalLightness = Range{Min: 0.3, Target: 0.5, Max: 0.7}
	darkLightness   = Range{Min: 0, Target: 0.26, Max: 0.45}

	vibrantSaturation = Range{Min: 0.35, Target: 1, Max: 1}
	mutedSaturation   = Range{Min: 0, Target: 0.3, Max: 0.4}
)

func newTarget(name string, saturation, lightness Range) Target {
	return Target{
		Name:             name,
		Saturation:       saturation,
		Lightness:        lightness,
		SaturationWeight: weightSaturation,
		LightnessWeight:  weightLightness,
		PopulationWeight: weightPopulation,
		Exclusive:        true,
	}
}

// Predefined targets.
var (
	LightVibrant = newTarget("Light Vibrant", vibrantSaturation, lightLightness)
	Vibrant      = newTarget("Vibrant", vibrantSaturation, normalLightness)
	DarkVibrant  = newTarget("Dark Vibrant", vibrantSaturation, darkLightness)
	LightMuted   = newTarget("Light Muted", mutedSaturation, lightLightness)
	Muted        = newTarget("Muted", mutedSaturation, normalLightness)
	DarkMuted    = newTarget("Dark Muted", mutedSaturation, darkLightness)
)

// DefaultTargets returns the predefined targets in selection order.
func DefaultTargets() []Target {
	return []Target{LightVibrant, Vibrant, DarkVibrant, LightMuted, Muted, DarkMuted}
}

// normalisedWeights returns the weights scaled to sum to 1.
// Non-positive weights are treated as zero.
func (t Target) normalisedWeights() (sat, light, pop float64) {
	sat = math.Max(t.SaturationWeight, 0)
	light = math.Max(t.LightnessWeight, 0)
	pop = math.Max(t.PopulationWeight, 0)
	sum := sat + light + pop
	if sum == 0 {
		return 0, 0, 0
	}
	return sat / sum, light / sum, pop / sum
}

// accepts reports whether a swatch's HSL falls inside the target's ranges.
func (t Target) accepts(hsl HSL) bool {
	return t.Saturation.Contains(hsl.S) && t.Lightness.Contains(hsl.L)
}

// score rates s for this target. Higher is better.
func (t Target) score(s *Swatch, maxPopulation int) float64 {
	ws, wl, wp := t.normalisedWeights()
	hsl := s.HSL()

	var score float64
	if ws > 0 {
		score += ws * (1 - math.Abs(hsl.S-t.Saturation.Target))
	}
	if wl > 0 {
		score += wl * (1 - math.Abs(hsl.L-t.Lightness.Target))
	}
	if wp > 0 && maxPopulation > 0 {
		score += wp * (float64(s.Population()) / float64(maxPopulation))
	}
	return score
}
