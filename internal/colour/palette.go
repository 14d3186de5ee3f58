package colour

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/hashicorp/go-hclog"

	imgutil "github.com/jmylchreest/palettesample/internal/image"
)

// Palette is a set of swatches extracted from an image and the swatches
// selected for each target.
type Palette struct {
	swatches []*Swatch
	dominant *Swatch
	targets  []Target
	selected map[string]*Swatch
}

// Swatches returns all swatches that survived filtering.
func (p *Palette) Swatches() []*Swatch {
	return p.swatches
}

// Len returns the number of swatches.
func (p *Palette) Len() int {
	return len(p.swatches)
}

// Dominant returns the swatch with the largest population, or nil.
func (p *Palette) Dominant() *Swatch { return p.dominant }

// Swatch returns the swatch selected for t, or nil.
func (p *Palette) Swatch(t Target) *Swatch { return p.selected[t.Name] }

// Vibrant returns the swatch selected for the Vibrant target, or nil.
func (p *Palette) Vibrant() *Swatch { return p.Swatch(Vibrant) }

// LightVibrant returns the swatch selected for the Light Vibrant target, or nil.
func (p *Palette) LightVibrant() *Swatch { return p.Swatch(LightVibrant) }

// DarkVibrant returns the swatch selected for the Dark Vibrant target, or nil.
func (p *Palette) DarkVibrant() *Swatch { return p.Swatch(DarkVibrant) }

// Muted returns the swatch selected for the Muted target, or nil.
func (p *Palette) Muted() *Swatch { return p.Swatch(Muted) }

// LightMuted returns the swatch selected for the Light Muted target, or nil.
func (p *Palette) LightMuted() *Swatch { return p.Swatch(LightMuted) }

// DarkMuted returns the swatch selected for the Dark Muted target, or nil.
func (p *Palette) DarkMuted() *Swatch { return p.Swatch(DarkMuted) }

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count    int                    `json:"count"`
	Dominant *SwatchJSON            `json:"dominant,omitempty"`
	Targets  map[string]*SwatchJSON `json:"targets"`
	Swatches []SwatchJSON           `json:"swatches"`
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	out := PaletteJSON{
		Count:    len(p.swatches),
		Targets:  make(map[string]*SwatchJSON, len(p.targets)),
		Swatches: make([]SwatchJSON, len(p.swatches)),
	}
	for i, s := range p.swatches {
		out.Swatches[i] = s.JSON()
	}
	if p.dominant != nil {
		d := p.dominant.JSON()
		out.Dominant = &d
	}
	for _, t := range p.targets {
		if s := p.selected[t.Name]; s != nil {
			j := s.JSON()
			out.Targets[t.Name] = &j
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.swatches) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d swatches:\n", len(p.swatches))
	if p.dominant != nil {
		fmt.Fprintf(&sb, "  %-14s %s\n", "Dominant", p.dominant.RGB().Hex())
	}
	for _, t := range p.targets {
		if s := p.selected[t.Name]; s != nil {
			fmt.Fprintf(&sb, "  %-14s %s\n", t.Name, s.RGB().Hex())
		}
	}
	return sb.String()
}

// Generator extracts palettes from images.
type Generator struct {
	cfg       GeneratorConfig
	quantizer Quantizer
	logger    hclog.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(cfg GeneratorConfig, logger hclog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	q, err := NewQuantizer(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create quantizer: %w", err)
	}
	if cfg.Filters == nil {
		cfg.Filters = []Filter{DefaultFilter}
	}
	if cfg.Targets == nil {
		cfg.Targets = DefaultTargets()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Generator{cfg: cfg, quantizer: q, logger: logger}, nil
}

// WithQuantizer replaces the quantizer chosen from the configured algorithm.
func (g *Generator) WithQuantizer(q Quantizer) *Generator {
	g.quantizer = q
	return g
}

// Generate extracts a palette from img.
func (g *Generator) Generate(img image.Image) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	scaled := scaleToArea(img, g.cfg.ResizeArea)
	quantized, err := g.quantizer.Quantize(scaled, g.cfg.MaxColours)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize image: %w", err)
	}

	swatches := make([]*Swatch, 0, len(quantized))
	for _, s := range quantized {
		if allowed(g.cfg.Filters, s) {
			swatches = append(swatches, s)
		}
	}

	p := &Palette{
		swatches: swatches,
		dominant: dominantSwatch(swatches),
		targets:  g.cfg.Targets,
		selected: make(map[string]*Swatch, len(g.cfg.Targets)),
	}

	maxPopulation := 0
	if p.dominant != nil {
		maxPopulation = p.dominant.Population()
	}

	used := make(map[*Swatch]bool)
	for _, t := range g.cfg.Targets {
		best := selectForTarget(swatches, t, maxPopulation, used)
		if best == nil {
			continue
		}
		p.selected[t.Name] = best
		if t.Exclusive {
			used[best] = true
		}
	}

	g.logger.Debug("generated palette",
		"algorithm", string(g.cfg.Algorithm),
		"size", fmt.Sprintf("%dx%d", scaled.Bounds().Dx(), scaled.Bounds().Dy()),
		"quantized", len(quantized),
		"swatches", len(swatches),
		"targets", len(p.selected))

	return p, nil
}

func dominantSwatch(swatches []*Swatch) *Swatch {
	var best *Swatch
	for _, s := range swatches {
		if best == nil || s.Population() > best.Population() {
			best = s
		}
	}
	return best
}

func selectForTarget(swatches []*Swatch, t Target, maxPopulation int, used map[*Swatch]bool) *Swatch {
	var best *Swatch
	bestScore := math.Inf(-1)
	for _, s := range swatches {
		if used[s] || !t.accepts(s.HSL()) {
			continue
		}
		if score := t.score(s, maxPopulation); best == nil || score > bestScore {
			best, bestScore = s, score
		}
	}
	return best
}

// scaleToArea shrinks img so its area does not exceed area, keeping the
// aspect ratio. Images already small enough, or area <= 0, are returned as is.
func scaleToArea(img image.Image, area int) image.Image {
	b := img.Bounds()
	current := b.Dx() * b.Dy()
	if area <= 0 || current <= area {
		return img
	}
	scale := math.Sqrt(float64(area) / float64(current))
	w := max(int(math.Ceil(float64(b.Dx())*scale)), 1)
	h := max(int(math.Ceil(float64(b.Dy())*scale)), 1)
	return imgutil.Scale(img, w, h)
}
