// Package ui renders the sample screen as terminal text.
package ui

import (
	"fmt"
	"image"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jmylchreest/palettesample/internal/app"
	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
)

// DefaultWidth is the column count used when Options.Width is not positive.
const DefaultWidth = 60

// PickHint is the last line of every rendered screen.
const PickHint = "[ Pick Image ]"

const (
	upperHalfBlock = "▀"
	cardMarker     = " ■ "
)

// Options controls rendering.
type Options struct {
	// Width is the number of columns available.
	Width int

	// Colour enables 24-bit colour. Without it the output is plain text and
	// the image preview is left out.
	Colour bool
}

// card is one row of the palette display.
type card struct {
	name   string
	swatch func(*colour.Palette) *colour.Swatch
}

var cards = []card{
	{name: "Dominant", swatch: (*colour.Palette).Dominant},
	{name: "Vibrant", swatch: (*colour.Palette).Vibrant},
	{name: "Muted", swatch: (*colour.Palette).Muted},
}

// Render returns the screen for s. It returns an empty string until both the
// image and its palette are available.
func Render(s app.State, opts Options) string {
	if !s.Ready() {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	r := newRenderer(opts.Colour)

	var sb strings.Builder
	if opts.Colour {
		renderPreview(&sb, r, s.Loaded.Image, width)
	}
	sb.WriteString(summary(s.Loaded))
	sb.WriteString("\n\n")

	for _, c := range cards {
		sw := c.swatch(s.Palette)
		if sw == nil {
			continue
		}
		renderCard(&sb, r, c.name, sw, width)
		sb.WriteString("\n")
	}

	sb.WriteString(PickHint)
	sb.WriteString("\n")
	return sb.String()
}

// newRenderer returns a lipgloss renderer with a fixed profile so output
// does not depend on the terminal the process happens to run in.
func newRenderer(truecolour bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	if truecolour {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func lipColour(rgb colour.RGB) lipgloss.Color {
	return lipgloss.Color(rgb.Hex())
}

func summary(l *imgutil.Loaded) string {
	size := l.Size()
	return fmt.Sprintf("%s %s, decoded %s (sample size %d)", l.Source.String(), l.Bounds.String(), size.String(), l.Factor)
}

// renderPreview draws img using upper half blocks, two pixel rows per line.
func renderPreview(sb *strings.Builder, r *lipgloss.Renderer, img image.Image, width int) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return
	}
	cols := min(width, b.Dx())
	rows := max(cols*b.Dy()/b.Dx(), 1)
	if rows%2 != 0 {
		rows++
	}
	scaled := imgutil.Scale(img, cols, rows)

	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := colour.ToRGB(scaled.At(x, y))
			bottom := colour.ToRGB(scaled.At(x, y+1))
			sb.WriteString(r.NewStyle().
				Foreground(lipColour(top)).
				Background(lipColour(bottom)).
				Render(upperHalfBlock))
		}
		sb.WriteString("\n")
	}
}

// renderCard draws a two-line card filled with the swatch colour: the label
// and marker on the first line, the swatch description on the second.
func renderCard(sb *strings.Builder, r *lipgloss.Renderer, name string, sw *colour.Swatch, width int) {
	bg := sw.RGB()
	fill := r.NewStyle().Background(lipColour(bg))
	title := fill.Foreground(lipColour(colour.CompositeOver(sw.TitleTextColour(), bg)))
	marker := fill.Foreground(lipColour(bg))
	body := fill.Foreground(lipColour(colour.CompositeOver(sw.BodyTextColour(), bg)))

	label := name + ": "
	sb.WriteString(title.Render(label))
	sb.WriteString(marker.Render(cardMarker))
	if pad := padding(label+cardMarker, width); pad != "" {
		sb.WriteString(fill.Render(pad))
	}
	sb.WriteString("\n")

	text := sw.String()
	sb.WriteString(body.Render(text))
	if pad := padding(text, width); pad != "" {
		sb.WriteString(fill.Render(pad))
	}
	sb.WriteString("\n")
}

func padding(text string, width int) string {
	n := width - utf8.RuneCountInString(text)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
