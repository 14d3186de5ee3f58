package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettesample/internal/app"
	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
	"github.com/jmylchreest/palettesample/internal/ui"
)

// Output formats supported by extract.
const (
	FormatCards = "cards"
	FormatJSON  = "json"
	FormatHex   = "hex"
	FormatTable = "table"
)

// extractOptions holds the extract command flags.
type extractOptions struct {
	format string
	output string
	width  int
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	eo := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract [image]",
		Short: "Extract a colour palette from an image",
		Long: `Extract decodes an image for the configured viewport and prints its palette.

The image may be a file, a directory (a random image inside it is used) or an
http(s) URL. Without an argument the bundled image is used.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Render the Dominant, Vibrant and Muted cards for the bundled image
  palettesample extract

  # Extract as JSON with k-means clustering
  palettesample extract --algorithm kmeans --format json wallpaper.jpg

  # List every swatch hex code and save it to a file
  palettesample extract -f hex -o palette.txt wallpaper.png

  # Show the selected swatch for every target
  palettesample extract -f table https://example.com/photo.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExtract(cmd.Context(), opts, eo, path, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&eo.format, "format", "f", FormatCards, "output format (cards, json, hex, table)")
	cmd.Flags().StringVarP(&eo.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&eo.width, "width", "w", 0, "card width in columns (default: terminal width)")
	return cmd
}

func runExtract(ctx context.Context, opts *rootOptions, eo *extractOptions, path string, out io.Writer) error {
	src, err := imgutil.ResolveSource(path)
	if err != nil {
		return fmt.Errorf("invalid image source: %w", err)
	}

	gen, err := opts.newGenerator()
	if err != nil {
		return err
	}

	loaded, err := opts.newLoader().Load(ctx, src, opts.cfg.Viewport)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	palette, err := gen.Generate(loaded.Image)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	opts.logger.Debug("extracted palette", "source", src.String(), "swatches", palette.Len())

	// Files never receive escape codes.
	renderTo := out
	if eo.output != "" {
		renderTo = io.Discard
	}
	state := app.State{Source: src, Loaded: loaded, Palette: palette}
	output, err := formatPalette(state, eo.format, renderOptions(opts.cfg, renderTo, eo.width))
	if err != nil {
		return err
	}

	if eo.output != "" {
		if err := os.WriteFile(eo.output, []byte(output), 0o644); err != nil { // #nosec G306 - palette output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		opts.logger.Info("wrote palette", "path", eo.output, "format", eo.format)
		return nil
	}

	_, err = io.WriteString(out, output)
	return err
}

// formatPalette formats the palette according to the specified format.
func formatPalette(s app.State, format string, renderOpts ui.Options) (string, error) {
	switch format {
	case FormatCards:
		return ui.Render(s, renderOpts), nil
	case FormatJSON:
		jsonBytes, err := s.Palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(jsonBytes) + "\n", nil
	case FormatHex:
		return formatHex(s.Palette, renderOpts.Colour), nil
	case FormatTable:
		return formatTable(s.Palette), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: cards, json, hex, table)", format)
	}
}

// formatHex lists every swatch as a hex colour code, optionally preceded by
// a colour preview.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, s := range palette.Swatches() {
		if showPreview {
			sb.WriteString(colour.FormatColourWithPreview(s.RGB(), 8))
		} else {
			sb.WriteString(s.RGB().Hex())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatTable lists the dominant swatch and the swatch chosen for each target.
func formatTable(palette *colour.Palette) string {
	table := NewTable("Target", "Hex", "Population", "Title Text", "Body Text")
	addRow := func(name string, s *colour.Swatch) {
		if s == nil {
			table.AddRow(name, "-")
			return
		}
		table.AddRow(name, s.RGB().Hex(), strconv.Itoa(s.Population()),
			s.TitleTextColour().HexAlpha(), s.BodyTextColour().HexAlpha())
	}

	addRow("Dominant", palette.Dominant())
	for _, t := range colour.DefaultTargets() {
		addRow(t.Name, palette.Swatch(t))
	}
	return table.Render()
}
