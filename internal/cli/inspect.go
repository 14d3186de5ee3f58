package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	imgutil "github.com/jmylchreest/palettesample/internal/image"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [image]",
		Short: "Show the sample size chosen for an image",
		Long: `Inspect reads an image's bounds, computes the sample size for the configured
viewport and reports the decoded size. Without an argument the bundled image is
inspected.

Examples:
  palettesample inspect photo.jpg
  palettesample inspect --viewport 540x960 photo.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			src, err := imgutil.ResolveSource(path)
			if err != nil {
				return fmt.Errorf("invalid image source: %w", err)
			}
			loaded, err := opts.newLoader().Load(cmd.Context(), src, opts.cfg.Viewport)
			if err != nil {
				return fmt.Errorf("failed to load image: %w", err)
			}

			table := NewTable("Property", "Value")
			table.AddRow("Source", src.String())
			table.AddRow("Format", loaded.Format)
			table.AddRow("Bounds", loaded.Bounds.String())
			table.AddRow("Viewport", loaded.Viewport.String())
			table.AddRow("Sample size", strconv.Itoa(loaded.RawFactor))
			table.AddRow("Applied sample size", strconv.Itoa(loaded.Factor))
			table.AddRow("Decoded", loaded.Size().String())
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}
