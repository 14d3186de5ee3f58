package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettesample/internal/app"
	"github.com/jmylchreest/palettesample/internal/colour"
	"github.com/jmylchreest/palettesample/internal/ui"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the bundled image and pick others from standard input",
		Long: `Show renders the bundled image, loaded in the background, with its palette.

Each line read from standard input is a pick: an image path, a directory (a
random image inside it is used) or an http(s) URL. An empty line selects
nothing. "q" or end of input exits.

Examples:
  # Start with the bundled image and pick interactively
  palettesample show

  # Render a picked image for a small viewport
  echo ~/Pictures/wallpaper.jpg | palettesample show --viewport 540x960`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			width, _ := cmd.Flags().GetInt("width")
			return runShow(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), width)
		},
	}
	cmd.Flags().IntP("width", "w", 0, "render width in columns (default: terminal width)")
	return cmd
}

func runShow(ctx context.Context, opts *rootOptions, in io.Reader, out, errOut io.Writer, width int) error {
	gen, err := opts.newGenerator()
	if err != nil {
		return err
	}
	ctrl := app.NewController(opts.newLoader(), gen, opts.cfg.Viewport, opts.logger)

	renderOpts := renderOptions(opts.cfg, out, width)
	var mu sync.Mutex
	ctrl.Subscribe(func(s app.State) {
		if s.Err != nil {
			return
		}
		screen := ui.Render(s, renderOpts)
		if screen == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(out, screen)
	})

	fmt.Fprintln(errOut, "Enter an image path, directory or URL (empty line picks nothing, q quits)")

	ctrl.LoadDefault(ctx)
	defer ctrl.Wait()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			break
		}
		// Failures are logged by the controller and leave the screen as is.
		_ = ctrl.HandlePick(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read picks: %w", err)
	}
	return nil
}

// renderOptions decides width and colour for out. A non-positive width means
// the terminal width.
func renderOptions(cfg Config, out io.Writer, width int) ui.Options {
	if width <= 0 {
		width = colour.TerminalWidth(out, ui.DefaultWidth)
	}
	return ui.Options{
		Width:  width,
		Colour: !cfg.NoColour && colour.SupportsANSIColours(out),
	}
}
