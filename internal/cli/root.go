// Package cli provides the command-line interface for palettesample.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
	"github.com/jmylchreest/palettesample/internal/version"
)

// rootOptions carries the resolved configuration to subcommands.
type rootOptions struct {
	cfg    Config
	logger hclog.Logger
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "palettesample",
		Short: "Extract and preview colour palettes from images",
		Long: `palettesample decodes an image down-sampled to a viewport, extracts a palette
of representative swatches and renders the Dominant, Vibrant and Muted swatches
as colour cards in the terminal.

Without a subcommand it runs "show", which starts with the bundled image and
reads image paths, directories or URLs from standard input.`,
		Version:      version.Short(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.String("viewport", DefaultViewport.String(), "destination viewport as WxH (env "+EnvViewport+")")
	flags.StringP("algorithm", "a", string(colour.AlgorithmMedianCut), fmt.Sprintf("quantization algorithm %v (env %s)", colour.ValidAlgorithms(), EnvAlgorithm))
	flags.IntP("colours", "c", colour.DefaultMaxColours, "maximum number of colours to quantize to, 1-256 (env "+EnvColours+")")
	flags.Bool("no-colour", false, "disable ANSI colour output (env NO_COLOR)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	show := newShowCmd(opts)
	rootCmd.RunE = show.RunE
	rootCmd.Flags().AddFlagSet(show.Flags())

	rootCmd.AddCommand(show)
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load resolves the configuration from defaults, environment and flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := DefaultConfig().WithEnvConfig()
	if err != nil {
		return err
	}
	cfg, err = cfg.WithFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	o.cfg = cfg
	o.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

// newLoader creates an image loader logging under "loader".
func (o *rootOptions) newLoader() *imgutil.Loader {
	return imgutil.NewLoader(o.logger.Named("loader")).WithFetchOptions(o.cfg.FetchOptions())
}

// newGenerator creates a palette generator logging under "palette".
func (o *rootOptions) newGenerator() (*colour.Generator, error) {
	return colour.NewGenerator(o.cfg.GeneratorConfig(), o.logger.Named("palette"))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
