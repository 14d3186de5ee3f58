package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/palettesample/internal/colour"
	"github.com/jmylchreest/palettesample/internal/sample"
	httputil "github.com/jmylchreest/palettesample/internal/util/http"
)

// Environment variables read by WithEnvConfig.
const (
	EnvViewport  = "PALETTESAMPLE_VIEWPORT"
	EnvAlgorithm = "PALETTESAMPLE_ALGORITHM"
	EnvColours   = "PALETTESAMPLE_COLOURS"
	EnvLogLevel  = "PALETTESAMPLE_LOG_LEVEL"

	EnvFetchTimeout = "PALETTESAMPLE_FETCH_TIMEOUT"
)

// DefaultViewport is the destination area used when none is configured.
var DefaultViewport = sample.Dimensions{Width: 1080, Height: 1920}

// Config holds settings shared by every command.
type Config struct {
	Viewport  sample.Dimensions
	Algorithm colour.Algorithm
	Colours   int
	LogLevel  string
	NoColour  bool
	Verbose   bool
	Quiet     bool

	// FetchTimeout bounds URL downloads. Zero uses the HTTP default.
	FetchTimeout time.Duration
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Viewport:  DefaultViewport,
		Algorithm: colour.AlgorithmMedianCut,
		Colours:   colour.DefaultMaxColours,
		LogLevel:  "info",
	}
}

// WithEnvConfig overlays PALETTESAMPLE_* environment variables on c.
func (c Config) WithEnvConfig() (Config, error) {
	if v := os.Getenv(EnvViewport); v != "" {
		d, err := sample.ParseDimensions(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s: %w", EnvViewport, err)
		}
		c.Viewport = d
	}
	if v := os.Getenv(EnvAlgorithm); v != "" {
		c.Algorithm = colour.Algorithm(strings.ToLower(v))
	}
	if v := os.Getenv(EnvColours); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s: %w", EnvColours, err)
		}
		c.Colours = n
	}
	if v := os.Getenv(EnvFetchTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s: %w", EnvFetchTimeout, err)
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColour = true
	}
	return c, nil
}

// WithFlags overlays the flags that were explicitly set on c.
func (c Config) WithFlags(flags *pflag.FlagSet) (Config, error) {
	var err error
	if flags.Changed("viewport") {
		v, _ := flags.GetString("viewport")
		if c.Viewport, err = sample.ParseDimensions(v); err != nil {
			return c, fmt.Errorf("invalid --viewport: %w", err)
		}
	}
	if flags.Changed("algorithm") {
		v, _ := flags.GetString("algorithm")
		c.Algorithm = colour.Algorithm(strings.ToLower(v))
	}
	if flags.Changed("colours") {
		c.Colours, _ = flags.GetInt("colours")
	}
	if flags.Changed("no-colour") {
		c.NoColour, _ = flags.GetBool("no-colour")
	}
	c.Verbose, _ = flags.GetBool("verbose")
	c.Quiet, _ = flags.GetBool("quiet")
	return c, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %s", c.Viewport.String())
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative, got %s", c.FetchTimeout)
	}
	if c.Verbose && c.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return c.GeneratorConfig().Validate()
}

// GeneratorConfig returns the palette generator settings.
func (c Config) GeneratorConfig() colour.GeneratorConfig {
	cfg := colour.DefaultGeneratorConfig()
	cfg.Algorithm = c.Algorithm
	cfg.MaxColours = c.Colours
	return cfg
}

// FetchOptions returns the options used when downloading URL sources.
func (c Config) FetchOptions() httputil.FetchOptions {
	return httputil.FetchOptions{Timeout: c.FetchTimeout}
}

// Level returns the log level after applying --verbose and --quiet.
func (c Config) Level() hclog.Level {
	switch {
	case c.Verbose:
		return hclog.Debug
	case c.Quiet:
		return hclog.Error
	default:
		return hclog.LevelFromString(c.LogLevel)
	}
}

// NewLogger creates the root logger writing to w.
func (c Config) NewLogger(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "palettesample",
		Level:  c.Level(),
		Output: w,
		Color:  hclog.ColorOff,
	})
}
