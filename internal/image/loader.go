// Package image resolves image sources, reads their bounds and decodes them
// down-sampled for a destination viewport.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/palettesample/internal/assets"
	"github.com/jmylchreest/palettesample/internal/sample"
	httputil "github.com/jmylchreest/palettesample/internal/util/http"
)

// ErrNoImages is returned when a directory holds no supported image files.
var ErrNoImages = errors.New("no supported image files found")

// SourceKind identifies where image bytes come from.
type SourceKind int

const (
	// SourceDefault is the image bundled into the binary.
	SourceDefault SourceKind = iota
	// SourceFile is a file on the local filesystem.
	SourceFile
	// SourceURL is an HTTP(S) URL.
	SourceURL
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceURL:
		return "url"
	default:
		return "default"
	}
}

// Source is a resolved reference to an image.
type Source struct {
	Kind     SourceKind
	Location string
}

// DefaultSource returns the source for the bundled image.
func DefaultSource() Source {
	return Source{Kind: SourceDefault, Location: assets.DefaultImageName}
}

// String returns a human-readable description of the source.
func (s Source) String() string {
	return s.Kind.String() + ":" + s.Location
}

// IsDefault reports whether s refers to the bundled image.
func (s Source) IsDefault() bool {
	return s.Kind == SourceDefault
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ResolveSource turns a user-supplied path into a Source.
// An empty path resolves to the bundled image. A directory resolves to a
// randomly chosen image inside it. URLs are returned unchecked; they are
// fetched later.
func ResolveSource(path string) (Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultSource(), nil
	}

	if isURL(path) {
		return Source{Kind: SourceURL, Location: path}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, fmt.Errorf("image file or directory not found: %s", path)
		}
		return Source{}, fmt.Errorf("failed to access image path: %w", err)
	}

	if !info.IsDir() {
		return Source{Kind: SourceFile, Location: path}, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return Source{}, err
	}
	selected, err := SelectRandomImage(imageFiles)
	if err != nil {
		return Source{}, err
	}
	return Source{Kind: SourceFile, Location: selected}, nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages scans a directory and returns all valid image files.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("%w in directory: %s", ErrNoImages, dirPath)
	}

	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[idx.Int64()], nil
}

// DecodeBounds reports the dimensions and format of encoded image data
// without decoding its pixels.
func DecodeBounds(data []byte) (sample.Dimensions, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return sample.Dimensions{}, "", fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return sample.Dimensions{Width: cfg.Width, Height: cfg.Height}, format, nil
}

// DecodeSampled decodes data and reduces it by factor on both axes.
// Factors below 1 are treated as 1.
func DecodeSampled(data []byte, factor int) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return Downsample(img, factor), format, nil
}

// Loaded is the result of loading a source for a viewport.
type Loaded struct {
	Source Source
	Format string

	// Bounds are the true dimensions reported by the bounds-only decode.
	Bounds sample.Dimensions
	// Viewport is the destination area the factor was computed for.
	Viewport sample.Dimensions

	// RawFactor is the calculator's result before clamping.
	RawFactor int
	// Factor is the value actually applied by the decoder.
	Factor int

	Image image.Image
}

// Size returns the decoded image dimensions.
func (l *Loaded) Size() sample.Dimensions {
	b := l.Image.Bounds()
	return sample.Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Loader opens sources and decodes them for a viewport.
type Loader struct {
	fetch  httputil.FetchOptions
	logger hclog.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{logger: logger}
}

// WithFetchOptions sets the options used for URL sources.
func (l *Loader) WithFetchOptions(opts httputil.FetchOptions) *Loader {
	l.fetch = opts
	return l
}

// Open returns the encoded bytes for src.
func (l *Loader) Open(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind {
	case SourceDefault:
		return assets.DefaultImage(), nil
	case SourceURL:
		data, err := httputil.Fetch(ctx, src.Location, l.fetch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return data, nil
	case SourceFile:
		data, err := os.ReadFile(src.Location) // #nosec G304 - User-specified image path, intended to be read
		if err != nil {
			return nil, fmt.Errorf("failed to read image file: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %d", src.Kind)
	}
}

// Load opens src, reads its bounds, computes the sample factor for viewport
// and decodes the image at that factor.
func (l *Loader) Load(ctx context.Context, src Source, viewport sample.Dimensions) (*Loaded, error) {
	data, err := l.Open(ctx, src)
	if err != nil {
		return nil, err
	}

	bounds, format, err := DecodeBounds(data)
	if err != nil {
		return nil, err
	}

	raw, err := sample.Calculate(bounds, viewport)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate sample size: %w", err)
	}
	factor := sample.Clamp(raw)

	l.logger.Debug("decoding image",
		"source", src.String(),
		"format", format,
		"bounds", bounds.String(),
		"viewport", viewport.String(),
		"raw_factor", raw,
		"factor", factor)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := DecodeSampled(data, factor)
	if err != nil {
		return nil, err
	}

	return &Loaded{
		Source:    src,
		Format:    format,
		Bounds:    bounds,
		Viewport:  viewport,
		RawFactor: raw,
		Factor:    factor,
		Image:     img,
	}, nil
}
