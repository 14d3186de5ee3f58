// Package sample computes down-sampling factors for decoding images into a
// destination viewport.
package sample

import (
	"errors"
	"fmt"
)

// ErrInvalidDimension is returned when a dimension used as a divisor is zero
// or when any dimension is negative.
var ErrInvalidDimension = errors.New("invalid dimension")

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String returns the dimensions as "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Aspect returns width divided by height in single precision.
func (d Dimensions) Aspect() float32 {
	return float32(d.Width) / float32(d.Height)
}

// CalculateSampleSize returns the integer factor by which an image of
// srcWidth x srcHeight should be down-sampled to fill a dstWidth x dstHeight
// area without stretching.
//
// The constraining axis is chosen by comparing aspect ratios: a source that is
// relatively wider than the destination is constrained by width, otherwise by
// height. The result is the truncated integer quotient on that axis and may be
// 0 when the source is smaller than the destination. Callers must clamp it
// (see Clamp) before handing it to a decoder.
//
// srcHeight, dstWidth and dstHeight must be non-zero. Use Calculate for a
// checked variant.
func CalculateSampleSize(srcWidth, srcHeight, dstWidth, dstHeight int) int {
	src := Dimensions{Width: srcWidth, Height: srcHeight}
	dst := Dimensions{Width: dstWidth, Height: dstHeight}

	if src.Aspect() > dst.Aspect() {
		return srcWidth / dstWidth
	}
	return srcHeight / dstHeight
}

// Calculate validates src and dst and returns CalculateSampleSize for them.
func Calculate(src, dst Dimensions) (int, error) {
	if err := validate(src, dst); err != nil {
		return 0, err
	}
	return CalculateSampleSize(src.Width, src.Height, dst.Width, dst.Height), nil
}

func validate(src, dst Dimensions) error {
	switch {
	case src.Width < 0 || src.Height < 0:
		return fmt.Errorf("source %s: %w", src, ErrInvalidDimension)
	case dst.Width < 0 || dst.Height < 0:
		return fmt.Errorf("destination %s: %w", dst, ErrInvalidDimension)
	case src.Height == 0:
		return fmt.Errorf("source height is zero: %w", ErrInvalidDimension)
	case dst.Width == 0 || dst.Height == 0:
		return fmt.Errorf("destination %s has a zero side: %w", dst, ErrInvalidDimension)
	}
	return nil
}

// Clamp returns factor, raised to 1 when it is below 1. Decoders treat 1 as
// full resolution.
func Clamp(factor int) int {
	return max(factor, 1)
}

// ParseDimensions parses a "WxH" string such as "1080x1920".
func ParseDimensions(s string) (Dimensions, error) {
	var d Dimensions
	var rest string
	n, _ := fmt.Sscanf(s, "%dx%d%s", &d.Width, &d.Height, &rest)
	if n < 2 || rest != "" {
		return Dimensions{}, fmt.Errorf("invalid dimensions %q (expected WxH, e.g. 1080x1920)", s)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return Dimensions{}, fmt.Errorf("dimensions %q must be positive: %w", s, ErrInvalidDimension)
	}
	return d, nil
}
