package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
)

// ErrEmptyFrame reports a frame raster that is nil, zero-sized, or could not
// be decoded. It is a distinct error value so that callers can tell a failed
// frame apart from any legitimate measurement result.
var ErrEmptyFrame = errors.New("empty or undecodable frame")

// LoadGray reads an image file and returns it as a grayscale raster.
//
// Color images are converted to 8-bit grayscale using the standard luminance
// weights. The returned raster always has bounds anchored at (0,0).
//
// A file that cannot be decoded as PNG, JPEG, or GIF yields ErrEmptyFrame,
// as does an image with zero area.
func LoadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFrame, path)
	}

	gray := ToGray(img)
	if IsEmpty(gray) {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFrame, path)
	}
	return gray, nil
}

// ToGray converts any image to an 8-bit grayscale raster with bounds anchored
// at (0,0). The source image is not modified. If the source is already a
// zero-anchored *image.Gray, an independent copy is still returned.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// IsEmpty reports whether a raster is nil or has zero area.
func IsEmpty(img *image.Gray) bool {
	return img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0
}
