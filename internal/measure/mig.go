package measure

import (
	"fmt"
	"image"
	"math"

	"github.com/photomet/decorr-metrics/internal/raster"
)

// Sobel first-derivative kernels used for the intensity gradient.
var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// MeanIntensityGradient computes the MIG sharpness score of a frame: the
// Sobel gradient magnitude sqrt(dx^2+dy^2) averaged over all pixels.
//
// A perfectly flat frame scores exactly 0; the score grows with edge content.
// Border pixels use replicated (clamped) edge values for the convolution.
//
// Returns raster.ErrEmptyFrame for a nil or zero-sized frame, so a failed
// frame can never be mistaken for a legitimately flat one.
func MeanIntensityGradient(frame *image.Gray) (float64, error) {
	if raster.IsEmpty(frame) {
		return 0, fmt.Errorf("sharpness frame: %w", raster.ErrEmptyFrame)
	}

	bounds := frame.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(frame.Pix[frame.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)])
	}

	var total float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var dx, dy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					dx += v * sobelX[ky+1][kx+1]
					dy += v * sobelY[ky+1][kx+1]
				}
			}
			total += math.Sqrt(dx*dx + dy*dy)
		}
	}

	return total / float64(width*height), nil
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
