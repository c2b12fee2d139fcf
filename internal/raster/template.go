package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrOutOfBounds reports a template rectangle that does not lie fully within
// the reference frame.
var ErrOutOfBounds = errors.New("template rectangle outside frame bounds")

// ExtractTemplate cuts the fixed match template out of a reference frame.
//
// The rectangle is given as a top-left origin plus width and height and must
// lie fully within the frame, otherwise ErrOutOfBounds is returned. The
// returned template is an independent copy; the source frame is not modified
// and may be discarded afterwards.
func ExtractTemplate(frame *image.Gray, originX, originY, width, height int) (*image.Gray, error) {
	if IsEmpty(frame) {
		return nil, fmt.Errorf("reference frame: %w", ErrEmptyFrame)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid template size %dx%d", width, height)
	}

	bounds := frame.Bounds()
	rect := image.Rect(originX, originY, originX+width, originY+height)
	if originX < bounds.Min.X || originY < bounds.Min.Y ||
		rect.Max.X > bounds.Max.X || rect.Max.Y > bounds.Max.Y {
		return nil, fmt.Errorf("%w: template (%d,%d)-(%d,%d), frame %dx%d",
			ErrOutOfBounds, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Dx(), bounds.Dy())
	}

	return ToGray(imaging.Crop(frame, rect)), nil
}
