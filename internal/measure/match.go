package measure

import (
	"fmt"
	"image"
	"math"

	"github.com/photomet/decorr-metrics/internal/raster"
)

// MatchResult holds the outcome of one template localization.
type MatchResult struct {
	// Loc is the top-left corner of the best-matching window in the frame.
	Loc image.Point

	// Score is the normalized cross-correlation score of that window,
	// in [0, 1].
	Score float64
}

// Displacement is the signed pixel shift of the template relative to the
// frame center, together with the match confidence.
type Displacement struct {
	// Loc is the top-left corner of the matched window.
	Loc image.Point

	// Confidence is the correlation score scaled to [0, 100].
	Confidence float64

	// ShiftRow is the vertical shift in pixels. Negative = upward motion,
	// positive = downward.
	ShiftRow int

	// ShiftCol is the horizontal shift in pixels. Negative = leftward motion,
	// positive = rightward.
	ShiftCol int
}

// MatchTemplate locates a template inside a frame by exhaustive normalized
// cross-correlation.
//
// For every candidate window W of template size inside the frame, the score is
//
//	score = sum(T*W) / sqrt(sum(T^2) * sum(W^2))
//
// which lies in [0, 1] for 8-bit rasters and is invariant to uniform
// intensity scaling of either input. The window with the highest score wins;
// when several windows share the maximum, the first one in row-major scan
// order is returned.
//
// Returns raster.ErrEmptyFrame for a nil or zero-sized frame.
func MatchTemplate(frame, tpl *image.Gray) (MatchResult, error) {
	if raster.IsEmpty(frame) {
		return MatchResult{}, fmt.Errorf("search frame: %w", raster.ErrEmptyFrame)
	}
	if raster.IsEmpty(tpl) {
		return MatchResult{}, fmt.Errorf("template: %w", raster.ErrEmptyFrame)
	}

	fb, tb := frame.Bounds(), tpl.Bounds()
	fw, fh := fb.Dx(), fb.Dy()
	tw, th := tb.Dx(), tb.Dy()
	if tw > fw || th > fh {
		return MatchResult{}, fmt.Errorf("template %dx%d larger than frame %dx%d", tw, th, fw, fh)
	}

	// Template norm. Intensities are 8-bit, so all sums fit in int64 and
	// stay exact until the final division.
	var tplSq int64
	tplPix := make([]int64, tw*th)
	for y := 0; y < th; y++ {
		row := tpl.Pix[tpl.PixOffset(tb.Min.X, tb.Min.Y+y):]
		for x := 0; x < tw; x++ {
			v := int64(row[x])
			tplPix[y*tw+x] = v
			tplSq += v * v
		}
	}

	// Integral image of squared frame intensities, one row/column larger than
	// the frame so window sums become four lookups.
	sq := make([]int64, (fw+1)*(fh+1))
	for y := 0; y < fh; y++ {
		row := frame.Pix[frame.PixOffset(fb.Min.X, fb.Min.Y+y):]
		var rowSum int64
		for x := 0; x < fw; x++ {
			v := int64(row[x])
			rowSum += v * v
			sq[(y+1)*(fw+1)+x+1] = sq[y*(fw+1)+x+1] + rowSum
		}
	}

	tplNorm := math.Sqrt(float64(tplSq))
	best := MatchResult{Score: -1}

	for y := 0; y+th <= fh; y++ {
		for x := 0; x+tw <= fw; x++ {
			var cross int64
			for ty := 0; ty < th; ty++ {
				row := frame.Pix[frame.PixOffset(fb.Min.X+x, fb.Min.Y+y+ty):]
				trow := tplPix[ty*tw:]
				for tx := 0; tx < tw; tx++ {
					cross += trow[tx] * int64(row[tx])
				}
			}

			winSq := sq[(y+th)*(fw+1)+x+tw] - sq[y*(fw+1)+x+tw] -
				sq[(y+th)*(fw+1)+x] + sq[y*(fw+1)+x]

			var score float64
			if denom := tplNorm * math.Sqrt(float64(winSq)); denom > 0 {
				score = float64(cross) / denom
				if score > 1 {
					// FP rounding can nudge an exact match past 1.
					score = 1
				}
			}

			if score > best.Score {
				best = MatchResult{Loc: image.Pt(x, y), Score: score}
			}
		}
	}

	return best, nil
}

// EstimateShift locates the template in a frame and converts the match
// location into a signed pixel shift relative to the frame center.
//
// frameWidth and frameHeight are the nominal sensor dimensions the shift is
// measured against. The center offsets use integer truncating division, so
// odd dimensions truncate toward zero:
//
//	shiftRow = (loc.y + templateHeight/2) - frameHeight/2
//	shiftCol = (loc.x + templateWidth/2) - frameWidth/2
func EstimateShift(frame, tpl *image.Gray, frameWidth, frameHeight int) (Displacement, error) {
	match, err := MatchTemplate(frame, tpl)
	if err != nil {
		return Displacement{}, err
	}

	tb := tpl.Bounds()
	return Displacement{
		Loc:        match.Loc,
		Confidence: match.Score * 100,
		ShiftRow:   (match.Loc.Y + tb.Dy()/2) - frameHeight/2,
		ShiftCol:   (match.Loc.X + tb.Dx()/2) - frameWidth/2,
	}, nil
}
