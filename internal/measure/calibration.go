package measure

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularCalibration reports a calibration matrix with zero determinant,
// which cannot be inverted. This is a configuration defect and is fatal for
// the whole run.
var ErrSingularCalibration = errors.New("singular calibration matrix")

// Calibration is the fixed 2x2 affine map from physical stage displacement to
// pixel shift. It absorbs the skew between the stage axes and the sensor
// axes. Displacement measurement applies its inverse.
type Calibration struct {
	Txx float64 `toml:"txx"`
	Txy float64 `toml:"txy"`
	Tyx float64 `toml:"tyx"`
	Tyy float64 `toml:"tyy"`
}

// Det returns the determinant of the calibration matrix.
func (c Calibration) Det() float64 {
	return mat.Det(mat.NewDense(2, 2, []float64{c.Txx, c.Txy, c.Tyx, c.Tyy}))
}

// Validate checks that the matrix is invertible. It is called once at
// configuration load; Transform re-checks defensively on every call.
func (c Calibration) Validate() error {
	if c.Det() == 0 {
		return fmt.Errorf("%w: det(%g, %g, %g, %g) = 0", ErrSingularCalibration,
			c.Txx, c.Txy, c.Tyx, c.Tyy)
	}
	return nil
}

// Transform converts an integer pixel shift into physical displacement in
// millimeters by applying the inverse of the calibration matrix:
//
//	distX = (shiftCol*Tyy - shiftRow*Txy) / det
//	distY = (shiftRow*Txx - shiftCol*Tyx) / det
func (c Calibration) Transform(shiftRow, shiftCol int) (distXmm, distYmm float64, err error) {
	det := c.Det()
	if det == 0 {
		return 0, 0, ErrSingularCalibration
	}
	col := float64(shiftCol)
	row := float64(shiftRow)
	distXmm = (col*c.Tyy - row*c.Txy) / det
	distYmm = (row*c.Txx - col*c.Tyx) / det
	return distXmm, distYmm, nil
}

// Forward applies the calibration matrix itself, mapping a physical
// displacement back to a (column, row) pixel shift. It is the inverse of
// Transform and is used to verify calibration round-trips.
func (c Calibration) Forward(distXmm, distYmm float64) (col, row float64) {
	col = c.Txx*distXmm + c.Txy*distYmm
	row = c.Tyx*distXmm + c.Tyy*distYmm
	return col, row
}
