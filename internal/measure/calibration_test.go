package measure

import (
	"errors"
	"math"
	"testing"
)

// rigCalibration mirrors the deployed stage calibration.
var rigCalibration = Calibration{Txx: -256.75, Txy: 2.5, Tyx: 3.5, Tyy: 260.5}

func TestCalibration_Det(t *testing.T) {
	want := -256.75*260.5 - 2.5*3.5
	if got := rigCalibration.Det(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Det: got %v, want %v", got, want)
	}
}

func TestCalibration_Validate(t *testing.T) {
	if err := rigCalibration.Validate(); err != nil {
		t.Errorf("Validate on rig matrix: %v", err)
	}

	singular := Calibration{Txx: 1, Txy: 2, Tyx: 2, Tyy: 4}
	if err := singular.Validate(); !errors.Is(err, ErrSingularCalibration) {
		t.Errorf("Validate on singular matrix: got %v, want ErrSingularCalibration", err)
	}
}

func TestCalibration_TransformRoundTrip(t *testing.T) {
	shifts := []struct {
		row, col int
	}{
		{0, 0},
		{3, 5},
		{11, -7},
		{-42, 100},
		{-1, -1},
	}

	for _, s := range shifts {
		dx, dy, err := rigCalibration.Transform(s.row, s.col)
		if err != nil {
			t.Fatalf("Transform(%d,%d) failed: %v", s.row, s.col, err)
		}
		col, row := rigCalibration.Forward(dx, dy)
		if math.Abs(col-float64(s.col)) > 1e-9 || math.Abs(row-float64(s.row)) > 1e-9 {
			t.Errorf("round trip of (row %d, col %d): got (row %v, col %v)",
				s.row, s.col, row, col)
		}
	}
}

func TestCalibration_TransformSingular(t *testing.T) {
	singular := Calibration{Txx: 2, Txy: 4, Tyx: 1, Tyy: 2}
	_, _, err := singular.Transform(1, 1)
	if !errors.Is(err, ErrSingularCalibration) {
		t.Errorf("got %v, want ErrSingularCalibration", err)
	}
}

func TestCalibration_TransformValues(t *testing.T) {
	// Spot-check the inverse map against the closed form.
	det := rigCalibration.Det()
	dx, dy, err := rigCalibration.Transform(3, 5)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	wantX := (5*rigCalibration.Tyy - 3*rigCalibration.Txy) / det
	wantY := (3*rigCalibration.Txx - 5*rigCalibration.Tyx) / det
	if math.Abs(dx-wantX) > 1e-12 || math.Abs(dy-wantY) > 1e-12 {
		t.Errorf("Transform(3,5): got (%v,%v), want (%v,%v)", dx, dy, wantX, wantY)
	}
}
