package experiment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingRoot reports that the experiment root directory does not exist.
// This is fatal for the whole run.
var ErrMissingRoot = errors.New("experiment root does not exist")

// Unit describes one leaf of the experiment grid: a single
// gain/movement/exposure combination and the frames recorded for it.
//
// Frames holds base filenames in enumeration order; use OrderFrames to bring
// them into processing order.
type Unit struct {
	GainLabel string
	MoveLabel string
	ExpLabel  string

	// Dir is the absolute or root-relative path of the leaf directory.
	Dir string

	// Frames are the base filenames of the images inside Dir.
	Frames []string
}

// Rel returns the unit's position in the grid as a relative path,
// e.g. "Gain_1/Move_2/Exp_1". The output tree mirrors this layout.
func (u Unit) Rel() string {
	return filepath.Join(u.GainLabel, u.MoveLabel, u.ExpLabel)
}

// Walk enumerates the three-level experiment grid under root and calls fn
// once per leaf directory. Intermediate entries that are not directories are
// skipped; leaf entries that are directories are ignored when collecting
// frames.
//
// Walk returns ErrMissingRoot if root does not exist. If fn returns an error,
// enumeration stops and that error is returned.
func Walk(root string, fn func(Unit) error) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingRoot, root)
	}

	gains, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read root %s: %w", root, err)
	}

	for _, gain := range gains {
		if !gain.IsDir() {
			continue
		}
		gainDir := filepath.Join(root, gain.Name())
		moves, err := os.ReadDir(gainDir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", gainDir, err)
		}

		for _, move := range moves {
			if !move.IsDir() {
				continue
			}
			moveDir := filepath.Join(gainDir, move.Name())
			exps, err := os.ReadDir(moveDir)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", moveDir, err)
			}

			for _, exp := range exps {
				if !exp.IsDir() {
					continue
				}
				expDir := filepath.Join(moveDir, exp.Name())
				entries, err := os.ReadDir(expDir)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", expDir, err)
				}

				unit := Unit{
					GainLabel: gain.Name(),
					MoveLabel: move.Name(),
					ExpLabel:  exp.Name(),
					Dir:       expDir,
				}
				for _, entry := range entries {
					if entry.IsDir() {
						continue
					}
					unit.Frames = append(unit.Frames, entry.Name())
				}

				if err := fn(unit); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Discover collects every unit under root into a slice. It is a convenience
// wrapper around Walk for callers that do not need streaming discovery.
func Discover(root string) ([]Unit, error) {
	var units []Unit
	err := Walk(root, func(u Unit) error {
		units = append(units, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}
