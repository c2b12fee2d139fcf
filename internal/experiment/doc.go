// Package experiment discovers the three-level calibration grid
// (gain → movement → exposure) on disk and orders the frames of each leaf
// into a deterministic processing sequence.
//
// Discovery is decoupled from processing: Walk yields one Unit per leaf
// directory as it is found, in filesystem enumeration order, so units can be
// fanned out to workers without buffering the whole grid.
package experiment
