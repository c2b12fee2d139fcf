// Package pipeline drives the measurement run: it streams experiment units
// from the grid walker, processes each unit's frames in sequencer order, and
// writes one result table per unit.
//
// Units share no state (each owns its template and its table), so they are
// mapped across a bounded worker pool. A failure inside one unit abandons
// that unit and is reported at the end of the run; sibling units continue.
// Only a missing grid root or a singular calibration matrix aborts the whole
// run up front.
package pipeline
