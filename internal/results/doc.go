// Package results persists measurement records into one fixed-schema
// Results.csv per experiment unit, mirroring the input grid layout in the
// output tree.
package results
