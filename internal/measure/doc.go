// Package measure implements the per-frame measurement primitives of the
// displacement pipeline: normalized cross-correlation template matching,
// pixel-shift estimation, the pixel-to-millimeter calibration transform, and
// the Mean Intensity Gradient sharpness score.
//
// All functions in this package are stateless and operate on in-memory
// grayscale rasters, so they can be called concurrently and exercised from
// tests with synthetic images. No I/O happens here.
//
// # Sign Convention
//
// Pixel shifts are measured from the frame center: a negative row shift means
// the template moved up, a positive one down; a negative column shift means
// left, a positive one right.
package measure
