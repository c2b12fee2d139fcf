// Package raster loads experiment frames as grayscale rasters and extracts
// the reference template used for displacement matching.
//
// All rasters handed out by this package are *image.Gray with bounds anchored
// at (0,0). Pixel intensities are 8-bit (0-255), matching the acquisition
// format of the calibration cameras.
//
// # Coordinate System
//
// Coordinates are 0-based with (0,0) at the top-left corner; X increases
// rightward and Y increases downward. Template geometry is expressed as a
// top-left origin plus width and height.
package raster
