// Package grid shapes the drawn intensity grid before spectral mapping.
//
// A grid is a sequence of equal-length vectors: the outer index is time, the
// inner index a frequency band with 0 the lowest. The package resamples grids
// along time, multiplies in harmonic stacks, and reads and writes grids as
// PNG images or as raw half-precision files.
package grid
