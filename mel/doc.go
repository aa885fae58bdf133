// Package mel converts between the perceptual mel frequency scale and linear
// frequency bins.
//
// Two mel-to-linear paths are provided:
//   - MelToLinear warps the frequency axis by direct interpolation between
//     neighbouring mel bands. The synthesis pipeline uses this one.
//   - Filterbank builds triangular mel filters over FFT bins; its Inverse
//     maps mel frames back through the filterbank pseudo-inverse for callers
//     that want the exact least-squares inversion instead.
package mel
