// Package stft provides frame-based spectral analysis and synthesis.
//
// STFT slides a periodic Hann window over a signal and transforms each frame
// with the radix-2 kernel from package fft. ISTFT inverts every frame, applies
// the same window again and overlap-adds, dividing by the accumulated squared
// window so that STFT followed by ISTFT reproduces the input.
package stft
