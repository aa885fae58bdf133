// Package melpaint turns hand-drawn mel-scale intensity grids into audio.
//
// The work is split across small packages, leaf to root:
//   - fft: radix-2 FFT and inverse FFT
//   - stft: Hann-windowed STFT and weighted overlap-add ISTFT
//   - matrix: dense transpose, multiply, inverse and pseudo-inverse
//   - mel: Hz/mel conversion, mel-to-linear warping and triangular filterbanks
//   - grid: resampling, harmonic stacks and grid image I/O
//   - phase: Griffin-Lim phase reconstruction
//   - synth: the full drawing-to-waveform pipeline
//
// This package only holds the error values shared by all of them.
package melpaint
