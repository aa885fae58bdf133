// Package fft implements the radix-2 Cooley-Tukey Fast Fourier Transform.
//
// The production transform is iterative: a bit-reversal permutation followed
// by butterfly stages of size 2, 4, 8 ... N. A Plan holds the permutation and
// twiddle tables for one size and can be reused across frames by a single
// caller. A recursive even/odd formulation is kept as a reference.
//
// All lengths must be exact powers of two; anything else fails with
// melpaint.ErrInvalidLength rather than being padded or truncated.
package fft
