package fft

import (
	"fmt"
	"math"

	"github.com/neurlang/melpaint"
)

// Plan holds the bit-reversal permutation and per-stage twiddle factors for
// one transform size. A Plan is read-only after NewPlan and may be shared,
// but the buffers passed to Transform belong to the caller.
type Plan struct {
	n    int
	perm []int
	twRe [][]float64
	twIm [][]float64
}

// NewPlan precomputes the tables for an n-point transform.
func NewPlan(n int) (*Plan, error) {
	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("fft: plan of size %d: %w", n, melpaint.ErrInvalidLength)
	}
	bits := log2(n)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = bitReverse(i, bits)
	}

	var twRe, twIm [][]float64
	for size := 2; size <= n; size *= 2 {
		half := size / 2
		re := make([]float64, half)
		im := make([]float64, half)
		angle := -2 * math.Pi / float64(size)
		for j := 0; j < half; j++ {
			re[j] = math.Cos(angle * float64(j))
			im[j] = math.Sin(angle * float64(j))
		}
		twRe = append(twRe, re)
		twIm = append(twIm, im)
	}

	return &Plan{n: n, perm: perm, twRe: twRe, twIm: twIm}, nil
}

// Size returns the transform length of the plan.
func (p *Plan) Size() int {
	return p.n
}

// Transform replaces re and im with their discrete Fourier transform.
func (p *Plan) Transform(re, im []float64) error {
	if len(re) != len(im) {
		return fmt.Errorf("fft: real part has %d values, imaginary part %d: %w",
			len(re), len(im), melpaint.ErrDimensionMismatch)
	}
	if len(re) != p.n {
		return fmt.Errorf("fft: %d-point plan used on %d values: %w",
			p.n, len(re), melpaint.ErrInvalidLength)
	}
	n := p.n

	for i := 0; i < n; i++ {
		j := p.perm[i]
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for stage, size := 0, 2; size <= n; stage, size = stage+1, size*2 {
		half := size / 2
		wr := p.twRe[stage]
		wi := p.twIm[stage]
		for start := 0; start < n; start += size {
			for j := 0; j < half; j++ {
				k := start + j
				l := k + half
				tr := re[l]*wr[j] - im[l]*wi[j]
				ti := re[l]*wi[j] + im[l]*wr[j]
				re[l] = re[k] - tr
				im[l] = im[k] - ti
				re[k] += tr
				im[k] += ti
			}
		}
	}
	return nil
}

// Transform computes the forward DFT of (re, im) in place.
func Transform(re, im []float64) error {
	if len(re) != len(im) {
		return fmt.Errorf("fft: real part has %d values, imaginary part %d: %w",
			len(re), len(im), melpaint.ErrDimensionMismatch)
	}
	p, err := NewPlan(len(re))
	if err != nil {
		return err
	}
	return p.Transform(re, im)
}

// Forward returns the DFT of x without modifying it.
func Forward(x []complex128) ([]complex128, error) {
	p, err := NewPlan(len(x))
	if err != nil {
		return nil, err
	}
	return p.Forward(x)
}

// Forward returns the DFT of x without modifying it.
func (p *Plan) Forward(x []complex128) ([]complex128, error) {
	re, im := split(x)
	if err := p.Transform(re, im); err != nil {
		return nil, err
	}
	return join(re, im), nil
}

// Inverse recovers a real signal from its spectrum: conjugate, forward
// transform, conjugate again and scale by 1/N. Imaginary residue is dropped.
func Inverse(spec []complex128) ([]float64, error) {
	p, err := NewPlan(len(spec))
	if err != nil {
		return nil, err
	}
	return p.Inverse(spec)
}

// Inverse is the plan-reusing form of the package level Inverse.
func (p *Plan) Inverse(spec []complex128) ([]float64, error) {
	re, _, err := p.inverse(spec)
	if err != nil {
		return nil, err
	}
	return re, nil
}

// InverseComplex is Inverse keeping the imaginary parts of the result.
func InverseComplex(spec []complex128) ([]complex128, error) {
	p, err := NewPlan(len(spec))
	if err != nil {
		return nil, err
	}
	re, im, err := p.inverse(spec)
	if err != nil {
		return nil, err
	}
	return join(re, im), nil
}

func (p *Plan) inverse(spec []complex128) ([]float64, []float64, error) {
	re, im := split(spec)
	for i := range im {
		im[i] = -im[i]
	}
	if err := p.Transform(re, im); err != nil {
		return nil, nil, err
	}
	scale := 1 / float64(len(spec))
	for i := range re {
		re[i] *= scale
		im[i] = -im[i] * scale
	}
	return re, im, nil
}

func split(x []complex128) ([]float64, []float64) {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i] = real(v)
		im[i] = imag(v)
	}
	return re, im
}

func join(re, im []float64) []complex128 {
	out := make([]complex128, len(re))
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out
}

func bitReverse(x, bits int) int {
	var y int
	for i := 0; i < bits; i++ {
		y = (y << 1) | (x & 1)
		x >>= 1
	}
	return y
}

func log2(n int) int {
	bits := 0
	for v := n; v > 1; v >>= 1 {
		bits++
	}
	return bits
}
