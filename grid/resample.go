package grid

import (
	"fmt"
	"math"

	"github.com/neurlang/melpaint"
)

// Rand is the random source used for noise. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

func checkEqual(vectors [][]float64) error {
	if len(vectors) == 0 {
		return nil
	}
	n := len(vectors[0])
	for i, v := range vectors {
		if len(v) != n {
			return fmt.Errorf("grid: vector %d has %d values, vector 0 has %d: %w",
				i, len(v), n, melpaint.ErrDimensionMismatch)
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// InterpolateVectors resamples vectors to targetLength entries by linear
// interpolation along the sequence. The last entry is always a copy of the
// last input vector. Empty input gives empty output and a single vector is
// repeated.
func InterpolateVectors(vectors [][]float64, targetLength int) ([][]float64, error) {
	if err := checkEqual(vectors); err != nil {
		return nil, err
	}
	if len(vectors) == 0 || targetLength <= 0 {
		return [][]float64{}, nil
	}

	result := make([][]float64, targetLength)
	if len(vectors) == 1 || targetLength == 1 {
		for i := range result {
			result[i] = clone(vectors[0])
		}
		return result, nil
	}

	last := len(vectors) - 1
	step := float64(last) / float64(targetLength-1)
	for i := range result {
		pos := float64(i) * step
		index := int(math.Floor(pos))
		if index >= last {
			result[i] = clone(vectors[last])
			continue
		}
		fraction := pos - float64(index)
		cur, next := vectors[index], vectors[index+1]
		out := make([]float64, len(cur))
		for j, v := range cur {
			out[j] = v + fraction*(next[j]-v)
		}
		result[i] = out
	}
	return result, nil
}

// AddHarmonicStacks weights every value by a blend of a harmonic comb
// 2*sin(i/step*pi)^4 over the band index i and uniform noise in [0,0.4).
// The blend is exp(-i/decay) harmonic, so low bands are tonal and high bands
// noisy.
func AddHarmonicStacks(vectors [][]float64, step, decay float64, rng Rand) ([][]float64, error) {
	if step <= 0 || decay <= 0 {
		return nil, fmt.Errorf("grid: harmonic step %g, decay %g: %w", step, decay, melpaint.ErrInvalidParameter)
	}
	if err := checkEqual(vectors); err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return [][]float64{}, nil
	}

	n := len(vectors[0])
	harmonic := make([]float64, n)
	w0 := make([]float64, n)
	for i := range harmonic {
		harmonic[i] = 2 * math.Pow(math.Sin(float64(i)/step*math.Pi), 4)
		w0[i] = math.Exp(-float64(i) / decay)
	}

	out := make([][]float64, len(vectors))
	for k, v := range vectors {
		shaped := make([]float64, n)
		for i, x := range v {
			noise := rng.Float64() * 0.4
			shaped[i] = (w0[i]*harmonic[i] + (1-w0[i])*noise) * x
		}
		out[k] = shaped
	}
	return out, nil
}

// Expand returns exp(gain*x)-1 for every value.
func Expand(vectors [][]float64, gain float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		e := make([]float64, len(v))
		for j, x := range v {
			e[j] = math.Expm1(gain * x)
		}
		out[i] = e
	}
	return out
}

// Compress is the inverse of Expand: log(1+x)/gain.
func Compress(vectors [][]float64, gain float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		c := make([]float64, len(v))
		for j, x := range v {
			c[j] = math.Log1p(x) / gain
		}
		out[i] = c
	}
	return out
}

// Flip returns v in reverse order.
func Flip(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// Max returns the largest value in the grid, or 0 if all values are
// negative or the grid is empty.
func Max(vectors [][]float64) float64 {
	var m float64
	for _, v := range vectors {
		for _, x := range v {
			if x > m {
				m = x
			}
		}
	}
	return m
}
