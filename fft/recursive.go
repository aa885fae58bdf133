package fft

import (
	"fmt"
	"math"

	"github.com/neurlang/melpaint"
)

// Recursive computes the DFT by splitting x into even and odd samples and
// combining the halves with twiddle factors. Recursion depth is log2(N); it
// exists as a reference for the iterative transform, not for production use.
func Recursive(x []complex128) ([]complex128, error) {
	if !IsPowerOfTwo(len(x)) {
		return nil, fmt.Errorf("fft: recursive transform of %d values: %w",
			len(x), melpaint.ErrInvalidLength)
	}
	return recursive(x), nil
}

func recursive(x []complex128) []complex128 {
	n := len(x)
	if n == 1 {
		return []complex128{x[0]}
	}

	half := n / 2
	even := make([]complex128, half)
	odd := make([]complex128, half)
	for i := 0; i < half; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}
	e := recursive(even)
	o := recursive(odd)

	out := make([]complex128, n)
	for k := 0; k < half; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		t := complex(math.Cos(angle), math.Sin(angle)) * o[k]
		out[k] = e[k] + t
		out[k+half] = e[k] - t
	}
	return out
}
