package fft

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"

	"github.com/neurlang/melpaint"
)

func randomSignal(rng *rand.Rand, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}
	return x
}

func TestTransform_Impulse(t *testing.T) {
	// DFT of a unit impulse is flat
	re := make([]float64, 8)
	im := make([]float64, 8)
	re[0] = 1
	if err := Transform(re, im); err != nil {
		t.Fatal(err)
	}
	for i := range re {
		if math.Abs(re[i]-1) > 1e-12 || math.Abs(im[i]) > 1e-12 {
			t.Errorf("X[%d] = %f%+fi, want 1+0i", i, re[i], im[i])
		}
	}
}

func TestTransform_Cosine(t *testing.T) {
	n := 16
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = math.Cos(2 * math.Pi * 3 * float64(i) / float64(n))
	}
	if err := Transform(re, im); err != nil {
		t.Fatal(err)
	}
	for k := 0; k < n; k++ {
		mag := math.Hypot(re[k], im[k])
		want := 0.0
		if k == 3 || k == n-3 {
			want = float64(n) / 2
		}
		if math.Abs(mag-want) > 1e-9 {
			t.Errorf("|X[%d]| = %f, want %f", k, mag, want)
		}
	}
}

func TestTransform_MatchesGoDSP(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 4, 32, 256, 1024} {
		x := randomSignal(rng, n)
		want := dspfft.FFTReal(x)

		re := append([]float64(nil), x...)
		im := make([]float64, n)
		if err := Transform(re, im); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		for k := range want {
			if cmplx.Abs(complex(re[k], im[k])-want[k]) > 1e-9 {
				t.Fatalf("n=%d: X[%d] = %v, want %v", n, k, complex(re[k], im[k]), want[k])
			}
		}
	}
}

func TestRecursiveMatchesIterative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{1, 8, 64, 512} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
		}
		got, err := Forward(x)
		if err != nil {
			t.Fatal(err)
		}
		want, err := Recursive(x)
		if err != nil {
			t.Fatal(err)
		}
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9 {
				t.Fatalf("n=%d: iterative[%d] = %v, recursive %v", n, k, got[k], want[k])
			}
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 1; n <= 2048; n *= 2 {
		x := randomSignal(rng, n)
		spec := make([]complex128, n)
		for i, v := range x {
			spec[i] = complex(v, 0)
		}
		spec, err := Forward(spec)
		if err != nil {
			t.Fatal(err)
		}
		y, err := Inverse(spec)
		if err != nil {
			t.Fatal(err)
		}
		for i := range x {
			if math.Abs(x[i]-y[i]) > 1e-9 {
				t.Fatalf("n=%d: y[%d] = %f, want %f", n, i, y[i], x[i])
			}
		}
	}
}

func TestInverseComplexRoundTrip(t *testing.T) {
	x := []complex128{1 + 2i, -1, 0.5i, 3 - 1i}
	spec, err := Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	y, err := InverseComplex(spec)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x {
		if cmplx.Abs(x[i]-y[i]) > 1e-12 {
			t.Errorf("y[%d] = %v, want %v", i, y[i], x[i])
		}
	}
}

func TestInputNotModified(t *testing.T) {
	x := []complex128{1, 2, 3, 4}
	if _, err := Forward(x); err != nil {
		t.Fatal(err)
	}
	if x[1] != 2 {
		t.Errorf("Forward modified its input: %v", x)
	}
}

func TestInvalidLength(t *testing.T) {
	for _, n := range []int{0, 3, 6, 100} {
		re := make([]float64, n)
		im := make([]float64, n)
		if err := Transform(re, im); !errors.Is(err, melpaint.ErrInvalidLength) {
			t.Errorf("Transform(len %d) error = %v, want ErrInvalidLength", n, err)
		}
		if _, err := Inverse(make([]complex128, n)); !errors.Is(err, melpaint.ErrInvalidLength) {
			t.Errorf("Inverse(len %d) error = %v, want ErrInvalidLength", n, err)
		}
		if _, err := Recursive(make([]complex128, n)); !errors.Is(err, melpaint.ErrInvalidLength) {
			t.Errorf("Recursive(len %d) error = %v, want ErrInvalidLength", n, err)
		}
	}
}

func TestMismatchedParts(t *testing.T) {
	err := Transform(make([]float64, 4), make([]float64, 8))
	if !errors.Is(err, melpaint.ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestPlanWrongSize(t *testing.T) {
	p, err := NewPlan(8)
	if err != nil {
		t.Fatal(err)
	}
	if p.Size() != 8 {
		t.Errorf("Size() = %d, want 8", p.Size())
	}
	if err := p.Transform(make([]float64, 4), make([]float64, 4)); !errors.Is(err, melpaint.ErrInvalidLength) {
		t.Errorf("error = %v, want ErrInvalidLength", err)
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		n    int
		pow  bool
		next int
	}{
		{0, false, 1},
		{1, true, 1},
		{2, true, 2},
		{3, false, 4},
		{500, false, 512},
		{512, true, 512},
	}
	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.pow {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.pow)
		}
		if got := NextPowerOfTwo(tt.n); got != tt.next {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.next)
		}
	}

	padded := ZeroPad([]float64{1, 2, 3})
	if len(padded) != 4 || padded[2] != 3 || padded[3] != 0 {
		t.Errorf("ZeroPad = %v, want [1 2 3 0]", padded)
	}

	if got := BinFrequency(16, 512, 16000); got != 500 {
		t.Errorf("BinFrequency = %f, want 500", got)
	}
}
