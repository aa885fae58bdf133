package mel

import (
	"errors"
	"math"
	"testing"

	"github.com/neurlang/melpaint"
	"github.com/neurlang/melpaint/matrix"
)

func TestHzToMel(t *testing.T) {
	// the scale is anchored so that 1000 Hz is about 1000 mel
	if got := HzToMel(1000); math.Abs(got-1000) > 0.1 {
		t.Errorf("HzToMel(1000) = %f, want ~1000", got)
	}
	if got := HzToMel(0); got != 0 {
		t.Errorf("HzToMel(0) = %f, want 0", got)
	}
}

func TestMelRoundTrip(t *testing.T) {
	for hz := 0.0; hz <= 22050; hz += 137.5 {
		if got := MelToHz(HzToMel(hz)); math.Abs(got-hz) > 1e-6 {
			t.Errorf("MelToHz(HzToMel(%f)) = %f", hz, got)
		}
	}
	for m := 0.0; m <= 4000; m += 33.3 {
		if got := HzToMel(MelToHz(m)); math.Abs(got-m) > 1e-6 {
			t.Errorf("HzToMel(MelToHz(%f)) = %f", m, got)
		}
	}
}

func TestMelToLinear_Zero(t *testing.T) {
	melSpec := make([][]float64, 50)
	for i := range melSpec {
		melSpec[i] = make([]float64, 80)
	}
	lin, err := MelToLinear(melSpec, 257, 6000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(lin) != 50 {
		t.Fatalf("got %d frames, want 50", len(lin))
	}
	for i, frame := range lin {
		if len(frame) != 257 {
			t.Fatalf("frame %d has %d bins, want 257", i, len(frame))
		}
		for j, v := range frame {
			if v != 0 {
				t.Fatalf("lin[%d][%d] = %f, want 0", i, j, v)
			}
		}
	}
}

func TestMelToLinear_Constant(t *testing.T) {
	nMels, height := 40, 257
	frame := make([]float64, nMels)
	for i := range frame {
		frame[i] = 0.75
	}
	lin, err := MelToLinear([][]float64{frame}, height, 6000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	for b, v := range lin[0] {
		freq := float64(b) / float64(height-1) * 8000
		switch {
		case freq < 5990 && math.Abs(v-0.75) > 1e-12:
			t.Errorf("bin %d (%.0f Hz) = %f, want 0.75", b, freq, v)
		case freq > 6010 && v != 0:
			t.Errorf("bin %d (%.0f Hz) = %f, want 0 above fmax", b, freq, v)
		}
	}
}

func TestMelToLinear_Interpolates(t *testing.T) {
	frame := []float64{0, 1, 2, 3}
	lin, err := MelToLinear([][]float64{frame}, 5, 4000, 8000)
	if err != nil {
		t.Fatal(err)
	}
	for b, v := range lin[0] {
		hz := float64(b) / 4 * 4000
		pos := HzToMel(hz) / HzToMel(4000) * 4
		want := pos
		if pos >= 3 {
			want = 3
		}
		if pos >= 4 {
			want = 0
		}
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("bin %d = %f, want %f", b, v, want)
		}
	}
}

func TestMelToLinear_Edges(t *testing.T) {
	out, err := MelToLinear(nil, 10, 6000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("got %d frames from empty input", len(out))
	}

	out, err = MelToLinear([][]float64{{4, 5}}, 1, 6000, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if len(out[0]) != 1 || out[0][0] != 4 {
		t.Errorf("single bin = %v, want [4]", out[0])
	}

	_, err = MelToLinear([][]float64{{1, 2}, {1}}, 10, 6000, 16000)
	if !errors.Is(err, melpaint.ErrDimensionMismatch) {
		t.Errorf("ragged: error = %v, want ErrDimensionMismatch", err)
	}
	_, err = MelToLinear([][]float64{{1}}, 0, 6000, 16000)
	if !errors.Is(err, melpaint.ErrInvalidParameter) {
		t.Errorf("height 0: error = %v, want ErrInvalidParameter", err)
	}
}

func TestFilterbank_Shape(t *testing.T) {
	fftSize, sr := 512, 16000.0
	fb, err := NewFilterbank(fftSize, sr, 40, 0, 8000)
	if err != nil {
		t.Fatal(err)
	}
	if len(fb.Weights) != 40 {
		t.Fatalf("got %d filters, want 40", len(fb.Weights))
	}
	binHz := sr / float64(fftSize)

	for i, row := range fb.Weights {
		if len(row) != fb.Bins() {
			t.Fatalf("filter %d has %d bins, want %d", i, len(row), fb.Bins())
		}
		var sum float64
		peak := 0
		for j, w := range row {
			if w < 0 || w > 1 {
				t.Errorf("filter %d bin %d = %f, outside [0,1]", i, j, w)
			}
			freq := float64(j) * binHz
			if (freq < fb.Lower[i] || freq > fb.Upper[i]) && w != 0 {
				t.Errorf("filter %d bin %d (%.1f Hz) = %f outside %.1f..%.1f Hz",
					i, j, freq, w, fb.Lower[i], fb.Upper[i])
			}
			if w > row[peak] {
				peak = j
			}
			sum += w
		}

		maxSum := (fb.Upper[i]-fb.Lower[i])/binHz/2 + 1
		if sum <= 0 || sum > maxSum {
			t.Errorf("filter %d sums to %f, want in (0, %f]", i, sum, maxSum)
		}

		center := fb.Center[i] / binHz
		if peak != int(math.Floor(center)) && peak != int(math.Ceil(center)) {
			t.Errorf("filter %d peaks at bin %d, center is bin %.2f", i, peak, center)
		}
	}
}

func TestFilterbank_PeakOnBin(t *testing.T) {
	// with a center exactly on a bin the weight there is 1
	fb, err := NewFilterbank(16, 16, 1, 0, MelToHz(2*HzToMel(4)))
	if err != nil {
		t.Fatal(err)
	}
	c := fb.Center[0]
	j := int(math.Round(c))
	if math.Abs(c-float64(j)) < 1e-9 && math.Abs(fb.Weights[0][j]-1) > 1e-9 {
		t.Errorf("weight at center bin %d = %f, want 1", j, fb.Weights[0][j])
	}
}

func TestFilterbank_Invalid(t *testing.T) {
	for _, args := range []struct {
		fft   int
		sr    float64
		mels  int
		lo, hi float64
	}{
		{0, 16000, 40, 0, 8000},
		{512, 16000, 0, 0, 8000},
		{512, 16000, 40, 8000, 8000},
		{512, 0, 40, 0, 8000},
	} {
		_, err := NewFilterbank(args.fft, args.sr, args.mels, args.lo, args.hi)
		if !errors.Is(err, melpaint.ErrInvalidParameter) {
			t.Errorf("%+v: error = %v, want ErrInvalidParameter", args, err)
		}
	}
}

func TestFilterbank_InverseRankDeficient(t *testing.T) {
	// below ~60 Hz the 80 bands are narrower than the 31.25 Hz bins
	fb, err := NewFilterbank(512, 16000, 80, 0, 6000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := matrix.PseudoInverse(fb.Weights); !errors.Is(err, melpaint.ErrSingularMatrix) {
		t.Fatalf("closed-form pseudo-inverse error = %v, want ErrSingularMatrix", err)
	}
	inv, err := fb.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	if len(inv.Matrix) != fb.Bins() || len(inv.Matrix[0]) != 80 {
		t.Fatalf("inverse is %dx%d, want %dx80", len(inv.Matrix), len(inv.Matrix[0]), fb.Bins())
	}

	// F * pinv * F == F
	fp, err := matrix.Multiply(fb.Weights, inv.Matrix)
	if err != nil {
		t.Fatal(err)
	}
	fpf, err := matrix.Multiply(fp, fb.Weights)
	if err != nil {
		t.Fatal(err)
	}
	for i := range fpf {
		for j := range fpf[i] {
			if math.Abs(fpf[i][j]-fb.Weights[i][j]) > 1e-8 {
				t.Fatalf("(F*pinv*F)[%d][%d] = %f, want %f", i, j, fpf[i][j], fb.Weights[i][j])
			}
		}
	}
}

func TestFilterbank_Inverse(t *testing.T) {
	fb, err := NewFilterbank(256, 16000, 20, 0, 8000)
	if err != nil {
		t.Fatal(err)
	}
	inv, err := fb.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	if len(inv.Matrix) != fb.Bins() || len(inv.Matrix[0]) != 20 {
		t.Fatalf("inverse is %dx%d, want %dx20", len(inv.Matrix), len(inv.Matrix[0]), fb.Bins())
	}

	prod, err := matrix.Multiply(fb.Weights, inv.Matrix)
	if err != nil {
		t.Fatal(err)
	}
	for i := range prod {
		for j := range prod[i] {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(prod[i][j]-want) > 1e-6 {
				t.Fatalf("(F*pinv)[%d][%d] = %f, want %f", i, j, prod[i][j], want)
			}
		}
	}

	melSpec := [][]float64{make([]float64, 20)}
	melSpec[0][5] = 1
	lin, err := inv.Spectrogram(melSpec)
	if err != nil {
		t.Fatal(err)
	}
	if len(lin[0]) != fb.Bins() {
		t.Fatalf("linear frame has %d bins, want %d", len(lin[0]), fb.Bins())
	}
	for j, v := range lin[0] {
		if v < 0 {
			t.Errorf("lin[%d] = %f, want non-negative", j, v)
		}
	}
}

func TestFilterbank_Apply(t *testing.T) {
	fb, err := NewFilterbank(256, 16000, 20, 0, 8000)
	if err != nil {
		t.Fatal(err)
	}
	flat := make([]float64, fb.Bins())
	for i := range flat {
		flat[i] = 1
	}
	out, err := fb.ApplySpectrogram([][]float64{flat})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out[0] {
		var want float64
		for _, w := range fb.Weights[i] {
			want += w
		}
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("band %d = %f, want %f", i, v, want)
		}
	}
	if _, err := fb.Apply([]float64{1, 2}); !errors.Is(err, melpaint.ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}
