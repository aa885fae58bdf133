package mel

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/melpaint"
	"github.com/neurlang/melpaint/matrix"
)

// Filterbank is a set of triangular filters, one per mel band, over the
// fftSize/2+1 non-negative frequency bins of an FFT.
type Filterbank struct {
	FFTSize    int
	SampleRate float64

	// Lower, Center and Upper are the band edges in Hz.
	Lower  []float64
	Center []float64
	Upper  []float64

	// Weights has one row per band and one column per FFT bin.
	Weights [][]float64
}

// NewFilterbank builds nMels triangular filters whose nMels+2 edges are
// equally spaced in mels between minFreq and maxFreq. Each filter rises from
// 0 at its lower edge to 1 at its center and falls back to 0 at its upper
// edge, evaluated at the bin frequencies i*sampleRate/fftSize.
func NewFilterbank(fftSize int, sampleRate float64, nMels int, minFreq, maxFreq float64) (*Filterbank, error) {
	if fftSize <= 0 || nMels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("mel: filterbank fft size %d, %d bands, sample rate %g: %w",
			fftSize, nMels, sampleRate, melpaint.ErrInvalidParameter)
	}
	if minFreq < 0 || maxFreq <= minFreq {
		return nil, fmt.Errorf("mel: filterbank range %g..%g Hz: %w",
			minFreq, maxFreq, melpaint.ErrInvalidParameter)
	}

	nBins := fftSize/2 + 1
	melMin := HzToMel(minFreq)
	melMax := HzToMel(maxFreq)

	edges := make([]float64, nMels+2)
	for i := range edges {
		edges[i] = MelToHz(melMin + (melMax-melMin)*float64(i)/float64(nMels+1))
	}

	fb := &Filterbank{
		FFTSize:    fftSize,
		SampleRate: sampleRate,
		Lower:      edges[:nMels],
		Center:     edges[1 : nMels+1],
		Upper:      edges[2:],
		Weights:    make([][]float64, nMels),
	}

	for i := 0; i < nMels; i++ {
		lo, mid, hi := edges[i], edges[i+1], edges[i+2]
		row := make([]float64, nBins)
		for j := range row {
			freq := float64(j) * sampleRate / float64(fftSize)
			switch {
			case freq >= lo && freq <= mid:
				row[j] = (freq - lo) / (mid - lo)
			case freq > mid && freq <= hi:
				row[j] = (hi - freq) / (hi - mid)
			}
		}
		fb.Weights[i] = row
	}
	return fb, nil
}

// Bins returns the number of FFT bins each filter spans.
func (fb *Filterbank) Bins() int {
	return fb.FFTSize/2 + 1
}

// Apply sums a linear magnitude frame through every filter.
func (fb *Filterbank) Apply(frame []float64) ([]float64, error) {
	return matrix.Apply(fb.Weights, frame)
}

// ApplySpectrogram maps every frame of a linear spectrogram to mel bands.
func (fb *Filterbank) ApplySpectrogram(spectrogram [][]float64) ([][]float64, error) {
	out := make([][]float64, len(spectrogram))
	for i, frame := range spectrogram {
		m, err := fb.Apply(frame)
		if err != nil {
			return nil, fmt.Errorf("mel: frame %d: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

// Inverse maps mel frames back to linear bins through the pseudo-inverse of
// a filterbank.
type Inverse struct {
	// Matrix has one row per FFT bin and one column per mel band.
	Matrix [][]float64
}

// Inverse computes the pseudo-inverse of the filterbank weights.
//
// When the lowest bands are narrower than the bin spacing several filters
// see the same single bin and the weights lose rank. The closed-form
// pseudo-inverse fails on those, so Inverse falls back to one built from the
// singular value decomposition.
func (fb *Filterbank) Inverse() (*Inverse, error) {
	p, err := matrix.PseudoInverse(fb.Weights)
	if errors.Is(err, melpaint.ErrSingularMatrix) {
		p, err = svdPseudoInverse(fb.Weights)
	}
	if err != nil {
		return nil, fmt.Errorf("mel: invert filterbank: %w", err)
	}
	return &Inverse{Matrix: p}, nil
}

// svdPseudoInverse returns V diag(1/s) Ut, dropping singular values below
// max(rows, cols) * s[0] * eps.
func svdPseudoInverse(m [][]float64) ([][]float64, error) {
	rows, cols := len(m), len(m[0])
	a := mat.NewDense(rows, cols, nil)
	for i, row := range m {
		a.SetRow(i, row)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("mel: svd of %dx%d weights did not converge: %w", rows, cols, melpaint.ErrSingularMatrix)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	const eps = 0x1p-52
	tol := float64(max(rows, cols)) * values[0] * eps
	out := make([][]float64, cols)
	for i := range out {
		out[i] = make([]float64, rows)
		for j := range out[i] {
			var sum float64
			for k, sv := range values {
				if sv <= tol {
					continue
				}
				sum += v.At(i, k) * u.At(j, k) / sv
			}
			out[i][j] = sum
		}
	}
	return out, nil
}

// Frame maps one mel frame to linear bins. Negative results are clamped to
// zero since the output is a magnitude.
func (inv *Inverse) Frame(frame []float64) ([]float64, error) {
	out, err := matrix.Apply(inv.Matrix, frame)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out, nil
}

// Spectrogram maps every frame of a mel spectrogram to linear bins.
func (inv *Inverse) Spectrogram(melSpectrogram [][]float64) ([][]float64, error) {
	out := make([][]float64, len(melSpectrogram))
	for i, frame := range melSpectrogram {
		lin, err := inv.Frame(frame)
		if err != nil {
			return nil, fmt.Errorf("mel: frame %d: %w", i, err)
		}
		out[i] = lin
	}
	return out, nil
}
