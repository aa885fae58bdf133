package phase

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/neurlang/melpaint"
	"github.com/neurlang/melpaint/stft"
)

// Rand is the source of the initial random phases. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// checkTarget returns the bin count of target, which must be frameSize/2+1
// (one-sided) or frameSize for every frame.
func checkTarget(target [][]float64, frameSize int) (int, error) {
	bins := len(target[0])
	if bins != frameSize/2+1 && bins != frameSize {
		return 0, fmt.Errorf("phase: %d bins for frame size %d, want %d or %d: %w",
			bins, frameSize, frameSize/2+1, frameSize, melpaint.ErrDimensionMismatch)
	}
	for i, frame := range target {
		if len(frame) != bins {
			return 0, fmt.Errorf("phase: frame %d has %d bins, frame 0 has %d: %w",
				i, len(frame), bins, melpaint.ErrDimensionMismatch)
		}
	}
	return bins, nil
}

// GriffinLim estimates a signal whose STFT magnitude approximates target.
// Each frame of target holds frameSize/2+1 or frameSize magnitudes.
func GriffinLim(target [][]float64, frameSize, hop, iterations int, rng Rand) ([]float64, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("phase: %d iterations: %w", iterations, melpaint.ErrInvalidParameter)
	}
	if len(target) == 0 {
		return []float64{}, nil
	}
	bins, err := checkTarget(target, frameSize)
	if err != nil {
		return nil, err
	}

	spectrogram := make([][]complex128, len(target))
	for i, frame := range target {
		s := make([]complex128, bins)
		for j, mag := range frame {
			angle := rng.Float64()*2*math.Pi - math.Pi
			s[j] = cmplx.Rect(mag, angle)
		}
		spectrogram[i] = s
	}

	for iter := 0; iter < iterations; iter++ {
		signal, err := stft.ISTFT(spectrogram, hop, frameSize)
		if err != nil {
			return nil, err
		}
		estimate, err := stft.STFT(signal, frameSize, hop)
		if err != nil {
			return nil, err
		}
		if len(estimate) != len(target) {
			return nil, fmt.Errorf("phase: round trip gave %d frames, want %d: %w",
				len(estimate), len(target), melpaint.ErrDimensionMismatch)
		}

		next := make([][]complex128, len(target))
		for i, frame := range target {
			s := make([]complex128, bins)
			for j, mag := range frame {
				bin := estimate[i][j]
				s[j] = cmplx.Rect(mag, math.Atan2(imag(bin), real(bin)))
			}
			next[i] = s
		}
		spectrogram = next
	}

	return stft.ISTFT(spectrogram, hop, frameSize)
}

// SpectralError is the mean absolute difference between the STFT magnitude
// of signal and target, over the bins target holds. Frames missing from the
// signal count as zero magnitude.
func SpectralError(signal []float64, target [][]float64, frameSize, hop int) (float64, error) {
	if len(target) == 0 {
		return 0, nil
	}
	bins, err := checkTarget(target, frameSize)
	if err != nil {
		return 0, err
	}
	spec, err := stft.STFT(signal, frameSize, hop)
	if err != nil {
		return 0, err
	}
	mag, err := stft.Magnitude(spec, bins)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i, frame := range target {
		for j, want := range frame {
			var got float64
			if i < len(mag) {
				got = mag[i][j]
			}
			sum += math.Abs(got - want)
		}
	}
	return sum / float64(len(target)*bins), nil
}
