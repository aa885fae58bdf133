package mel

import (
	"fmt"
	"math"

	"github.com/neurlang/melpaint"
)

// HzToMel converts a frequency in Hz to mels.
func HzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// MelToHz converts mels to a frequency in Hz.
func MelToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// MelToLinear resamples every mel frame onto targetHeight linear bins spread
// evenly from 0 Hz to sampleRate/2. Each linear bin is placed on the mel axis
// relative to fmax and read by linear interpolation between the two nearest
// mel bands. Bins that land above the last band read zero.
func MelToLinear(melSpectrogram [][]float64, targetHeight int, fmax, sampleRate float64) ([][]float64, error) {
	if targetHeight <= 0 {
		return nil, fmt.Errorf("mel: target height %d: %w", targetHeight, melpaint.ErrInvalidParameter)
	}
	if fmax <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("mel: fmax %g, sample rate %g: %w", fmax, sampleRate, melpaint.ErrInvalidParameter)
	}
	if len(melSpectrogram) == 0 {
		return [][]float64{}, nil
	}
	nMels := len(melSpectrogram[0])
	for i, frame := range melSpectrogram {
		if len(frame) != nMels {
			return nil, fmt.Errorf("mel: frame %d has %d bands, frame 0 has %d: %w",
				i, len(frame), nMels, melpaint.ErrDimensionMismatch)
		}
	}

	// the band position of each linear bin is the same for every frame
	lower := make([]int, targetHeight)
	upper := make([]int, targetHeight)
	fraction := make([]float64, targetHeight)
	melMax := HzToMel(fmax)
	for b := 0; b < targetHeight; b++ {
		var normalized float64
		if targetHeight > 1 {
			normalized = float64(b) / float64(targetHeight-1)
		}
		position := HzToMel(normalized*sampleRate/2) / melMax * float64(nMels)
		lo := int(math.Floor(position))
		hi := int(math.Ceil(position))
		if hi > nMels-1 {
			hi = nMels - 1
		}
		lower[b] = lo
		upper[b] = hi
		fraction[b] = position - float64(lo)
	}

	out := make([][]float64, len(melSpectrogram))
	for i, frame := range melSpectrogram {
		linear := make([]float64, targetHeight)
		for b := range linear {
			lo, hi := lower[b], upper[b]
			if lo < 0 || lo >= nMels {
				continue
			}
			if lo == hi {
				linear[b] = frame[lo]
			} else {
				linear[b] = (1-fraction[b])*frame[lo] + fraction[b]*frame[hi]
			}
		}
		out[i] = linear
	}
	return out, nil
}
