package stft

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/neurlang/melpaint"
	"github.com/neurlang/melpaint/fft"
)

// windowFloor is the smallest accumulated squared window that ISTFT divides by.
const windowFloor = 1e-6

// Hann returns the periodic Hann window 0.5*(1-cos(2*pi*i/n)).
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// FrameCount returns floor((signalLen-frameSize)/hop)+1, or 0 when the
// signal is shorter than one frame.
func FrameCount(signalLen, frameSize, hop int) int {
	if hop <= 0 {
		return 0
	}
	n := int(math.Floor(float64(signalLen-frameSize)/float64(hop))) + 1
	if n < 0 {
		return 0
	}
	return n
}

func check(frameSize, hop int) error {
	if !fft.IsPowerOfTwo(frameSize) {
		return fmt.Errorf("stft: frame size %d: %w", frameSize, melpaint.ErrInvalidLength)
	}
	if hop <= 0 {
		return fmt.Errorf("stft: hop %d: %w", hop, melpaint.ErrInvalidParameter)
	}
	return nil
}

// STFT returns the complex spectrogram of signal, one frameSize-bin frame
// per hop.
func STFT(signal []float64, frameSize, hop int) ([][]complex128, error) {
	if err := check(frameSize, hop); err != nil {
		return nil, err
	}
	plan, err := fft.NewPlan(frameSize)
	if err != nil {
		return nil, err
	}
	window := Hann(frameSize)

	numFrames := FrameCount(len(signal), frameSize, hop)
	spectrogram := make([][]complex128, numFrames)

	re := make([]float64, frameSize)
	im := make([]float64, frameSize)
	for i := range spectrogram {
		start := i * hop
		for j := 0; j < frameSize; j++ {
			re[j] = 0
			im[j] = 0
			if start+j < len(signal) {
				re[j] = signal[start+j] * window[j]
			}
		}
		if err := plan.Transform(re, im); err != nil {
			return nil, err
		}
		frame := make([]complex128, frameSize)
		for j := range frame {
			frame[j] = complex(re[j], im[j])
		}
		spectrogram[i] = frame
	}
	return spectrogram, nil
}

// ISTFT resynthesizes a signal of (numFrames-1)*hop+frameSize samples.
// Frames may hold all frameSize bins or only the frameSize/2+1 non-negative
// frequency bins, in which case the negative half is the complex conjugate.
func ISTFT(spectrogram [][]complex128, hop, frameSize int) ([]float64, error) {
	if err := check(frameSize, hop); err != nil {
		return nil, err
	}
	numFrames := len(spectrogram)
	if numFrames == 0 {
		return []float64{}, nil
	}
	plan, err := fft.NewPlan(frameSize)
	if err != nil {
		return nil, err
	}
	window := Hann(frameSize)

	outLen := (numFrames-1)*hop + frameSize
	out := make([]float64, outLen)
	windowSum := make([]float64, outLen)

	full := make([]complex128, frameSize)
	for i, frame := range spectrogram {
		if err := unfold(frame, full); err != nil {
			return nil, fmt.Errorf("stft: frame %d: %w", i, err)
		}
		samples, err := plan.Inverse(full)
		if err != nil {
			return nil, err
		}
		start := i * hop
		for j, w := range window {
			out[start+j] += samples[j] * w
			windowSum[start+j] += w * w
		}
	}

	for i := range out {
		if windowSum[i] > windowFloor {
			out[i] /= windowSum[i]
		}
	}
	return out, nil
}

// unfold writes frame into full, restoring the conjugate-symmetric half of a
// one-sided frame.
func unfold(frame, full []complex128) error {
	n := len(full)
	switch len(frame) {
	case n:
		copy(full, frame)
	case n/2 + 1:
		copy(full, frame)
		for k := 1; k < n/2; k++ {
			full[n-k] = cmplx.Conj(frame[k])
		}
	default:
		return fmt.Errorf("%d bins, want %d or %d: %w",
			len(frame), n, n/2+1, melpaint.ErrDimensionMismatch)
	}
	return nil
}

// Magnitude returns |X| of the first bins bins of every frame.
func Magnitude(spectrogram [][]complex128, bins int) ([][]float64, error) {
	out := make([][]float64, len(spectrogram))
	for i, frame := range spectrogram {
		if len(frame) < bins {
			return nil, fmt.Errorf("stft: frame %d has %d bins, want at least %d: %w",
				i, len(frame), bins, melpaint.ErrDimensionMismatch)
		}
		mag := make([]float64, bins)
		for j := range mag {
			mag[j] = cmplx.Abs(frame[j])
		}
		out[i] = mag
	}
	return out, nil
}
