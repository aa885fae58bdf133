// Package audio moves mono sample sequences in and out of WAV and FLAC files.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/mewkiz/flac"

	"github.com/neurlang/melpaint"
)

// ErrFileNotLoaded is returned when a file decodes to no samples.
var ErrFileNotLoaded = errors.New("audio: no samples loaded")

// Normalize divides samples by ten times their RMS value. Silence is
// returned unchanged.
func Normalize(samples []float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	var sum float64
	for _, x := range samples {
		sum += x * x
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		copy(out, samples)
		return out
	}
	for i, x := range samples {
		out[i] = x / rms / 10
	}
	return out
}

// monoStreamer plays samples on both channels of a beep stream.
func monoStreamer(samples []float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := 0
		for n < len(buf) && pos < len(samples) {
			buf[n][0] = samples[pos]
			buf[n][1] = samples[pos]
			n++
			pos++
		}
		return n, true
	})
}

// WriteWav encodes samples as mono PCM with 8, 16 or 24 bits per sample.
// Values outside [-1,1] are clipped.
func WriteWav(w io.WriteSeeker, samples []float64, sampleRate, bits int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("audio: sample rate %d: %w", sampleRate, melpaint.ErrInvalidParameter)
	}
	switch bits {
	case 8, 16, 24:
	default:
		return fmt.Errorf("audio: %d bits per sample: %w", bits, melpaint.ErrInvalidParameter)
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   bits / 8,
	}
	return wav.Encode(w, monoStreamer(samples), format)
}

// SaveWav writes samples to a WAV file.
func SaveWav(name string, samples []float64, sampleRate, bits int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := WriteWav(f, samples, sampleRate, bits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadWav decodes a WAV stream and returns its first channel and sample rate.
func ReadWav(r io.Reader) ([]float64, int, error) {
	stream, format, err := wav.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode wav: %w", err)
	}
	defer stream.Close()

	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, fmt.Errorf("audio: decode wav: %w", err)
	}
	if len(out) == 0 {
		return nil, 0, ErrFileNotLoaded
	}
	return out, int(format.SampleRate), nil
}

// LoadWav reads the first channel of a WAV file and its sample rate.
func LoadWav(name string) ([]float64, int, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadWav(f)
}

// LoadFlac reads the first channel of a FLAC file and its sample rate.
func LoadFlac(name string) ([]float64, int, error) {
	stream, err := flac.ParseFile(name)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open flac: %w", err)
	}
	defer stream.Close()

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("audio: decode flac: %w", err)
		}
		for _, s := range frame.Subframes[0].Samples {
			out = append(out, float64(s)/scale)
		}
	}
	if len(out) == 0 {
		return nil, 0, ErrFileNotLoaded
	}
	return out, int(stream.Info.SampleRate), nil
}
