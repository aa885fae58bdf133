package synth

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/neurlang/melpaint"
	"github.com/neurlang/melpaint/fft"
	"github.com/neurlang/melpaint/grid"
	"github.com/neurlang/melpaint/mel"
	"github.com/neurlang/melpaint/phase"
	"github.com/neurlang/melpaint/stft"
)

// Mel-to-linear mappings.
const (
	MappingInterpolate = "interpolate"
	MappingFilterbank  = "filterbank"
)

// Rand is the random source for phases and harmonic noise.
type Rand interface {
	Float64() float64
}

// Synth represents the configuration of the synthesis pipeline.
type Synth struct {
	FrameSize  int `yaml:"frame_size"`
	HopSize    int `yaml:"hop_size"`
	SampleRate int `yaml:"sample_rate"`

	MinFreq float64 `yaml:"min_freq"`
	MaxFreq float64 `yaml:"max_freq"`

	// Width is the number of frames the grid is resampled to; 0 keeps the
	// grid width.
	Width int `yaml:"width"`

	Iterations int `yaml:"iterations"`

	// HarmonicStep of 0 disables harmonic stacking.
	HarmonicStep  float64 `yaml:"harmonic_step"`
	HarmonicDecay float64 `yaml:"harmonic_decay"`

	// InputGain and Contrast are exp(g*x)-1 expansions applied to the grid
	// and to the harmonic spectrogram. 0 disables them.
	InputGain float64 `yaml:"input_gain"`
	Contrast  float64 `yaml:"contrast"`

	// Mapping is MappingInterpolate or MappingFilterbank. The filterbank
	// path spans MinFreq..MaxFreq, interpolation spans 0..MaxFreq.
	Mapping string `yaml:"mapping"`

	// NumMels is the grid height produced by Analyze.
	NumMels int `yaml:"num_mels"`

	// YReverse draws the highest band on the top row of grid images.
	YReverse bool `yaml:"y_reverse"`

	// Seed seeds the random source when Rand is nil.
	Seed int64 `yaml:"seed"`
	Rand Rand  `yaml:"-"`

	Log logrus.FieldLogger `yaml:"-"`
}

// New creates a new Synth with default values.
func New() *Synth {
	return &Synth{
		FrameSize:     512,
		HopSize:       64,
		SampleRate:    16000,
		MinFreq:       0,
		MaxFreq:       6000,
		Width:         500,
		Iterations:    5,
		HarmonicStep:  8,
		HarmonicDecay: 200,
		InputGain:     1,
		Contrast:      5,
		Mapping:       MappingInterpolate,
		NumMels:       80,
		YReverse:      true,
	}
}

// Validate checks the configuration.
func (s *Synth) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("synth: "+format+": %w", append(args, melpaint.ErrInvalidParameter)...)
	}
	switch {
	case !fft.IsPowerOfTwo(s.FrameSize):
		return fmt.Errorf("synth: frame size %d: %w", s.FrameSize, melpaint.ErrInvalidLength)
	case s.HopSize <= 0 || s.HopSize > s.FrameSize:
		return invalid("hop size %d for frame size %d", s.HopSize, s.FrameSize)
	case s.SampleRate <= 0:
		return invalid("sample rate %d", s.SampleRate)
	case s.MinFreq < 0 || s.MaxFreq <= s.MinFreq:
		return invalid("frequency range %g..%g Hz", s.MinFreq, s.MaxFreq)
	case s.Width < 0:
		return invalid("width %d", s.Width)
	case s.Iterations < 0:
		return invalid("%d iterations", s.Iterations)
	case s.HarmonicStep < 0 || (s.HarmonicStep > 0 && s.HarmonicDecay <= 0):
		return invalid("harmonic step %g, decay %g", s.HarmonicStep, s.HarmonicDecay)
	case s.InputGain < 0 || s.Contrast < 0:
		return invalid("input gain %g, contrast %g", s.InputGain, s.Contrast)
	case s.Mapping != MappingInterpolate && s.Mapping != MappingFilterbank:
		return invalid("mapping %q", s.Mapping)
	case s.NumMels <= 0:
		return invalid("%d mel bands", s.NumMels)
	}
	return nil
}

func (s *Synth) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

func (s *Synth) random() Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(s.Seed))
}

func (s *Synth) debugEnabled() bool {
	l, ok := s.logger().(interface{ IsLevelEnabled(logrus.Level) bool })
	return ok && l.IsLevelEnabled(logrus.DebugLevel)
}

// Result holds the output of every pipeline stage.
type Result struct {
	// Mel is the resampled (and expanded) grid.
	Mel [][]float64
	// Linear is Mel mapped to FrameSize/2+1 linear bins.
	Linear [][]float64
	// Harmonic is Linear with harmonic stacks.
	Harmonic [][]float64
	// Magnitude is the Griffin-Lim target, Harmonic after contrast.
	Magnitude [][]float64
	// Wave is the synthesized signal, not normalized.
	Wave []float64
}

// Render runs the full pipeline on a grid.
func (s *Synth) Render(vectors [][]float64) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log := s.logger()
	rng := s.random()
	res := &Result{}

	width := s.Width
	if width == 0 {
		width = len(vectors)
	}
	melSpec, err := grid.InterpolateVectors(vectors, width)
	if err != nil {
		return nil, err
	}
	if len(melSpec) == 0 {
		log.Debug("empty grid, nothing to render")
		res.Mel, res.Linear, res.Harmonic, res.Magnitude = melSpec, melSpec, melSpec, melSpec
		res.Wave = []float64{}
		return res, nil
	}
	if s.InputGain > 0 {
		melSpec = grid.Expand(melSpec, s.InputGain)
	}
	res.Mel = melSpec
	log.WithFields(logrus.Fields{
		"frames": len(melSpec),
		"bands":  len(melSpec[0]),
	}).Debug("resampled grid")

	res.Linear, err = s.toLinear(melSpec)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"mapping": s.Mapping,
		"bins":    s.FrameSize/2 + 1,
	}).Debug("mapped to linear frequency")

	res.Harmonic = res.Linear
	if s.HarmonicStep > 0 {
		res.Harmonic, err = grid.AddHarmonicStacks(res.Linear, s.HarmonicStep, s.HarmonicDecay, rng)
		if err != nil {
			return nil, err
		}
	}

	res.Magnitude = res.Harmonic
	if s.Contrast > 0 {
		res.Magnitude = grid.Expand(res.Harmonic, s.Contrast)
	}

	res.Wave, err = phase.GriffinLim(res.Magnitude, s.FrameSize, s.HopSize, s.Iterations, rng)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"samples":    len(res.Wave),
		"iterations": s.Iterations,
	}
	if s.debugEnabled() {
		if e, err := phase.SpectralError(res.Wave, res.Magnitude, s.FrameSize, s.HopSize); err == nil {
			fields["spectral_error"] = e
		}
	}
	log.WithFields(fields).Debug("reconstructed phase")

	return res, nil
}

// Compute runs the pipeline and returns only the waveform.
func (s *Synth) Compute(vectors [][]float64) ([]float64, error) {
	res, err := s.Render(vectors)
	if err != nil {
		return nil, err
	}
	return res.Wave, nil
}

func (s *Synth) toLinear(melSpec [][]float64) ([][]float64, error) {
	bins := s.FrameSize/2 + 1
	if s.Mapping == MappingInterpolate {
		return mel.MelToLinear(melSpec, bins, s.MaxFreq, float64(s.SampleRate))
	}
	fb, err := mel.NewFilterbank(s.FrameSize, float64(s.SampleRate), len(melSpec[0]), s.MinFreq, s.MaxFreq)
	if err != nil {
		return nil, err
	}
	inv, err := fb.Inverse()
	if err != nil {
		return nil, err
	}
	return inv.Spectrogram(melSpec)
}

// Analyze computes a NumMels-band grid of a recording: STFT magnitudes summed
// through the mel filterbank, then compressed with log(1+x)/InputGain so that
// Render's expansion undoes it. With InputGain 0 Render does not expand, and
// the band energies are returned uncompressed.
func (s *Synth) Analyze(signal []float64) ([][]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	spec, err := stft.STFT(signal, s.FrameSize, s.HopSize)
	if err != nil {
		return nil, err
	}
	mag, err := stft.Magnitude(spec, s.FrameSize/2+1)
	if err != nil {
		return nil, err
	}
	fb, err := mel.NewFilterbank(s.FrameSize, float64(s.SampleRate), s.NumMels, s.MinFreq, s.MaxFreq)
	if err != nil {
		return nil, err
	}
	melSpec, err := fb.ApplySpectrogram(mag)
	if err != nil {
		return nil, err
	}

	s.logger().WithFields(logrus.Fields{
		"samples": len(signal),
		"frames":  len(melSpec),
		"bands":   s.NumMels,
	}).Debug("analyzed signal")
	if s.InputGain == 0 {
		return melSpec, nil
	}
	return grid.Compress(melSpec, s.InputGain), nil
}
