// Package synth runs the drawing-to-waveform pipeline.
//
// A Synth holds every tunable of the pipeline. Render takes a grid of mel
// band intensities (outer index time, inner index band) and
//
//  1. resamples it to Width frames,
//  2. optionally expands it with exp(InputGain*x)-1,
//  3. maps it to FrameSize/2+1 linear bins (direct interpolation or the
//     filterbank pseudo-inverse, see Mapping),
//  4. multiplies in harmonic stacks,
//  5. optionally expands it again with exp(Contrast*x)-1,
//  6. recovers a waveform with Griffin-Lim.
//
// Analyze goes the other way and turns a recording into a grid that can be
// painted over.
package synth
