// Package phase reconstructs a waveform from a magnitude-only spectrogram.
//
// GriffinLim starts from random phases and alternates ISTFT and STFT, keeping
// the phase of each round trip and restoring the target magnitudes. The fixed
// iteration count is the only stopping criterion.
package phase
