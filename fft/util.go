package fft

// IsPowerOfTwo reports whether n is 1, 2, 4, 8 ...
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two that is >= n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ZeroPad returns a copy of x extended with zeros to the next power of two.
func ZeroPad(x []float64) []float64 {
	out := make([]float64, NextPowerOfTwo(len(x)))
	copy(out, x)
	return out
}

// BinFrequency is the frequency in Hz of bin k of an n-point transform of a
// signal sampled at sampleRate.
func BinFrequency(k, n int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(n)
}
