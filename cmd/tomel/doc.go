// Command tomel converts a recording (WAV/FLAC) to a mel grid image.
//
// The grid uses the same orientation and log compression that towav expects,
// so it can be painted over in any image editor and rendered back.
//
// Usage:
//
//	tomel <audio_file> [flags]
//
// The output PNG file defaults to <audio_file>.png. With --f16 a raw
// half-precision grid is written next to it, keeping values the 8-bit image
// would clip or quantize.
package main
