// Command towav renders a painted mel grid to a WAV file.
//
// The grid is a grayscale image (PNG, GIF or JPEG) whose columns are time and
// whose rows are mel bands, highest band on top, or a raw .f16 grid written
// by tomel. Phase is recovered with Griffin-Lim.
//
// Usage:
//
//	towav <grid_file> [flags]
//
// The output WAV file defaults to <grid_file>.wav. Pipeline settings come from
// the defaults, then the optional --config YAML file, then flags.
package main
