package grid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/x448/float16"
)

// f16Magic starts every raw half-precision grid file.
var f16Magic = [4]byte{'M', 'P', 'F', '1'}

// maxF16Dim bounds the header dimensions accepted by ReadF16.
const maxF16Dim = 1 << 20

// ErrNotF16 is returned by ReadF16 for data without the grid header.
var ErrNotF16 = errors.New("grid: not a half-precision grid")

// WriteF16 stores a grid as a little-endian header (magic, width, height)
// followed by width*height IEEE 754 half-precision values, one vector after
// another.
func WriteF16(w io.Writer, vectors [][]float64) error {
	if err := checkEqual(vectors); err != nil {
		return err
	}
	var height int
	if len(vectors) > 0 {
		height = len(vectors[0])
	}

	header := make([]byte, 12)
	copy(header, f16Magic[:])
	binary.LittleEndian.PutUint32(header[4:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(header[8:], uint32(height))
	if _, err := w.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 2*height)
	for _, v := range vectors {
		for i, x := range v {
			binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(float32(x)).Bits())
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ReadF16 reads a grid written by WriteF16.
func ReadF16(r io.Reader) ([][]float64, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("grid: read header: %w", err)
	}
	if [4]byte(header[:4]) != f16Magic {
		return nil, ErrNotF16
	}
	width := binary.LittleEndian.Uint32(header[4:])
	height := binary.LittleEndian.Uint32(header[8:])
	if width > maxF16Dim || height > maxF16Dim {
		return nil, fmt.Errorf("grid: %dx%d header: %w", width, height, ErrNotF16)
	}

	out := make([][]float64, width)
	buf := make([]byte, 2*height)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("grid: read vector %d: %w", i, err)
		}
		v := make([]float64, height)
		for j := range v {
			v[j] = float64(float16.Frombits(binary.LittleEndian.Uint16(buf[2*j:])).Float32())
		}
		out[i] = v
	}
	return out, nil
}

// SaveF16 writes a grid to a file.
func SaveF16(name string, vectors [][]float64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := WriteF16(f, vectors); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadF16 reads a grid from a file.
func LoadF16(name string) ([][]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadF16(f)
}
