package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	// decoders for grids painted in other formats
	_ "image/gif"
	_ "image/jpeg"
)

// ErrEmptyImage is returned when an image has no pixels.
var ErrEmptyImage = errors.New("grid: empty image")

// DecodeImage reads a grid from an image. Column x is time step x, and the
// luminance of each pixel becomes a value in [0,1]. With reverse set the top
// row is the highest band, the way spectrograms are usually drawn.
func DecodeImage(r io.Reader, reverse bool) ([][]float64, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("grid: decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	out := make([][]float64, b.Dx())
	for x := range out {
		col := make([]float64, b.Dy())
		for y := range col {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			band := y
			if reverse {
				band = b.Dy() - y - 1
			}
			col[band] = float64(g.Y) / 0xffff
		}
		out[x] = col
	}
	return out, nil
}

// LoadImage reads a grid from an image file.
func LoadImage(name string, reverse bool) ([][]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImage(f, reverse)
}

// EncodePNG writes the grid as a grayscale PNG scaled so that the largest
// value is white.
func EncodePNG(w io.Writer, vectors [][]float64, reverse bool) error {
	if err := checkEqual(vectors); err != nil {
		return err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return ErrEmptyImage
	}
	width, height := len(vectors), len(vectors[0])

	scale := 0.0
	if m := Max(vectors); m > 0 {
		scale = 255 / m
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for x, col := range vectors {
		for band, v := range col {
			y := band
			if reverse {
				y = height - band - 1
			}
			level := v * scale
			if level < 0 {
				level = 0
			}
			img.SetGray(x, y, color.Gray{Y: uint8(level + 0.5)})
		}
	}
	return png.Encode(w, img)
}

// SavePNG writes the grid to a PNG file.
func SavePNG(name string, vectors [][]float64, reverse bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, vectors, reverse); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
