// Package matrix has the small dense linear algebra needed to invert a mel
// filterbank: transpose, multiply, Gauss-Jordan inverse and pseudo-inverse.
// Matrices are row-major [][]float64 and every function returns a new matrix.
package matrix

import (
	"fmt"
	"math"

	"github.com/neurlang/melpaint"
)

// pivotFloor is the smallest pivot magnitude Invert accepts.
const pivotFloor = 1e-12

// shape returns the row and column count of m, failing on ragged rows.
func shape(m [][]float64) (int, int, error) {
	if len(m) == 0 {
		return 0, 0, nil
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("matrix: row %d has %d columns, row 0 has %d: %w",
				i, len(row), cols, melpaint.ErrDimensionMismatch)
		}
	}
	return len(m), cols, nil
}

func zeros(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}

// Identity returns the n x n identity matrix.
func Identity(n int) [][]float64 {
	out := zeros(n, n)
	for i := range out {
		out[i][i] = 1
	}
	return out
}

// Transpose returns the transpose of m.
func Transpose(m [][]float64) ([][]float64, error) {
	rows, cols, err := shape(m)
	if err != nil {
		return nil, err
	}
	out := zeros(cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out, nil
}

// Multiply returns the product a*b.
func Multiply(a, b [][]float64) ([][]float64, error) {
	rowsA, colsA, err := shape(a)
	if err != nil {
		return nil, err
	}
	rowsB, colsB, err := shape(b)
	if err != nil {
		return nil, err
	}
	if colsA != rowsB {
		return nil, fmt.Errorf("matrix: multiply %dx%d by %dx%d: %w",
			rowsA, colsA, rowsB, colsB, melpaint.ErrDimensionMismatch)
	}
	out := zeros(rowsA, colsB)
	for i := 0; i < rowsA; i++ {
		for k := 0; k < colsA; k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < colsB; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

// Apply returns the matrix-vector product m*v.
func Apply(m [][]float64, v []float64) ([]float64, error) {
	rows, cols, err := shape(m)
	if err != nil {
		return nil, err
	}
	if rows > 0 && cols != len(v) {
		return nil, fmt.Errorf("matrix: apply %dx%d to vector of %d: %w",
			rows, cols, len(v), melpaint.ErrDimensionMismatch)
	}
	out := make([]float64, rows)
	for i, row := range m {
		var sum float64
		for j, x := range row {
			sum += x * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

// Invert returns the inverse of a square matrix using Gauss-Jordan
// elimination with partial pivoting. The input is not modified.
func Invert(m [][]float64) ([][]float64, error) {
	rows, cols, err := shape(m)
	if err != nil {
		return nil, err
	}
	if rows != cols {
		return nil, fmt.Errorf("matrix: invert %dx%d: %w", rows, cols, melpaint.ErrDimensionMismatch)
	}
	n := rows

	a := make([][]float64, n)
	for i := range a {
		a[i] = append([]float64(nil), m[i]...)
	}
	inv := Identity(n)

	for i := 0; i < n; i++ {
		// largest magnitude pivot in column i at or below the diagonal
		maxRow := i
		for j := i + 1; j < n; j++ {
			if math.Abs(a[j][i]) > math.Abs(a[maxRow][i]) {
				maxRow = j
			}
		}
		if math.Abs(a[maxRow][i]) < pivotFloor {
			return nil, fmt.Errorf("matrix: zero pivot in column %d: %w", i, melpaint.ErrSingularMatrix)
		}
		if maxRow != i {
			a[i], a[maxRow] = a[maxRow], a[i]
			inv[i], inv[maxRow] = inv[maxRow], inv[i]
		}

		pivot := a[i][i]
		for j := 0; j < n; j++ {
			a[i][j] /= pivot
			inv[i][j] /= pivot
		}

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			factor := a[j][i]
			if factor == 0 {
				continue
			}
			for k := 0; k < n; k++ {
				a[j][k] -= factor * a[i][k]
				inv[j][k] -= factor * inv[i][k]
			}
		}
	}
	return inv, nil
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse of a full-rank
// matrix: Mt(MMt)^-1 when M is wide (fewer rows than columns) and
// (MtM)^-1Mt otherwise. The wide form is a right inverse and the tall form a
// left inverse; MtM of a wide matrix is always singular, so the branches
// cannot be swapped. Rank-deficient input fails with ErrSingularMatrix.
func PseudoInverse(m [][]float64) ([][]float64, error) {
	rows, cols, err := shape(m)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("matrix: pseudo-inverse of %dx%d: %w", rows, cols, melpaint.ErrDimensionMismatch)
	}
	t, err := Transpose(m)
	if err != nil {
		return nil, err
	}

	if rows < cols {
		mmt, err := Multiply(m, t)
		if err != nil {
			return nil, err
		}
		inv, err := Invert(mmt)
		if err != nil {
			return nil, err
		}
		return Multiply(t, inv)
	}

	mtm, err := Multiply(t, m)
	if err != nil {
		return nil, err
	}
	inv, err := Invert(mtm)
	if err != nil {
		return nil, err
	}
	return Multiply(inv, t)
}
