package dataset

import (
	"fmt"

	"github.com/arloliu/sbfs/errs"
)

// Matrix is a dense row-major observations × features matrix.
//
// Unlike gonum's Dense it may have zero rows or zero columns, which is how an
// empty subset or a fully filtered design is represented.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix wraps data as a rows × cols matrix. data is not copied.
func NewMatrix(rows, cols int, data []float64) (Matrix, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("%w: %d×%d matrix with %d values", errs.ErrDimensionMismatch, rows, cols, len(data))
	}

	return Matrix{rows: rows, cols: cols, data: data}, nil
}

// FromRows builds a matrix by copying equally sized rows.
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Matrix{}, fmt.Errorf("%w: row %d has %d values, want %d", errs.ErrDimensionMismatch, i, len(r), cols)
		}
		data = append(data, r...)
	}

	return Matrix{rows: len(rows), cols: cols, data: data}, nil
}

// Dims returns the number of rows and columns.
func (m Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Rows returns the number of observations.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of features.
func (m Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Row returns row i. The returned slice aliases the matrix storage.
func (m Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Column returns a copy of column j.
func (m Matrix) Column(j int) []float64 {
	out := make([]float64, m.rows)
	for i := range m.rows {
		out[i] = m.data[i*m.cols+j]
	}

	return out
}

// Raw returns the row-major backing slice.
func (m Matrix) Raw() []float64 {
	return m.data
}

// SelectRows returns a new matrix holding the given rows in the given order.
func (m Matrix) SelectRows(idx []int) Matrix {
	data := make([]float64, 0, len(idx)*m.cols)
	for _, i := range idx {
		data = append(data, m.Row(i)...)
	}

	return Matrix{rows: len(idx), cols: m.cols, data: data}
}
