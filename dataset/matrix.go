package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/*
Matrix is an immutable collection of numerically encoded samples: one row
per sample, one column per feature of a feature.Catalog.

The zero-row matrix is valid and keeps its column count.
*/
type Matrix struct {
	dense *mat.Dense
	cols  int
}

/*
NewMatrix takes a column count and a slice of encoded rows and returns a
matrix holding a copy of them, or an error if a row does not have the given
number of columns.
*/
func NewMatrix(cols int, rows [][]float64) (*Matrix, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("matrix needs at least one column, got %d", cols)
	}
	if len(rows) == 0 {
		return &Matrix{cols: cols}, nil
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Matrix{dense: mat.NewDense(len(rows), cols, data), cols: cols}, nil
}

/*
FromDense takes a gonum matrix and returns a Matrix over a copy of it.
*/
func FromDense(m mat.Matrix) *Matrix {
	r, c := m.Dims()
	if r == 0 {
		return &Matrix{cols: c}
	}
	return &Matrix{dense: mat.DenseCopyOf(m), cols: c}
}

// Rows returns the number of samples in the matrix.
func (m *Matrix) Rows() int {
	if m.dense == nil {
		return 0
	}
	r, _ := m.dense.Dims()
	return r
}

// Cols returns the number of features in the matrix.
func (m *Matrix) Cols() int {
	return m.cols
}

// At returns the encoded value of feature j for sample i.
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Row returns a copy of sample i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.dense)
}

/*
RowView returns sample i without copying it. The returned slice shares
storage with the matrix and must not be modified.
*/
func (m *Matrix) RowView(i int) []float64 {
	return m.dense.RawRowView(i)
}

// Column returns a copy of the values of feature j for every sample.
func (m *Matrix) Column(j int) []float64 {
	if m.dense == nil {
		return []float64{}
	}
	return mat.Col(nil, j, m.dense)
}

/*
Dense returns a read-only gonum view of the matrix, or nil for a matrix
without rows.
*/
func (m *Matrix) Dense() mat.Matrix {
	if m.dense == nil {
		return nil
	}
	return m.dense
}

/*
Select returns a new matrix with the samples in the mask, in their original
order. It returns an error if the mask does not have one entry per sample.
*/
func (m *Matrix) Select(mask Mask) (*Matrix, error) {
	if len(mask) != m.Rows() {
		return nil, fmt.Errorf("selecting samples: mask has %d entries for %d samples", len(mask), m.Rows())
	}
	rows := make([][]float64, 0, mask.Count())
	for _, i := range mask.Indices() {
		rows = append(rows, m.RowView(i))
	}
	return NewMatrix(m.cols, rows)
}
