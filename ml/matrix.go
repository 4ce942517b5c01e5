package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix represents a dense matrix with a flat data slice for performance.
type Matrix struct {
	rows, cols int
	data       []float64
	dense      *mat.Dense
}

// Summary holds scalar statistics over a set of values.
type Summary struct {
	Min, Max  float64
	Mean, Std float64
}

// -------- CONSTRUCTORS ------- //
// NewMatrix panics if rows or cols is zero, like mat.NewDense.
func NewMatrix(rows, cols int) *Matrix {
	data := make([]float64, rows*cols)
	return &Matrix{
		rows:  rows,
		cols:  cols,
		data:  data,
		dense: mat.NewDense(rows, cols, data),
	}
}

func NewMatrixFromSlice(rows, cols int, data []float64) *Matrix {
	if len(data) != rows*cols {
		panic("Slice length mismatch")
	}

	return &Matrix{
		rows:  rows,
		cols:  cols,
		data:  data,
		dense: mat.NewDense(rows, cols, data),
	}
}

// NewMatrixFromF32 widens a row-major float32 buffer into a new Matrix.
func NewMatrixFromF32(rows, cols int, src []float32) (*Matrix, error) {
	if len(src) != rows*cols {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d", len(src), rows, cols)
	}
	data := make([]float64, len(src))
	for i, v := range src {
		data[i] = float64(v)
	}
	return NewMatrixFromSlice(rows, cols, data), nil
}

// ------- MATRIX METHODS ------ //
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// Dense exposes the gonum view sharing m's storage.
func (m *Matrix) Dense() *mat.Dense { return m.dense }

// Row returns row i without copying.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

func (m *Matrix) At(i, j int) float64 { return m.dense.At(i, j) }

// SetRowF32 copies a float32 row into row i.
func (m *Matrix) SetRowF32(i int, src []float32) {
	row := m.Row(i)
	for j := range row {
		row[j] = float64(src[j])
	}
}

func (m *Matrix) Min() float64 { return floats.Min(m.data) }

func (m *Matrix) Max() float64 { return floats.Max(m.data) }

// Summarizer accumulates Summary statistics one row at a time, holding
// only a single widened row.
type Summarizer struct {
	buf        []float64
	count      int
	min, max   float64
	sum, sumSq float64
}

// AddF32 folds one float32 row into the running statistics.
func (s *Summarizer) AddF32(row []float32) {
	if len(row) == 0 {
		return
	}
	if cap(s.buf) < len(row) {
		s.buf = make([]float64, len(row))
	}
	buf := s.buf[:len(row)]
	for i, v := range row {
		buf[i] = float64(v)
	}

	lo, hi := floats.Min(buf), floats.Max(buf)
	if s.count == 0 || lo < s.min {
		s.min = lo
	}
	if s.count == 0 || hi > s.max {
		s.max = hi
	}
	s.sum += floats.Sum(buf)
	s.sumSq += floats.Dot(buf, buf)
	s.count += len(buf)
}

// Summary returns min, max, mean and population std of every value added.
// Nothing added yields the zero Summary.
func (s *Summarizer) Summary() Summary {
	if s.count == 0 {
		return Summary{}
	}
	n := float64(s.count)
	mean := s.sum / n
	variance := math.Max(s.sumSq/n-mean*mean, 0)
	return Summary{Min: s.min, Max: s.max, Mean: mean, Std: math.Sqrt(variance)}
}
