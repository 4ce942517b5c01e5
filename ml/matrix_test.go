package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixFromF32(t *testing.T) {
	m, err := NewMatrixFromF32(2, 3, []float32{0, 0.5, 1, 0.25, 0.75, 0})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{0.25, 0.75, 0}, m.Row(1))
	assert.Equal(t, 0.5, m.Dense().At(0, 1))

	_, err = NewMatrixFromF32(2, 2, []float32{1})
	assert.Error(t, err)
}

func TestMinMax(t *testing.T) {
	m := NewMatrixFromSlice(2, 2, []float64{0.5, 1, -0.25, 0})
	assert.Equal(t, -0.25, m.Min())
	assert.Equal(t, 1.0, m.Max())
}

func TestSummarizerRowByRow(t *testing.T) {
	var s Summarizer
	assert.Equal(t, Summary{}, s.Summary())

	s.AddF32([]float32{0, 1})
	s.AddF32(nil)
	s.AddF32([]float32{0, 1, 0.5, 0.5})
	got := s.Summary()
	assert.Equal(t, 0.0, got.Min)
	assert.Equal(t, 1.0, got.Max)
	assert.InDelta(t, 0.5, got.Mean, 1e-12)
	// values 0,1,0,1,.5,.5: variance = 1/6
	assert.InDelta(t, 0.408248290463863, got.Std, 1e-12)
}

func TestSummarizerNegativeRowsFirst(t *testing.T) {
	var s Summarizer
	s.AddF32([]float32{-3, -2})
	s.AddF32([]float32{5})
	got := s.Summary()
	assert.Equal(t, -3.0, got.Min)
	assert.Equal(t, 5.0, got.Max)
	assert.InDelta(t, 0, got.Mean, 1e-12)
}

func TestSetRowF32(t *testing.T) {
	m := NewMatrix(2, 2)
	m.SetRowF32(1, []float32{3, 4})
	assert.Equal(t, []float64{0, 0}, m.Row(0))
	assert.Equal(t, []float64{3, 4}, m.Row(1))
}

func TestNewMatrixFromSliceMismatch(t *testing.T) {
	assert.Panics(t, func() { NewMatrixFromSlice(2, 2, []float64{1}) })
}
