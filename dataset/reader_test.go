package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSmall(t *testing.T, rows [][]float32, labels []uint8, classes []string) string {
	t.Helper()
	dir := t.TempDir()
	meta := NewMeta(len(rows), len(rows[0]), classes)
	_, err := WriteDataset(dir, meta, rows, labels)
	require.NoError(t, err)
	return dir
}

func TestReaderOffsets(t *testing.T) {
	rows := [][]float32{{0, 0.25, 0.5}, {1, -2, 3.5}, {1e-7, 0.1, 0.9}}
	dir := writeSmall(t, rows, []uint8{2, 0, 1}, []string{"a", "b", "c"})

	raw, err := os.ReadFile(filepath.Join(dir, FeatureFileName))
	require.NoError(t, err)
	require.Len(t, raw, 3*3*4)
	// 0.25 little-endian at row 0, column 1
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3e}, raw[4:8])

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	for i, want := range rows {
		got, err := r.Row(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	l, err := r.Label(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), l)
}

func TestReaderOutOfRange(t *testing.T) {
	dir := writeSmall(t, [][]float32{{1, 2}, {3, 4}}, []uint8{0, 1}, nil)
	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	for _, i := range []int{2, 3, 100, -1} {
		_, err := r.Row(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "row %d", i)
		_, err = r.Label(i)
		assert.ErrorIs(t, err, ErrOutOfRange, "label %d", i)
	}
}

func TestReaderTruncated(t *testing.T) {
	dir := writeSmall(t, [][]float32{{1, 2}, {3, 4}}, []uint8{0, 1}, []string{"a", "b"})
	require.NoError(t, os.Truncate(filepath.Join(dir, FeatureFileName), 12))

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Row(0)
	require.NoError(t, err)
	_, err = r.Row(1)
	var oe *OutOfRangeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "row", oe.What)
	assert.Equal(t, 1, oe.Index)

	assert.Error(t, r.Verify())
}

func TestReaderVerifyBadLabel(t *testing.T) {
	dir := writeSmall(t, [][]float32{{1}, {2}}, []uint8{0, 5}, []string{"a", "b"})
	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()
	assert.ErrorContains(t, r.Verify(), "label 5 at index 1")
}

func TestReaderIndexBeyondN(t *testing.T) {
	dir := writeSmall(t, [][]float32{{1, 2}, {3, 4}}, []uint8{0, 1}, []string{"a", "b"})
	for name, extra := range map[string]int{FeatureFileName: 8, LabelFileName: 1} {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_WRONLY, 0)
		require.NoError(t, err)
		_, err = f.Write(make([]byte, extra))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Row(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.Label(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Error(t, r.Verify())
}

func TestReaderVerifyScansAllChunks(t *testing.T) {
	n := verifyChunk + 100
	rows := make([][]float32, n)
	for i := range rows {
		rows[i] = []float32{0}
	}
	labels := make([]uint8, n)
	dir := writeSmall(t, rows, labels, []string{"a", "b"})

	r, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, r.Verify())
	require.NoError(t, r.Close())

	labels[n-1] = 2
	dir = writeSmall(t, rows, labels, []string{"a", "b"})
	r, err = Open(dir)
	require.NoError(t, err)
	defer r.Close()
	assert.ErrorContains(t, r.Verify(), fmt.Sprintf("label 2 at index %d", n-1))
}

func TestReaderMatrix(t *testing.T) {
	rows := [][]float32{{0, 1}, {0.5, 0.25}, {1, 0}}
	dir := writeSmall(t, rows, []uint8{0, 0, 0}, nil)
	r, err := Open(dir)
	require.NoError(t, err)
	defer r.Close()

	m, err := r.Matrix(1, 2)
	require.NoError(t, err)
	rr, cc := m.Dims()
	assert.Equal(t, 2, rr)
	assert.Equal(t, 2, cc)
	assert.Equal(t, []float64{0.5, 0.25}, m.Row(0))
	assert.Equal(t, 0.0, m.At(1, 1))

	_, err = r.Matrix(2, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.Matrix(0, 0)
	assert.Error(t, err)
}

func TestWriteDatasetInconsistent(t *testing.T) {
	meta := NewMeta(2, 2, nil)
	_, err := WriteDataset(t.TempDir(), meta, [][]float32{{1, 2}}, []uint8{0, 0})
	assert.Error(t, err)

	_, err = WriteDataset(t.TempDir(), meta, [][]float32{{1, 2}, {3}}, []uint8{0, 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

var resultRow []float32

func benchmarkRow(b *testing.B, d int) {
	dir := b.TempDir()
	rows := make([][]float32, 64)
	for i := range rows {
		rows[i] = make([]float32, d)
	}
	labels := make([]uint8, len(rows))
	if _, err := WriteDataset(dir, NewMeta(len(rows), d, nil), rows, labels); err != nil {
		b.Fatal(err)
	}
	r, err := Open(dir)
	if err != nil {
		b.Fatal(err)
	}
	defer r.Close()
	dst := make([]float32, d)

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if err := r.ReadRow(n%len(rows), dst); err != nil {
			b.Fatal(err)
		}
	}
	resultRow = dst
}

func BenchmarkRow_1024(b *testing.B) { benchmarkRow(b, 1024) }
func BenchmarkRow_4096(b *testing.B) { benchmarkRow(b, 4096) }
