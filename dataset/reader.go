package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/b0tShaman/medimg/ml"
)

// Reader gives random access to the rows and labels of a dataset on disk.
// Row and Label read only the bytes of the requested record.
type Reader struct {
	Meta *Meta

	xFile *os.File
	yFile *os.File
}

// Open loads and validates the descriptor in dir and opens both artifacts.
func Open(dir string) (*Reader, error) {
	meta, err := LoadMeta(dir)
	if err != nil {
		return nil, err
	}
	return OpenWithMeta(dir, meta)
}

// OpenWithMeta opens the artifacts described by meta inside dir.
func OpenWithMeta(dir string, meta *Meta) (*Reader, error) {
	x, err := os.Open(filepath.Join(dir, meta.X.File))
	if err != nil {
		return nil, err
	}
	y, err := os.Open(filepath.Join(dir, meta.Y.File))
	if err != nil {
		x.Close()
		return nil, err
	}
	return &Reader{Meta: meta, xFile: x, yFile: y}, nil
}

// Close releases both files.
func (r *Reader) Close() error {
	return errors.Join(r.xFile.Close(), r.yFile.Close())
}

// Row reads feature row i with a single read at offset i*d*4.
func (r *Reader) Row(i int) ([]float32, error) {
	row := make([]float32, r.Meta.D)
	if err := r.ReadRow(i, row); err != nil {
		return nil, err
	}
	return row, nil
}

// ReadRow is like Row but decodes into dst, which must have length d.
func (r *Reader) ReadRow(i int, dst []float32) error {
	if len(dst) != r.Meta.D {
		return fmt.Errorf("destination has length %d, want d=%d", len(dst), r.Meta.D)
	}
	buf := make([]byte, r.Meta.RowBytes())
	if err := readAt(r.xFile, buf, i, r.Meta.N, r.Meta.RowBytes()); err != nil {
		return &OutOfRangeError{What: "row", Index: i, File: r.xFile.Name(), cause: err}
	}
	DecodeRow(dst, buf)
	return nil
}

// Label reads label i with a single one-byte read at offset i.
func (r *Reader) Label(i int) (uint8, error) {
	var b [1]byte
	if err := readAt(r.yFile, b[:], i, r.Meta.N, 1); err != nil {
		return 0, &OutOfRangeError{What: "label", Index: i, File: r.yFile.Name(), cause: err}
	}
	return b[0], nil
}

// readAt fills buf from offset i*stride for an index in [0, n). A short read
// is an error; a read that fails for any reason other than EOF is returned
// unchanged.
func readAt(f io.ReaderAt, buf []byte, i, n int, stride int64) error {
	if i < 0 || i >= n {
		return fmt.Errorf("index %d outside [0, %d)", i, n)
	}
	n, err := f.ReadAt(buf, int64(i)*stride)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Matrix loads count consecutive rows starting at start into a float64
// matrix. It is the batch entry point for downstream consumers.
func (r *Reader) Matrix(start, count int) (*ml.Matrix, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	m := ml.NewMatrix(count, r.Meta.D)
	row := make([]float32, r.Meta.D)
	for k := 0; k < count; k++ {
		if err := r.ReadRow(start+k, row); err != nil {
			return nil, err
		}
		m.SetRowF32(k, row)
	}
	return m, nil
}

const verifyChunk = 64 << 10

// Verify checks that both artifacts hold exactly n records and that every
// label indexes into classes when classes are recorded.
func (r *Reader) Verify() error {
	xi, err := r.xFile.Stat()
	if err != nil {
		return err
	}
	yi, err := r.yFile.Stat()
	if err != nil {
		return err
	}
	n := int64(r.Meta.N)
	if want := n * r.Meta.RowBytes(); xi.Size() != want {
		return fmt.Errorf("%s: size %d, want %d (n=%d, d=%d)", xi.Name(), xi.Size(), want, r.Meta.N, r.Meta.D)
	}
	if yi.Size() != n {
		return fmt.Errorf("%s: size %d, want %d (n=%d)", yi.Name(), yi.Size(), n, r.Meta.N)
	}
	if len(r.Meta.Classes) == 0 {
		return nil
	}
	buf := make([]byte, min(verifyChunk, n))
	for off := int64(0); off < n; off += verifyChunk {
		chunk := buf[:min(verifyChunk, n-off)]
		if _, err := r.yFile.ReadAt(chunk, off); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		for k, l := range chunk {
			if int(l) >= len(r.Meta.Classes) {
				return fmt.Errorf("label %d at index %d is not a valid class index (%d classes)", l, off+int64(k), len(r.Meta.Classes))
			}
		}
	}
	return nil
}
