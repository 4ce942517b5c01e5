package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// EncodeFeatures writes rows as little-endian float32, row-major, no header.
func EncodeFeatures(w io.Writer, rows [][]float32) error {
	bw := bufio.NewWriter(w)
	var buf [4]byte
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// DecodeRow decodes one little-endian float32 row into dst.
func DecodeRow(dst []float32, b []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
}

// writeFileAtomic writes to path+".tmp", syncs, then renames over path.
func writeFileAtomic(path string, write func(io.Writer) error) (int64, error) {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	return info.Size(), nil
}

// Artifact is one written output file.
type Artifact struct {
	Path string
	Size int64
}

// WriteDataset writes the feature matrix, the label vector and the
// descriptor into dir, creating it if needed. Existing files are replaced.
// meta must already describe rows and labels.
func WriteDataset(dir string, meta *Meta, rows [][]float32, labels []uint8) ([]Artifact, error) {
	if len(rows) != meta.N || len(labels) != meta.N {
		return nil, fmt.Errorf("have %d rows and %d labels, meta says n=%d", len(rows), len(labels), meta.N)
	}
	for i, row := range rows {
		if len(row) != meta.D {
			return nil, &ShapeMismatchError{Height: 1, Width: len(row), Got: meta.D, cause: fmt.Errorf("row %d", i)}
		}
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	steps := []struct {
		name  string
		write func(io.Writer) error
	}{
		{meta.X.File, func(w io.Writer) error { return EncodeFeatures(w, rows) }},
		{meta.Y.File, func(w io.Writer) error {
			_, err := w.Write(labels)
			return err
		}},
		{MetaFileName, meta.Encode},
	}

	out := make([]Artifact, 0, len(steps))
	for _, s := range steps {
		path := filepath.Join(dir, s.name)
		size, err := writeFileAtomic(path, s.write)
		if err != nil {
			return nil, err
		}
		out = append(out, Artifact{Path: path, Size: size})
	}
	return out, nil
}
